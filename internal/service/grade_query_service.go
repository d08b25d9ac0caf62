package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
)

type gradeViewReader interface {
	FindViewsByStudent(ctx context.Context, studentID string) ([]models.GradeView, error)
}

// GradeQueryService serves the read side of the ledger: which of a
// student's grades a given teacher may see. Read visibility is distinct
// from the mutation policy and follows current course ownership only.
type GradeQueryService struct {
	grades   gradeViewReader
	students studentReader
	courses  courseReader
	logger   *zap.Logger
}

// NewGradeQueryService constructs a GradeQueryService.
func NewGradeQueryService(grades gradeViewReader, students studentReader, courses courseReader, logger *zap.Logger) *GradeQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeQueryService{grades: grades, students: students, courses: courses, logger: logger}
}

// GradesForStudent returns the grades of a student visible to the acting
// teacher, most recent first. When courseID is given it must be the
// student's current course and the teacher must own it; when omitted the
// teacher must own the student's current course.
func (s *GradeQueryService) GradesForStudent(ctx context.Context, teacherID, studentID string, courseID *string) ([]models.GradeView, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.CourseID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is not assigned to a course")
	}

	current, err := s.courses.FindByID(ctx, *student.CourseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student course")
	}

	var scope []models.Subject
	if courseID != nil {
		requested, err := s.courses.FindByID(ctx, *courseID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
		if !requested.OwnedBy(teacherID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course is not taught by the requesting teacher")
		}
		if *student.CourseID != requested.ID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student does not belong to the requested course")
		}
		scope = subjectScope(current, requested)
	} else {
		if !current.OwnedBy(teacherID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "student's course is not taught by the requesting teacher")
		}
		scope = subjectScope(current, nil)
	}

	views, err := s.grades.FindViewsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return decorateViews(filterBySubjects(views, scope)), nil
}

// subjectScope prefers the student's current course subject set, falling
// back to the requested course's set. An empty result means no filter.
func subjectScope(current, requested *models.Course) []models.Subject {
	if current != nil && len(current.Subjects) > 0 {
		return current.Subjects
	}
	if requested != nil {
		return requested.Subjects
	}
	return nil
}

func filterBySubjects(views []models.GradeView, scope []models.Subject) []models.GradeView {
	if len(scope) == 0 {
		return views
	}
	allowed := make(map[models.Subject]struct{}, len(scope))
	for _, subject := range scope {
		allowed[subject] = struct{}{}
	}
	filtered := make([]models.GradeView, 0, len(views))
	for _, view := range views {
		if _, ok := allowed[view.Subject]; ok {
			filtered = append(filtered, view)
		}
	}
	return filtered
}

func decorateViews(views []models.GradeView) []models.GradeView {
	for i := range views {
		views[i].SubjectName = views[i].Subject.Display()
		views[i].TypeName = views[i].GradeType.Display()
	}
	return views
}
