package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/dto"
	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
)

// StudentGradesService builds the full grade history view for a student,
// applying teacher read visibility when the caller is not the student.
type StudentGradesService struct {
	queries  *GradeQueryService
	grades   gradeViewReader
	students studentReader
	courses  courseReader
	logger   *zap.Logger
}

// NewStudentGradesService constructs a StudentGradesService.
func NewStudentGradesService(queries *GradeQueryService, grades gradeViewReader, students studentReader, courses courseReader, logger *zap.Logger) *StudentGradesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentGradesService{queries: queries, grades: grades, students: students, courses: courses, logger: logger}
}

// OverviewForTeacher returns a student's grade history scoped by the
// requesting teacher's visibility.
func (s *StudentGradesService) OverviewForTeacher(ctx context.Context, teacherID, studentID string, courseID *string) (*dto.StudentGradesResponse, error) {
	views, err := s.queries.GradesForStudent(ctx, teacherID, studentID, courseID)
	if err != nil {
		return nil, err
	}
	return s.buildOverview(ctx, studentID, views)
}

// OverviewForStudent returns the student's own unfiltered grade history.
func (s *StudentGradesService) OverviewForStudent(ctx context.Context, studentID string) (*dto.StudentGradesResponse, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId is required")
	}
	views, err := s.grades.FindViewsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}
	return s.buildOverview(ctx, studentID, decorateViews(views))
}

func (s *StudentGradesService) buildOverview(ctx context.Context, studentID string, views []models.GradeView) (*dto.StudentGradesResponse, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	grades := make([]models.Grade, 0, len(views))
	for _, view := range views {
		grades = append(grades, view.Grade)
	}

	resp := &dto.StudentGradesResponse{
		StudentID:      student.ID,
		StudentName:    student.FullName,
		CourseID:       student.CourseID,
		AverageDisplay: AverageDisplay(grades),
		Subjects:       breakdownItems(SubjectBreakdown(grades, BySubjectName)),
		Grades:         gradeViewItems(views),
	}

	if student.CourseID != nil {
		course, err := s.courses.FindByID(ctx, *student.CourseID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("course lookup failed for grade overview", zap.String("course_id", *student.CourseID), zap.Error(err))
		} else if course != nil {
			resp.CourseName = course.Name
		}
	}
	return resp, nil
}

func gradeViewItems(views []models.GradeView) []dto.GradeItem {
	items := make([]dto.GradeItem, 0, len(views))
	for _, view := range views {
		item := dto.GradeItem{
			ID:            view.ID,
			Subject:       string(view.Subject),
			SubjectName:   view.SubjectName,
			GradeType:     string(view.GradeType),
			GradeTypeName: view.TypeName,
			Value:         view.Value(),
			GradedAt:      view.GradedAt,
			GraderName:    view.GraderName,
			Feedback:      view.Feedback,
		}
		if view.Letter != nil {
			item.Letter = string(*view.Letter)
			item.LetterDisplay = view.Letter.Display()
		}
		items = append(items, item)
	}
	return items
}
