package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
)

type gradeStore interface {
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	FindByKey(ctx context.Context, studentID string, subject models.Subject, gradeType models.GradeType) (*models.Grade, error)
	Save(ctx context.Context, grade *models.Grade) error
	UpdateFeedback(ctx context.Context, id string, feedback *string) error
	Delete(ctx context.Context, id string) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type gradeTypeResolver interface {
	Resolve(id string) (models.GradeType, bool)
}

// SaveGradesRequest carries one grading sheet submission: raw values keyed
// by student ID for a single course, subject and grade type.
type SaveGradesRequest struct {
	CourseID    string            `json:"course_id" validate:"required"`
	Subject     string            `json:"subject" validate:"required"`
	GradeTypeID string            `json:"grade_type_id" validate:"required"`
	GradedAt    time.Time         `json:"graded_at"`
	Entries     map[string]string `json:"entries" validate:"required"`
}

// SkippedEntry describes a batch entry that was dropped without a mutation.
type SkippedEntry struct {
	StudentID string `json:"student_id"`
	RawValue  string `json:"raw_value"`
	Reason    string `json:"reason"`
}

// BatchResult summarises what a SaveBatch call did. Unparseable values are
// tolerated rather than failing the batch, but they are reported here so
// callers can tell "all saved" from "some entries dropped".
type BatchResult struct {
	Saved   int            `json:"saved"`
	Deleted int            `json:"deleted"`
	Skipped []SkippedEntry `json:"skipped,omitempty"`
}

// GradeService is the write-side ledger for grade records. It enforces the
// one-record-per-(student, subject, grade type) invariant and the dual
// course-owner / original-grader mutation policy.
type GradeService struct {
	grades    gradeStore
	courses   courseReader
	students  studentReader
	catalog   gradeTypeResolver
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewGradeService constructs a GradeService.
func NewGradeService(grades gradeStore, courses courseReader, students studentReader, catalog gradeTypeResolver, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		grades:    grades,
		courses:   courses,
		students:  students,
		catalog:   catalog,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// SaveBatch applies a grading sheet. Entries are processed sequentially and
// independently: an empty value deletes the existing record, a valid value
// upserts, an out-of-range value is skipped. A missing student aborts the
// whole call; entries already processed are not rolled back.
func (s *GradeService) SaveBatch(ctx context.Context, teacherID string, req SaveGradesRequest) (*BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade batch payload")
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if len(course.Subjects) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course has no configured subjects")
	}

	gradeType, ok := s.catalog.Resolve(req.GradeTypeID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "invalid grade type")
	}

	subject, ok := models.ParseSubject(req.Subject)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}
	if !course.HasSubject(subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("subject %s is not taught in course %s", subject, course.Name))
	}

	gradedAt := req.GradedAt
	if gradedAt.IsZero() {
		gradedAt = s.now().UTC()
	}

	studentIDs := make([]string, 0, len(req.Entries))
	for id := range req.Entries {
		studentIDs = append(studentIDs, id)
	}
	sort.Strings(studentIDs)

	result := &BatchResult{}
	for _, studentID := range studentIDs {
		if err := s.applyEntry(ctx, teacherID, subject, gradeType, gradedAt, studentID, req.Entries[studentID], result); err != nil {
			return nil, err
		}
	}
	s.logger.Info("grade batch applied",
		zap.String("course_id", req.CourseID),
		zap.String("subject", string(subject)),
		zap.String("grade_type", string(gradeType)),
		zap.Int("saved", result.Saved),
		zap.Int("deleted", result.Deleted),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *GradeService) applyEntry(ctx context.Context, teacherID string, subject models.Subject, gradeType models.GradeType, gradedAt time.Time, studentID, rawValue string, result *BatchResult) error {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	existing, err := s.grades.FindByKey(ctx, studentID, subject, gradeType)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up grade")
	}

	raw := strings.TrimSpace(rawValue)
	if raw == "" {
		if existing == nil {
			return nil
		}
		if err := s.grades.Delete(ctx, existing.ID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
		}
		result.Deleted++
		return nil
	}

	letter, ok := models.LetterForValue(raw)
	if !ok {
		// Tolerated: malformed sheet cells are dropped, not fatal.
		result.Skipped = append(result.Skipped, SkippedEntry{StudentID: studentID, RawValue: raw, Reason: "value outside grade scale"})
		return nil
	}

	grade := existing
	if grade == nil {
		grade = &models.Grade{StudentID: studentID, Subject: subject, GradeType: gradeType}
	}
	grade.Letter = &letter
	grade.GradedAt = gradedAt
	grade.GraderID = teacherID
	if err := s.grades.Save(ctx, grade); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade")
	}
	result.Saved++
	return nil
}

// Delete removes a grade after checking the mutation policy.
func (s *GradeService) Delete(ctx context.Context, teacherID, gradeID string) error {
	grade, err := s.loadForMutation(ctx, teacherID, gradeID)
	if err != nil {
		return err
	}
	if err := s.grades.Delete(ctx, grade.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}

// UpdateFeedback replaces the feedback text of a grade after checking the
// mutation policy. Blank input clears the stored feedback.
func (s *GradeService) UpdateFeedback(ctx context.Context, teacherID, gradeID string, feedback *string) error {
	grade, err := s.loadForMutation(ctx, teacherID, gradeID)
	if err != nil {
		return err
	}
	var stored *string
	if feedback != nil {
		if trimmed := strings.TrimSpace(*feedback); trimmed != "" {
			stored = &trimmed
		}
	}
	if err := s.grades.UpdateFeedback(ctx, grade.ID, stored); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update feedback")
	}
	return nil
}

// loadForMutation fetches the grade and its ownership context, then applies
// the mutation policy.
func (s *GradeService) loadForMutation(ctx context.Context, teacherID, gradeID string) (*models.Grade, error) {
	grade, err := s.grades.FindByID(ctx, gradeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}

	student, course := s.ownershipContext(ctx, grade.StudentID)
	if !CanMutateGrade(teacherID, grade, student, course) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the course teacher or the issuing teacher may modify this grade")
	}
	return grade, nil
}

// ownershipContext resolves the grade's student and that student's current
// course. Lookup failures degrade to nil: the policy then falls back to the
// grader clause alone.
func (s *GradeService) ownershipContext(ctx context.Context, studentID string) (*models.Student, *models.Course) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("student lookup failed during grade mutation", zap.String("student_id", studentID), zap.Error(err))
		}
		return nil, nil
	}
	if student.CourseID == nil {
		return student, nil
	}
	course, err := s.courses.FindByID(ctx, *student.CourseID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("course lookup failed during grade mutation", zap.String("course_id", *student.CourseID), zap.Error(err))
		}
		return student, nil
	}
	return student, course
}
