package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
)

type mockGradeStore struct {
	grades   map[string]*models.Grade
	nextID   int
	feedback map[string]*string
}

func newMockGradeStore() *mockGradeStore {
	return &mockGradeStore{grades: make(map[string]*models.Grade), feedback: make(map[string]*string)}
}

func (m *mockGradeStore) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	if g, ok := m.grades[id]; ok {
		copied := *g
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeStore) FindByKey(ctx context.Context, studentID string, subject models.Subject, gradeType models.GradeType) (*models.Grade, error) {
	for _, g := range m.grades {
		if g.StudentID == studentID && g.Subject == subject && g.GradeType == gradeType {
			copied := *g
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockGradeStore) Save(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		m.nextID++
		grade.ID = fmt.Sprintf("grade-%d", m.nextID)
	}
	copied := *grade
	m.grades[grade.ID] = &copied
	return nil
}

func (m *mockGradeStore) UpdateFeedback(ctx context.Context, id string, feedback *string) error {
	if g, ok := m.grades[id]; ok {
		g.Feedback = feedback
	}
	m.feedback[id] = feedback
	return nil
}

func (m *mockGradeStore) Delete(ctx context.Context, id string) error {
	delete(m.grades, id)
	return nil
}

type mockCourseReader struct {
	courses map[string]*models.Course
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func strPtr(s string) *string {
	return &s
}

func newGradeFixture() (*GradeService, *mockGradeStore, *GradeTypeCatalog) {
	store := newMockGradeStore()
	courses := &mockCourseReader{courses: map[string]*models.Course{
		"course-10a": {
			ID:        "course-10a",
			Name:      "10A",
			TeacherID: strPtr("teacher-1"),
			Subjects:  []models.Subject{models.SubjectMath, models.SubjectEnglish},
		},
	}}
	students := &mockStudentReader{students: map[string]*models.Student{
		"stu-1": {ID: "stu-1", FullName: "Ana Petrova", CourseID: strPtr("course-10a"), Active: true},
		"stu-2": {ID: "stu-2", FullName: "Boris Ivanov", CourseID: strPtr("course-10a"), Active: true},
	}}
	catalog := NewGradeTypeCatalog()
	svc := NewGradeService(store, courses, students, catalog, validator.New(), zap.NewNop())
	return svc, store, catalog
}

func TestSaveBatchCreatesGrades(t *testing.T) {
	svc, store, catalog := newGradeFixture()

	result, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID:    "course-10a",
		Subject:     "MATH",
		GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries:     map[string]string{"stu-1": "5", "stu-2": "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Saved)
	assert.Equal(t, 0, result.Deleted)
	assert.Empty(t, result.Skipped)
	assert.Len(t, store.grades, 2)

	saved, err := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, models.LetterVeryGood, *saved.Letter)
	assert.Equal(t, "teacher-1", saved.GraderID)
}

func TestSaveBatchUpsertsExistingRecord(t *testing.T) {
	svc, store, catalog := newGradeFixture()
	typeID := catalog.IDFor(models.GradeTypeExam)

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: typeID,
		Entries: map[string]string{"stu-1": "5"},
	})
	require.NoError(t, err)

	first, _ := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
	require.NotNil(t, first)

	// A second submission for the same key replaces the value in place.
	result, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: typeID,
		Entries: map[string]string{"stu-1": "6"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Saved)
	assert.Len(t, store.grades, 1)

	second, _ := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.LetterExcellent, *second.Letter)
}

func TestSaveBatchEmptyValueDeletesExisting(t *testing.T) {
	svc, store, catalog := newGradeFixture()
	typeID := catalog.IDFor(models.GradeTypeExam)

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: typeID,
		Entries: map[string]string{"stu-1": "4"},
	})
	require.NoError(t, err)
	require.Len(t, store.grades, 1)

	result, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: typeID,
		Entries: map[string]string{"stu-1": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Empty(t, store.grades)
}

func TestSaveBatchEmptyValueWithoutRecordIsNoOp(t *testing.T) {
	svc, store, catalog := newGradeFixture()

	result, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeTest),
		Entries: map[string]string{"stu-1": "  "},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	assert.Equal(t, 0, result.Deleted)
	assert.Empty(t, store.grades)
}

func TestSaveBatchSkipsValuesOutsideScale(t *testing.T) {
	svc, store, catalog := newGradeFixture()

	result, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"stu-1": "7", "stu-2": "abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Saved)
	assert.Len(t, result.Skipped, 2)
	assert.Empty(t, store.grades)
}

func TestSaveBatchRejectsUnknownCourse(t *testing.T) {
	svc, _, catalog := newGradeFixture()

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "missing", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"stu-1": "5"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSaveBatchRejectsInvalidGradeType(t *testing.T) {
	svc, _, _ := newGradeFixture()

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: "not-a-real-id",
		Entries: map[string]string{"stu-1": "5"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSaveBatchRejectsSubjectOutsideCourse(t *testing.T) {
	svc, _, catalog := newGradeFixture()

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MUSIC", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"stu-1": "5"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSaveBatchUnknownStudentAborts(t *testing.T) {
	svc, _, catalog := newGradeFixture()

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"ghost": "5"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSaveBatchDefaultsGradedAt(t *testing.T) {
	svc, store, catalog := newGradeFixture()
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"stu-1": "5"},
	})
	require.NoError(t, err)

	saved, _ := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
	require.NotNil(t, saved)
	assert.Equal(t, fixed, saved.GradedAt)
}

func TestDeleteAllowsCourseTeacherAndGrader(t *testing.T) {
	cases := []struct {
		name      string
		teacherID string
		allowed   bool
	}{
		{name: "course teacher", teacherID: "teacher-1", allowed: true},
		{name: "issuing teacher", teacherID: "teacher-2", allowed: true},
		{name: "unrelated teacher", teacherID: "teacher-3", allowed: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store, catalog := newGradeFixture()
			// teacher-2 issues the grade in teacher-1's course.
			_, err := svc.SaveBatch(context.Background(), "teacher-2", SaveGradesRequest{
				CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
				Entries: map[string]string{"stu-1": "5"},
			})
			require.NoError(t, err)
			saved, _ := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
			require.NotNil(t, saved)

			err = svc.Delete(context.Background(), tc.teacherID, saved.ID)
			if tc.allowed {
				require.NoError(t, err)
				assert.Empty(t, store.grades)
			} else {
				require.Error(t, err)
				assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
				assert.Len(t, store.grades, 1)
			}
		})
	}
}

func TestDeleteUnknownGrade(t *testing.T) {
	svc, _, _ := newGradeFixture()
	err := svc.Delete(context.Background(), "teacher-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdateFeedbackTrimsAndClears(t *testing.T) {
	svc, store, catalog := newGradeFixture()
	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"stu-1": "5"},
	})
	require.NoError(t, err)
	saved, _ := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
	require.NotNil(t, saved)

	require.NoError(t, svc.UpdateFeedback(context.Background(), "teacher-1", saved.ID, strPtr("  well done  ")))
	stored := store.feedback[saved.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "well done", *stored)

	require.NoError(t, svc.UpdateFeedback(context.Background(), "teacher-1", saved.ID, strPtr("   ")))
	assert.Nil(t, store.feedback[saved.ID])
}

func TestUpdateFeedbackForbiddenForOutsider(t *testing.T) {
	svc, store, catalog := newGradeFixture()
	_, err := svc.SaveBatch(context.Background(), "teacher-1", SaveGradesRequest{
		CourseID: "course-10a", Subject: "MATH", GradeTypeID: catalog.IDFor(models.GradeTypeExam),
		Entries: map[string]string{"stu-1": "5"},
	})
	require.NoError(t, err)
	saved, _ := store.FindByKey(context.Background(), "stu-1", models.SubjectMath, models.GradeTypeExam)
	require.NotNil(t, saved)

	err = svc.UpdateFeedback(context.Background(), "teacher-9", saved.ID, strPtr("nope"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
