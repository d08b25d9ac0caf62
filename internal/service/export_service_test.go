package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/notebook-api/internal/models"
	appErrors "github.com/noah-isme/notebook-api/pkg/errors"
)

func newExportFixture(now time.Time) *ExportService {
	letterOf := func(l models.GradeLetter) *models.GradeLetter { return &l }
	courses := &mockCourseRoster{
		courses: map[string]*models.Course{
			"course-10a": {
				ID:        "course-10a",
				Name:      "10A",
				TeacherID: strPtr("teacher-1"),
				Subjects:  []models.Subject{models.SubjectMath, models.SubjectEnglish},
			},
		},
		roster: map[string][]models.Student{
			"course-10a": {
				{ID: "stu-1", FullName: "Ana Petrova"},
				{ID: "stu-2", FullName: "Boris Ivanov"},
			},
		},
	}
	grades := &mockGradeHistory{byStudent: map[string][]models.Grade{
		"stu-1": {
			{StudentID: "stu-1", Subject: models.SubjectMath, GradeType: models.GradeTypeExam, Letter: letterOf(models.LetterExcellent)},
			{StudentID: "stu-1", Subject: models.SubjectMath, GradeType: models.GradeTypeTest, Letter: letterOf(models.LetterGood)},
			{StudentID: "stu-1", Subject: models.SubjectEnglish, GradeType: models.GradeTypeExam, Letter: letterOf(models.LetterAverage)},
		},
	}}
	svc := NewExportService(courses, grades, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return now }
	return svc
}

func TestGradeSheetRendersCSVMatrix(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC)
	svc := newExportFixture(now)

	result, err := svc.GradeSheet(context.Background(), "teacher-1", GradeSheetRequest{
		CourseID: "course-10a",
		Subject:  "MATH",
		Format:   ExportFormatCSV,
	})
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "grades_10a_math_20260502_103000.csv", result.Filename)

	want := "Student,Exam,Test,Project,Homework,Participation,Average\n" +
		"Ana Petrova,6,4,,,,5.00\n" +
		"Boris Ivanov,,,,,,--\n"
	assert.Equal(t, want, string(result.Payload))
}

func TestGradeSheetRendersPDF(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 30, 0, 0, time.UTC)
	svc := newExportFixture(now)

	result, err := svc.GradeSheet(context.Background(), "teacher-1", GradeSheetRequest{
		CourseID: "course-10a",
		Subject:  "english",
		Format:   ExportFormatPDF,
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "grades_10a_english_20260502_103000.pdf", result.Filename)
	assert.NotEmpty(t, result.Payload)
}

func TestGradeSheetForbiddenForNonOwner(t *testing.T) {
	svc := newExportFixture(time.Now())

	_, err := svc.GradeSheet(context.Background(), "teacher-2", GradeSheetRequest{
		CourseID: "course-10a",
		Subject:  "MATH",
		Format:   ExportFormatCSV,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestGradeSheetUnknownCourse(t *testing.T) {
	svc := newExportFixture(time.Now())

	_, err := svc.GradeSheet(context.Background(), "teacher-1", GradeSheetRequest{
		CourseID: "ghost",
		Subject:  "MATH",
		Format:   ExportFormatCSV,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGradeSheetRejectsBadSubject(t *testing.T) {
	svc := newExportFixture(time.Now())

	cases := []struct {
		name    string
		subject string
	}{
		{name: "unknown subject", subject: "ALCHEMY"},
		{name: "subject outside course", subject: "SCIENCE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.GradeSheet(context.Background(), "teacher-1", GradeSheetRequest{
				CourseID: "course-10a",
				Subject:  tc.subject,
				Format:   ExportFormatCSV,
			})
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}
