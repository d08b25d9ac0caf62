package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/notebook-api/internal/models"
)

func letterGrade(subject models.Subject, letter models.GradeLetter, gradedAt time.Time) models.Grade {
	return models.Grade{Subject: subject, Letter: &letter, GradedAt: gradedAt}
}

func TestAverageOfIgnoresUnknownLetters(t *testing.T) {
	now := time.Now()
	grades := []models.Grade{
		letterGrade(models.SubjectMath, models.LetterExcellent, now),
		letterGrade(models.SubjectMath, models.LetterGood, now),
		{Subject: models.SubjectMath, GradedAt: now},
	}

	avg, ok := AverageOf(grades)
	require.True(t, ok)
	assert.InDelta(t, 5.0, avg, 0.001)
}

func TestAverageDisplaySentinel(t *testing.T) {
	assert.Equal(t, NoDataDisplay, AverageDisplay(nil))
	assert.Equal(t, NoDataDisplay, AverageDisplay([]models.Grade{{Subject: models.SubjectArt}}))

	now := time.Now()
	grades := []models.Grade{
		letterGrade(models.SubjectMath, models.LetterVeryGood, now),
		letterGrade(models.SubjectMath, models.LetterAverage, now),
	}
	assert.Equal(t, "4.00", AverageDisplay(grades))
}

func TestSubjectBreakdownOrdering(t *testing.T) {
	now := time.Now()
	grades := []models.Grade{
		letterGrade(models.SubjectEnglish, models.LetterAverage, now),
		letterGrade(models.SubjectMath, models.LetterExcellent, now),
		letterGrade(models.SubjectMath, models.LetterVeryGood, now),
		{Subject: models.SubjectArt, GradedAt: now},
	}

	byPct := SubjectBreakdown(grades, ByPercentageDesc)
	require.Len(t, byPct, 2)
	assert.Equal(t, models.SubjectMath, byPct[0].Subject)
	assert.Equal(t, 92, byPct[0].Percentage)
	assert.Equal(t, models.SubjectEnglish, byPct[1].Subject)
	assert.Equal(t, 50, byPct[1].Percentage)

	byName := SubjectBreakdown(grades, BySubjectName)
	require.Len(t, byName, 2)
	assert.Equal(t, "English", byName[0].SubjectName)
	assert.Equal(t, "Mathematics", byName[1].SubjectName)
}

func TestLeaderboardRanksAndFlagsViewer(t *testing.T) {
	now := time.Now()
	roster := []models.Student{
		{ID: "s1", FullName: "Ana"},
		{ID: "s2", FullName: "Boris"},
		{ID: "s3", FullName: "Vera"},
	}
	byStudent := map[string][]models.Grade{
		"s1": {letterGrade(models.SubjectMath, models.LetterGood, now)},
		"s2": {letterGrade(models.SubjectMath, models.LetterExcellent, now)},
	}

	entries := Leaderboard(roster, byStudent, "s1", 5)
	require.Len(t, entries, 3)
	assert.Equal(t, "s2", entries[0].StudentID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "s1", entries[1].StudentID)
	assert.True(t, entries[1].IsCurrentUser)
	assert.Equal(t, "s3", entries[2].StudentID)
	assert.Equal(t, NoDataDisplay, entries[2].AverageDisplay)
}

func TestLeaderboardTruncatesToTopN(t *testing.T) {
	now := time.Now()
	roster := make([]models.Student, 0, 8)
	byStudent := make(map[string][]models.Grade)
	for i := 0; i < 8; i++ {
		id := string(rune('a' + i))
		roster = append(roster, models.Student{ID: id, FullName: id})
		byStudent[id] = []models.Grade{letterGrade(models.SubjectMath, models.LetterGood, now)}
	}

	entries := Leaderboard(roster, byStudent, "a", 0)
	assert.Len(t, entries, 5)
}

func TestRecentGradesMostRecentFirst(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	grades := []models.Grade{
		letterGrade(models.SubjectMath, models.LetterGood, base),
		letterGrade(models.SubjectArt, models.LetterExcellent, base.AddDate(0, 0, 3)),
		letterGrade(models.SubjectMusic, models.LetterAverage, base.AddDate(0, 0, 1)),
		letterGrade(models.SubjectHistory, models.LetterVeryGood, base.AddDate(0, 0, 2)),
	}

	recent := RecentGrades(grades, 3)
	require.Len(t, recent, 3)
	assert.Equal(t, models.SubjectArt, recent[0].Subject)
	assert.Equal(t, models.SubjectHistory, recent[1].Subject)
	assert.Equal(t, models.SubjectMusic, recent[2].Subject)
	// input order untouched
	assert.Equal(t, models.SubjectMath, grades[0].Subject)
}

func TestUpcomingAssignmentsPriorities(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	assignments := []models.Assignment{
		{ID: "past", Title: "Old", DueDate: now.AddDate(0, 0, -1)},
		{ID: "soon", Title: "Soon", DueDate: now.Add(26 * time.Hour)},
		{ID: "mid", Title: "Mid", DueDate: now.AddDate(0, 0, 4)},
		{ID: "far", Title: "Far", DueDate: now.AddDate(0, 0, 10)},
	}

	upcoming := UpcomingAssignments(assignments, now, 5)
	require.Len(t, upcoming, 3)
	assert.Equal(t, "soon", upcoming[0].ID)
	assert.Equal(t, models.PriorityHigh, upcoming[0].Priority)
	assert.Equal(t, 1, upcoming[0].DaysLeft)
	assert.Equal(t, models.PriorityMedium, upcoming[1].Priority)
	assert.Equal(t, models.PriorityLow, upcoming[2].Priority)
}

func TestUpcomingAssignmentsLimit(t *testing.T) {
	now := time.Now()
	assignments := []models.Assignment{
		{ID: "a", DueDate: now.AddDate(0, 0, 1)},
		{ID: "b", DueDate: now.AddDate(0, 0, 2)},
		{ID: "c", DueDate: now.AddDate(0, 0, 3)},
		{ID: "d", DueDate: now.AddDate(0, 0, 4)},
	}
	assert.Len(t, UpcomingAssignments(assignments, now, 0), 3)
}

func TestPendingCount(t *testing.T) {
	now := time.Now()
	assignments := []models.Assignment{
		{DueDate: now.AddDate(0, 0, -2)},
		{DueDate: now.AddDate(0, 0, 1)},
		{DueDate: now.AddDate(0, 0, 5)},
	}
	assert.Equal(t, 2, PendingCount(assignments, now))
}

func TestAttendanceDisplay(t *testing.T) {
	assert.Equal(t, NoDataDisplay, AttendanceDisplay(3, 0))
	assert.Equal(t, "50%", AttendanceDisplay(1, 2))
	assert.Equal(t, "100%", AttendanceDisplay(5, 5))
	// graded count can exceed assignments; the proxy caps at 100
	assert.Equal(t, "100%", AttendanceDisplay(7, 5))
}
