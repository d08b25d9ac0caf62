package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/noah-isme/notebook-api/internal/models"
)

// NoDataDisplay is shown wherever an average has no valid grades behind it.
const NoDataDisplay = "--"

// AverageOf returns the mean numeric value of the grades that carry a valid
// letter. Grades without a letter are excluded, not counted as zero. The
// second return is false when nothing contributed.
func AverageOf(grades []models.Grade) (float64, bool) {
	sum, count := 0, 0
	for _, grade := range grades {
		if v := grade.Value(); v > 0 {
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return float64(sum) / float64(count), true
}

// AverageDisplay formats an average for profile views, degrading to the
// no-data sentinel instead of a number.
func AverageDisplay(grades []models.Grade) string {
	avg, ok := AverageOf(grades)
	if !ok {
		return NoDataDisplay
	}
	return fmt.Sprintf("%.2f", avg)
}

// SubjectSummary is the per-subject slice of a student's grade history.
type SubjectSummary struct {
	Subject     models.Subject `json:"subject"`
	SubjectName string         `json:"subject_name"`
	Average     float64        `json:"average"`
	Percentage  int            `json:"percentage"`
	GradeCount  int            `json:"grade_count"`
}

// BreakdownOrder selects how SubjectBreakdown sorts its output.
type BreakdownOrder int

const (
	// ByPercentageDesc is the dashboard ordering: strongest subject first.
	ByPercentageDesc BreakdownOrder = iota
	// BySubjectName is the full-history ordering: alphabetical.
	BySubjectName
)

// SubjectBreakdown groups grades by subject and computes per-subject
// averages with a derived percentage of the maximum grade value. Subjects
// whose grades carry no valid letter are omitted.
func SubjectBreakdown(grades []models.Grade, order BreakdownOrder) []SubjectSummary {
	bySubject := make(map[models.Subject][]models.Grade)
	var seen []models.Subject
	for _, grade := range grades {
		if _, ok := bySubject[grade.Subject]; !ok {
			seen = append(seen, grade.Subject)
		}
		bySubject[grade.Subject] = append(bySubject[grade.Subject], grade)
	}

	summaries := make([]SubjectSummary, 0, len(seen))
	for _, subject := range seen {
		avg, ok := AverageOf(bySubject[subject])
		if !ok {
			continue
		}
		summaries = append(summaries, SubjectSummary{
			Subject:     subject,
			SubjectName: subject.Display(),
			Average:     avg,
			Percentage:  int(math.Round(avg / models.MaxGradeValue * 100)),
			GradeCount:  len(bySubject[subject]),
		})
	}

	switch order {
	case BySubjectName:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].SubjectName < summaries[j].SubjectName
		})
	default:
		sort.SliceStable(summaries, func(i, j int) bool {
			return summaries[i].Percentage > summaries[j].Percentage
		})
	}
	return summaries
}

// LeaderboardEntry is one ranked row of the class leaderboard.
type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	StudentID      string  `json:"student_id"`
	StudentName    string  `json:"student_name"`
	Average        float64 `json:"average"`
	AverageDisplay string  `json:"average_display"`
	IsCurrentUser  bool    `json:"is_current_user"`
}

// Leaderboard ranks the roster by average grade, keeping encounter order on
// ties, and truncates to topN. The viewer's entry is flagged when present.
func Leaderboard(roster []models.Student, gradesByStudent map[string][]models.Grade, viewerID string, topN int) []LeaderboardEntry {
	if topN <= 0 {
		topN = 5
	}
	entries := make([]LeaderboardEntry, 0, len(roster))
	for _, student := range roster {
		avg, ok := AverageOf(gradesByStudent[student.ID])
		display := NoDataDisplay
		if ok {
			display = fmt.Sprintf("%.2f", avg)
		}
		entries = append(entries, LeaderboardEntry{
			StudentID:      student.ID,
			StudentName:    student.FullName,
			Average:        avg,
			AverageDisplay: display,
			IsCurrentUser:  student.ID == viewerID,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Average > entries[j].Average
	})
	if len(entries) > topN {
		entries = entries[:topN]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// RecentGrades returns the most recently graded records, newest first.
func RecentGrades(grades []models.Grade, limit int) []models.Grade {
	if limit <= 0 {
		limit = 3
	}
	sorted := make([]models.Grade, len(grades))
	copy(sorted, grades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].GradedAt.After(sorted[j].GradedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// UpcomingAssignment pairs an assignment with its urgency label.
type UpcomingAssignment struct {
	models.Assignment
	Priority models.AssignmentPriority `json:"priority"`
	DaysLeft int                       `json:"days_left"`
}

// UpcomingAssignments returns assignments due now or later sorted by due
// date, truncated to limit. Priority is derived from full days remaining:
// up to 2 days is high, up to 5 medium, anything later low.
func UpcomingAssignments(assignments []models.Assignment, now time.Time, limit int) []UpcomingAssignment {
	if limit <= 0 {
		limit = 3
	}
	upcoming := make([]UpcomingAssignment, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.DueDate.Before(now) {
			continue
		}
		days := int(assignment.DueDate.Sub(now).Hours() / 24)
		priority := models.PriorityLow
		switch {
		case days <= 2:
			priority = models.PriorityHigh
		case days <= 5:
			priority = models.PriorityMedium
		}
		upcoming = append(upcoming, UpcomingAssignment{Assignment: assignment, Priority: priority, DaysLeft: days})
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})
	if len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming
}

// PendingCount counts assignments due strictly after now.
func PendingCount(assignments []models.Assignment, now time.Time) int {
	count := 0
	for _, assignment := range assignments {
		if assignment.DueDate.After(now) {
			count++
		}
	}
	return count
}

// AttendanceDisplay approximates engagement as the share of assignments
// with a graded entry, capped at 100%. It is a proxy figure, not recorded
// attendance, and is labelled as such in the dashboard payload.
func AttendanceDisplay(gradedEntries, totalAssignments int) string {
	if totalAssignments == 0 {
		return NoDataDisplay
	}
	ratio := float64(gradedEntries) / float64(totalAssignments)
	if ratio > 1 {
		ratio = 1
	}
	return fmt.Sprintf("%d%%", int(math.Round(ratio*100)))
}
