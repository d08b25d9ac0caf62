package dto

import "time"

// StudentHomeResponse is the student dashboard payload.
type StudentHomeResponse struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	CourseID    *string `json:"course_id,omitempty"`
	CourseName  string  `json:"course_name,omitempty"`

	AverageDisplay string `json:"average_display"`
	// AttendanceDisplay is a proxy derived from graded assignments, not
	// recorded attendance.
	AttendanceDisplay  string `json:"attendance_display"`
	PendingAssignments int    `json:"pending_assignments"`

	RecentGrades        []GradeItem              `json:"recent_grades"`
	UpcomingAssignments []UpcomingAssignmentItem `json:"upcoming_assignments"`
	SubjectBreakdown    []SubjectBreakdownItem   `json:"subject_breakdown"`
	Leaderboard         []LeaderboardItem        `json:"leaderboard"`
}

// GradeItem is one grade row in dashboard and history views.
type GradeItem struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	SubjectName   string    `json:"subject_name"`
	GradeType     string    `json:"grade_type"`
	GradeTypeName string    `json:"grade_type_name"`
	Letter        string    `json:"letter,omitempty"`
	LetterDisplay string    `json:"letter_display,omitempty"`
	Value         int       `json:"value"`
	GradedAt      time.Time `json:"graded_at"`
	GraderName    string    `json:"grader_name,omitempty"`
	Feedback      *string   `json:"feedback,omitempty"`
}

// UpcomingAssignmentItem is one upcoming assignment with its urgency label.
type UpcomingAssignmentItem struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	SubjectName   string    `json:"subject_name"`
	Title         string    `json:"title"`
	DueDate       time.Time `json:"due_date"`
	Priority      string    `json:"priority"`
	PriorityLabel string    `json:"priority_label"`
	DaysLeft      int       `json:"days_left"`
}

// SubjectBreakdownItem is one per-subject average row.
type SubjectBreakdownItem struct {
	Subject     string  `json:"subject"`
	SubjectName string  `json:"subject_name"`
	Average     float64 `json:"average"`
	Percentage  int     `json:"percentage"`
	GradeCount  int     `json:"grade_count"`
}

// LeaderboardItem is one ranked leaderboard row.
type LeaderboardItem struct {
	Rank           int    `json:"rank"`
	StudentID      string `json:"student_id"`
	StudentName    string `json:"student_name"`
	AverageDisplay string `json:"average_display"`
	IsCurrentUser  bool   `json:"is_current_user"`
}

// StudentGradesResponse is the full grade history view for one student.
type StudentGradesResponse struct {
	StudentID      string                 `json:"student_id"`
	StudentName    string                 `json:"student_name"`
	CourseID       *string                `json:"course_id,omitempty"`
	CourseName     string                 `json:"course_name,omitempty"`
	AverageDisplay string                 `json:"average_display"`
	Subjects       []SubjectBreakdownItem `json:"subjects"`
	Grades         []GradeItem            `json:"grades"`
}
