package models

import "time"

// AssignmentPriority labels how soon an assignment is due.
type AssignmentPriority string

const (
	PriorityHigh   AssignmentPriority = "high"
	PriorityMedium AssignmentPriority = "medium"
	PriorityLow    AssignmentPriority = "low"
)

// Display returns the label shown next to an upcoming assignment.
func (p AssignmentPriority) Display() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

// Assignment is a piece of coursework with a due date, scoped to a course
// and subject. It feeds the dashboard's upcoming/pending aggregations.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Subject   Subject   `db:"subject" json:"subject"`
	Title     string    `db:"title" json:"title"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
