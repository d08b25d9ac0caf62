package models

import "time"

// Student represents a learner. A student belongs to at most one course at
// a time; CourseID is nil for unassigned students.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	CourseID  *string   `db:"course_id" json:"course_id,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
