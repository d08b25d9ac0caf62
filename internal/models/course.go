package models

import "time"

// Course represents a class of students owned by one teacher of record.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Subjects is the configured subject set, loaded from course_subjects.
	Subjects []Subject `json:"subjects,omitempty"`
}

// OwnedBy reports whether teacherID is the course's teacher of record.
func (c *Course) OwnedBy(teacherID string) bool {
	if c == nil || c.TeacherID == nil || teacherID == "" {
		return false
	}
	return *c.TeacherID == teacherID
}

// HasSubject reports whether the subject is part of the course's set.
func (c *Course) HasSubject(subject Subject) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
