package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/notebook-api/internal/models"
)

// CourseRepository handles course and course-subject persistence.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course with its configured subject set, or
// sql.ErrNoRows when the course does not exist.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT c.id, c.name, c.teacher_id, c.created_at, c.updated_at FROM courses c WHERE c.id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	subjects, err := r.Subjects(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Subjects = subjects
	return &course, nil
}

// Subjects returns the configured subject set of a course in insertion order.
func (r *CourseRepository) Subjects(ctx context.Context, courseID string) ([]models.Subject, error) {
	const query = `SELECT cs.subject FROM course_subjects cs WHERE cs.course_id = $1 ORDER BY cs.position`
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, courseID); err != nil {
		return nil, fmt.Errorf("list course subjects: %w", err)
	}
	return subjects, nil
}

// Students returns the active roster of a course ordered by name.
func (r *CourseRepository) Students(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.full_name, s.course_id, s.active, s.created_at, s.updated_at
        FROM students s WHERE s.course_id = $1 AND s.active = TRUE ORDER BY s.full_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	return students, nil
}
