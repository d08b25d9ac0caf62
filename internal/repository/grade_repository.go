package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/notebook-api/internal/models"
)

// GradeRepository handles grade record persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

const gradeColumns = `g.id, g.student_id, g.subject, g.grade_type, g.letter, g.graded_at, g.grader_id, g.feedback, g.created_at, g.updated_at`

// FindByID returns a single grade or sql.ErrNoRows.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades g WHERE g.id = $1`, gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// FindByStudent returns all grades of a student ordered most recent first.
func (r *GradeRepository) FindByStudent(ctx context.Context, studentID string) ([]models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades g WHERE g.student_id = $1 ORDER BY g.graded_at DESC`, gradeColumns)
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("list student grades: %w", err)
	}
	return grades, nil
}

// FindViewsByStudent returns the student's grades joined with the grader's
// display name, ordered most recent first.
func (r *GradeRepository) FindViewsByStudent(ctx context.Context, studentID string) ([]models.GradeView, error) {
	query := fmt.Sprintf(`SELECT %s, COALESCE(u.full_name, '') AS grader_name
        FROM grades g LEFT JOIN users u ON u.id = g.grader_id
        WHERE g.student_id = $1 ORDER BY g.graded_at DESC`, gradeColumns)
	var views []models.GradeView
	if err := r.db.SelectContext(ctx, &views, query, studentID); err != nil {
		return nil, fmt.Errorf("list student grade views: %w", err)
	}
	return views, nil
}

// FindByKey looks up the grade for the (student, subject, grade type) upsert
// key. It returns nil without error when no record exists.
func (r *GradeRepository) FindByKey(ctx context.Context, studentID string, subject models.Subject, gradeType models.GradeType) (*models.Grade, error) {
	query := fmt.Sprintf(`SELECT %s FROM grades g WHERE g.student_id = $1 AND g.subject = $2 AND g.grade_type = $3`, gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, studentID, subject, gradeType); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find grade by key: %w", err)
	}
	return &grade, nil
}

// FetchByStudents returns grades keyed by student ID, optionally restricted
// to a subject set. Used by leaderboard and grade sheet builds.
func (r *GradeRepository) FetchByStudents(ctx context.Context, studentIDs []string) (map[string][]models.Grade, error) {
	if len(studentIDs) == 0 {
		return map[string][]models.Grade{}, nil
	}
	placeholders := make([]string, len(studentIDs))
	args := make([]interface{}, len(studentIDs))
	for i, id := range studentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM grades g WHERE g.student_id IN (%s)`, gradeColumns, strings.Join(placeholders, ","))
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch grades: %w", err)
	}
	defer rows.Close()
	result := make(map[string][]models.Grade, len(studentIDs))
	for rows.Next() {
		var grade models.Grade
		if err := rows.StructScan(&grade); err != nil {
			return nil, fmt.Errorf("scan grade: %w", err)
		}
		result[grade.StudentID] = append(result[grade.StudentID], grade)
	}
	return result, nil
}

// Save inserts or updates a grade on its (student, subject, grade type) key.
// The unique index backs the ledger's one-record-per-key invariant under
// concurrent writers.
func (r *GradeRepository) Save(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, subject, grade_type, letter, graded_at, grader_id, feedback, created_at, updated_at)
        VALUES (:id, :student_id, :subject, :grade_type, :letter, :graded_at, :grader_id, :feedback, :created_at, :updated_at)
        ON CONFLICT (student_id, subject, grade_type)
        DO UPDATE SET letter = EXCLUDED.letter, graded_at = EXCLUDED.graded_at, grader_id = EXCLUDED.grader_id,
            feedback = EXCLUDED.feedback, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("save grade: %w", err)
	}
	return nil
}

// UpdateFeedback stores the feedback text for a grade.
func (r *GradeRepository) UpdateFeedback(ctx context.Context, id string, feedback *string) error {
	const query = `UPDATE grades SET feedback = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, feedback, time.Now().UTC()); err != nil {
		return fmt.Errorf("update grade feedback: %w", err)
	}
	return nil
}

// Delete removes a grade by ID.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}
