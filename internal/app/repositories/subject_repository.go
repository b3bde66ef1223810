package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/dberrors"
)

// SubjectRepository handles database operations for subjects
type SubjectRepository struct {
	db DB
}

// NewSubjectRepository creates a new subject repository
func NewSubjectRepository(db DB) *SubjectRepository {
	return &SubjectRepository{
		db: db,
	}
}

func scanSubject(row pgx.Row) (*models.Subject, error) {
	var s models.Subject
	err := row.Scan(&s.Code, &s.Name, &s.Units, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new subject row.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	query := `
		INSERT INTO subjects (code, name, units, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		subject.Code, subject.Name, subject.Units, subject.Description,
	).Scan(&subject.CreatedAt, &subject.UpdatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("error creating subject: %w", err)
	}

	return nil
}

// GetByCode retrieves a subject by its code.
func (r *SubjectRepository) GetByCode(ctx context.Context, code string) (*models.Subject, error) {
	query := `SELECT code, name, units, description, created_at, updated_at FROM subjects WHERE code = $1`

	subject, err := scanSubject(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("error retrieving subject: %w", err)
	}

	return subject, nil
}

// GetAll retrieves subjects ordered by code with offset pagination.
func (r *SubjectRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Subject, error) {
	query := `SELECT code, name, units, description, created_at, updated_at
		FROM subjects ORDER BY code OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []*models.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, subject)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return subjects, nil
}

// Count returns the total number of subjects.
func (r *SubjectRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM subjects`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting subjects: %w", err)
	}
	return count, nil
}

// NameInUse checks whether name is used by a subject other than excludeCode.
func (r *SubjectRepository) NameInUse(ctx context.Context, name, excludeCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM subjects WHERE name = $1 AND code != $2)`,
		name, excludeCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking subject name uniqueness: %w", err)
	}
	return exists, nil
}

// Update rewrites a subject row.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	query := `
		UPDATE subjects
		SET name = $1, units = $2, description = $3, updated_at = NOW()
		WHERE code = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		subject.Name, subject.Units, subject.Description, subject.Code)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("error updating subject: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}

// Delete removes a subject. Grades and enrollments cascade via foreign keys.
func (r *SubjectRepository) Delete(ctx context.Context, code string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("error deleting subject: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSubjectNotFound
	}

	return nil
}
