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

const studentColumns = `student_id, first_name, last_name, gender, date_of_birth, email,
		section, course, year_level, image_path, contact_number, address, created_at, updated_at`

// StudentRepository handles database operations for students
type StudentRepository struct {
	db DB
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db DB) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	err := row.Scan(
		&s.StudentID,
		&s.FirstName,
		&s.LastName,
		&s.Gender,
		&s.DateOfBirth,
		&s.Email,
		&s.Section,
		&s.Course,
		&s.YearLevel,
		&s.ImageURL,
		&s.ContactNumber,
		&s.Address,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new student row.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (student_id, first_name, last_name, gender, date_of_birth, email,
			section, course, year_level, image_path, contact_number, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		student.StudentID, student.FirstName, student.LastName, student.Gender,
		student.DateOfBirth, student.Email, student.Section, student.Course,
		student.YearLevel, student.ImageURL, student.ContactNumber, student.Address,
	).Scan(&student.CreatedAt, &student.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_pkey") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by their natural key.
func (r *StudentRepository) GetByID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetAll retrieves students ordered by student_id with offset pagination.
func (r *StudentRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY student_id OFFSET $1 LIMIT $2`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// ExistsByID checks whether a student with the given id exists.
func (r *StudentRepository) ExistsByID(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE student_id = $1)`, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// EmailInUse checks whether email is used by a student other than excludeID.
func (r *StudentRepository) EmailInUse(ctx context.Context, email, excludeID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1 AND student_id != $2)`,
		email, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email uniqueness: %w", err)
	}
	return exists, nil
}

// Update rewrites a student row.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, gender = $3, date_of_birth = $4, email = $5,
			section = $6, course = $7, year_level = $8, image_path = $9,
			contact_number = $10, address = $11, updated_at = NOW()
		WHERE student_id = $12
	`

	cmdTag, err := r.db.Exec(ctx, query,
		student.FirstName, student.LastName, student.Gender, student.DateOfBirth,
		student.Email, student.Section, student.Course, student.YearLevel,
		student.ImageURL, student.ContactNumber, student.Address, student.StudentID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateImagePath stores the URL of a student's profile image.
func (r *StudentRepository) UpdateImagePath(ctx context.Context, studentID string, imageURL *string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET image_path = $1, updated_at = NOW() WHERE student_id = $2`,
		imageURL, studentID)
	if err != nil {
		return fmt.Errorf("error updating student image: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete removes a student. Grades and enrollments cascade via foreign keys.
func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}
