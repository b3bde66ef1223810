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

// enrollmentPairConstraint backs the no-duplicate-enrollment invariant.
const enrollmentPairConstraint = "enrollments_student_id_subject_code_key"

const enrollmentSelect = `
	SELECT e.id, e.student_id, e.subject_code, e.enrolled_at,
		st.student_id, st.first_name, st.last_name, st.gender, st.date_of_birth, st.email,
		st.section, st.course, st.year_level, st.image_path, st.contact_number, st.address,
		st.created_at, st.updated_at,
		su.code, su.name, su.units, su.description, su.created_at, su.updated_at
	FROM enrollments e
	JOIN students st ON st.student_id = e.student_id
	JOIN subjects su ON su.code = e.subject_code`

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db DB
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db DB) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

func scanEnrollment(row pgx.Row) (*models.Enrollment, error) {
	var e models.Enrollment
	var st models.Student
	var su models.Subject
	err := row.Scan(
		&e.ID, &e.StudentID, &e.SubjectCode, &e.EnrolledAt,
		&st.StudentID, &st.FirstName, &st.LastName, &st.Gender, &st.DateOfBirth, &st.Email,
		&st.Section, &st.Course, &st.YearLevel, &st.ImageURL, &st.ContactNumber, &st.Address,
		&st.CreatedAt, &st.UpdatedAt,
		&su.Code, &su.Name, &su.Units, &su.Description, &su.CreatedAt, &su.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Student = &st
	e.Subject = &su
	return &e, nil
}

// Create inserts a new enrollment row. The enrollment timestamp is assigned
// by the database.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (student_id, subject_code)
		VALUES ($1, $2)
		RETURNING id, enrolled_at
	`

	err := r.db.QueryRow(ctx, query, enrollment.StudentID, enrollment.SubjectCode).
		Scan(&enrollment.ID, &enrollment.EnrolledAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, enrollmentPairConstraint) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// GetByID retrieves an enrollment with its student and subject details.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := scanEnrollment(r.db.QueryRow(ctx, enrollmentSelect+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return enrollment, nil
}

// GetAll retrieves every enrollment ordered by creation.
func (r *EnrollmentRepository) GetAll(ctx context.Context) ([]*models.Enrollment, error) {
	return r.queryEnrollments(ctx, enrollmentSelect+` ORDER BY e.id`)
}

// GetByStudentID retrieves the enrollments of one student.
func (r *EnrollmentRepository) GetByStudentID(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	return r.queryEnrollments(ctx,
		enrollmentSelect+` WHERE e.student_id = $1 ORDER BY e.id`, studentID)
}

func (r *EnrollmentRepository) queryEnrollments(ctx context.Context, query string, args ...interface{}) ([]*models.Enrollment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return enrollments, nil
}

// GetSubjectCodesByStudentID returns the subject codes a student is enrolled in.
func (r *EnrollmentRepository) GetSubjectCodesByStudentID(ctx context.Context, studentID string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT subject_code FROM enrollments WHERE student_id = $1 ORDER BY subject_code`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	codes := []string{}
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return codes, nil
}

// ExistsForPair checks whether the student is enrolled in the subject.
func (r *EnrollmentRepository) ExistsForPair(ctx context.Context, studentID, subjectCode string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM enrollments WHERE student_id = $1 AND subject_code = $2)`,
		studentID, subjectCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment existence: %w", err)
	}
	return exists, nil
}

// Delete removes an enrollment by surrogate id.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting enrollment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// DeleteByPair removes the enrollment matching a (student, subject) pair and
// reports whether a row was removed.
func (r *EnrollmentRepository) DeleteByPair(ctx context.Context, studentID, subjectCode string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM enrollments WHERE student_id = $1 AND subject_code = $2`,
		studentID, subjectCode)
	if err != nil {
		return false, fmt.Errorf("error deleting enrollment: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}
