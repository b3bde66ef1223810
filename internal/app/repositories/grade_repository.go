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

// gradePairConstraint is the unique index backing one grade per
// (student, subject) pair. Concurrent creates race on it and exactly one wins.
const gradePairConstraint = "grades_student_id_subject_code_key"

const gradeSelect = `
	SELECT g.id, g.student_id, g.subject_code,
		g.activity_grade, g.quiz_grade, g.exam_grade,
		st.student_id, st.first_name, st.last_name, st.gender, st.date_of_birth, st.email,
		st.section, st.course, st.year_level, st.image_path, st.contact_number, st.address,
		st.created_at, st.updated_at,
		su.code, su.name, su.units, su.description, su.created_at, su.updated_at
	FROM grades g
	JOIN students st ON st.student_id = g.student_id
	JOIN subjects su ON su.code = g.subject_code`

// GradeRepository handles database operations for grade records
type GradeRepository struct {
	db DB
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db DB) *GradeRepository {
	return &GradeRepository{
		db: db,
	}
}

func scanGrade(row pgx.Row) (*models.Grade, error) {
	var g models.Grade
	var st models.Student
	var su models.Subject
	err := row.Scan(
		&g.ID, &g.StudentID, &g.SubjectCode,
		&g.ActivityGrade, &g.QuizGrade, &g.ExamGrade,
		&st.StudentID, &st.FirstName, &st.LastName, &st.Gender, &st.DateOfBirth, &st.Email,
		&st.Section, &st.Course, &st.YearLevel, &st.ImageURL, &st.ContactNumber, &st.Address,
		&st.CreatedAt, &st.UpdatedAt,
		&su.Code, &su.Name, &su.Units, &su.Description, &su.CreatedAt, &su.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.Student = &st
	g.Subject = &su
	return &g, nil
}

// Create inserts a new grade row.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	query := `
		INSERT INTO grades (student_id, subject_code, activity_grade, quiz_grade, exam_grade)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		grade.StudentID, grade.SubjectCode,
		grade.ActivityGrade, grade.QuizGrade, grade.ExamGrade,
	).Scan(&grade.ID)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, gradePairConstraint) {
			return apperrors.ErrGradeAlreadyExists
		}
		return fmt.Errorf("error creating grade: %w", err)
	}

	return nil
}

// GetByID retrieves a grade with its student and subject details.
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := scanGrade(r.db.QueryRow(ctx, gradeSelect+` WHERE g.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGradeNotFound
		}
		return nil, fmt.Errorf("error retrieving grade: %w", err)
	}

	return grade, nil
}

// GetAll retrieves all grade records ordered by student then subject.
func (r *GradeRepository) GetAll(ctx context.Context) ([]*models.Grade, error) {
	return r.queryGrades(ctx, gradeSelect+` ORDER BY g.student_id, g.subject_code`)
}

// GetByStudentID retrieves the grade records of one student.
func (r *GradeRepository) GetByStudentID(ctx context.Context, studentID string) ([]*models.Grade, error) {
	return r.queryGrades(ctx,
		gradeSelect+` WHERE g.student_id = $1 ORDER BY g.subject_code`, studentID)
}

func (r *GradeRepository) queryGrades(ctx context.Context, query string, args ...interface{}) ([]*models.Grade, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []*models.Grade
	for rows.Next() {
		grade, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return grades, nil
}

// ExistsForPair checks whether a grade exists for the (student, subject)
// pair, excluding the record with excludeID (0 to exclude nothing).
func (r *GradeRepository) ExistsForPair(ctx context.Context, studentID, subjectCode string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM grades WHERE student_id = $1 AND subject_code = $2 AND id != $3)`,
		studentID, subjectCode, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking grade existence: %w", err)
	}
	return exists, nil
}

// Update rewrites a grade row.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	query := `
		UPDATE grades
		SET student_id = $1, subject_code = $2, activity_grade = $3, quiz_grade = $4, exam_grade = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		grade.StudentID, grade.SubjectCode,
		grade.ActivityGrade, grade.QuizGrade, grade.ExamGrade, grade.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, gradePairConstraint) {
			return apperrors.ErrGradeAlreadyExists
		}
		return fmt.Errorf("error updating grade: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGradeNotFound
	}

	return nil
}

// Delete removes a grade row.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting grade: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrGradeNotFound
	}

	return nil
}
