package services

import (
	"context"
	"strings"

	"github.com/jdelacruz/schoolrecords/internal/app/auth"
	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/validation"
)

// GradeService handles grade records and the weighted final grade
type GradeService struct {
	gradeRepo   GradeStore
	studentRepo StudentStore
	subjectRepo SubjectStore
}

// NewGradeService creates a new grade service
func NewGradeService(gradeRepo GradeStore, studentRepo StudentStore, subjectRepo SubjectStore) *GradeService {
	return &GradeService{
		gradeRepo:   gradeRepo,
		studentRepo: studentRepo,
		subjectRepo: subjectRepo,
	}
}

func validateComponent(field string, value float64) error {
	if !validation.InGradeRange(value) {
		return apperrors.NewValidationError(field, "Grade must be between 0 and 100.")
	}
	return nil
}

// resolveKeys maps the natural keys of a grade payload to existing records.
// Unknown keys surface as not-found, the same as a missing grade row.
func (s *GradeService) resolveKeys(ctx context.Context, studentID, subjectCode string) (string, string, error) {
	studentID = strings.TrimSpace(studentID)
	subjectCode = strings.ToUpper(strings.TrimSpace(subjectCode))

	exists, err := s.studentRepo.ExistsByID(ctx, studentID)
	if err != nil {
		return "", "", err
	}
	if !exists {
		return "", "", apperrors.ErrStudentNotFound
	}

	if _, err := s.subjectRepo.GetByCode(ctx, subjectCode); err != nil {
		return "", "", err
	}

	return studentID, subjectCode, nil
}

// CreateGrade validates a grade payload, resolves its student and subject
// keys and persists the record.
func (s *GradeService) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*models.Grade, error) {
	if err := validateComponent("activity_grade", req.ActivityGrade); err != nil {
		return nil, err
	}
	if err := validateComponent("quiz_grade", req.QuizGrade); err != nil {
		return nil, err
	}
	if err := validateComponent("exam_grade", req.ExamGrade); err != nil {
		return nil, err
	}

	studentID, subjectCode, err := s.resolveKeys(ctx, req.Student, req.Subject)
	if err != nil {
		return nil, err
	}

	exists, err := s.gradeRepo.ExistsForPair(ctx, studentID, subjectCode, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrGradeAlreadyExists
	}

	grade := &models.Grade{
		StudentID:     studentID,
		SubjectCode:   subjectCode,
		ActivityGrade: req.ActivityGrade,
		QuizGrade:     req.QuizGrade,
		ExamGrade:     req.ExamGrade,
	}

	if err := s.gradeRepo.Create(ctx, grade); err != nil {
		return nil, err
	}

	return s.gradeRepo.GetByID(ctx, grade.ID)
}

// GetGrade retrieves one grade, restricted to the actor's own records for
// student actors.
func (s *GradeService) GetGrade(ctx context.Context, actor *auth.Actor, id int64) (*models.Grade, error) {
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Records outside a student's scope are indistinguishable from absent ones.
	if !actor.IsTeacher() && !actor.OwnsStudent(grade.StudentID) {
		return nil, apperrors.ErrGradeNotFound
	}

	return grade, nil
}

// ListGrades returns every grade for teachers and only the actor's own
// grades for students.
func (s *GradeService) ListGrades(ctx context.Context, actor *auth.Actor) ([]*models.Grade, error) {
	if actor.IsTeacher() {
		return s.gradeRepo.GetAll(ctx)
	}
	if actor.StudentID == nil {
		return []*models.Grade{}, nil
	}
	return s.gradeRepo.GetByStudentID(ctx, *actor.StudentID)
}

// ListGradesByStudent returns the grades of one student.
func (s *GradeService) ListGradesByStudent(ctx context.Context, studentID string) ([]*models.Grade, error) {
	exists, err := s.studentRepo.ExistsByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.gradeRepo.GetByStudentID(ctx, studentID)
}

// UpdateGrade applies a partial update to an existing grade.
func (s *GradeService) UpdateGrade(ctx context.Context, id int64, req *dto.UpdateGradeRequest) (*models.Grade, error) {
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ActivityGrade != nil {
		if err := validateComponent("activity_grade", *req.ActivityGrade); err != nil {
			return nil, err
		}
		grade.ActivityGrade = *req.ActivityGrade
	}
	if req.QuizGrade != nil {
		if err := validateComponent("quiz_grade", *req.QuizGrade); err != nil {
			return nil, err
		}
		grade.QuizGrade = *req.QuizGrade
	}
	if req.ExamGrade != nil {
		if err := validateComponent("exam_grade", *req.ExamGrade); err != nil {
			return nil, err
		}
		grade.ExamGrade = *req.ExamGrade
	}

	if req.Student != nil || req.Subject != nil {
		studentID := grade.StudentID
		subjectCode := grade.SubjectCode
		if req.Student != nil {
			studentID = *req.Student
		}
		if req.Subject != nil {
			subjectCode = *req.Subject
		}
		studentID, subjectCode, err = s.resolveKeys(ctx, studentID, subjectCode)
		if err != nil {
			return nil, err
		}
		exists, err := s.gradeRepo.ExistsForPair(ctx, studentID, subjectCode, grade.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperrors.ErrGradeAlreadyExists
		}
		grade.StudentID = studentID
		grade.SubjectCode = subjectCode
	}

	if err := s.gradeRepo.Update(ctx, grade); err != nil {
		return nil, err
	}

	return s.gradeRepo.GetByID(ctx, grade.ID)
}

// DeleteGrade removes one grade record.
func (s *GradeService) DeleteGrade(ctx context.Context, id int64) error {
	if _, err := s.gradeRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.gradeRepo.Delete(ctx, id)
}
