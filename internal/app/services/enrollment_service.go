package services

import (
	"context"
	"strings"

	"github.com/jdelacruz/schoolrecords/internal/app/auth"
	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

// EnrollmentService handles student-subject enrollments
type EnrollmentService struct {
	enrollmentRepo EnrollmentStore
	studentRepo    StudentStore
	subjectRepo    SubjectStore
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(enrollmentRepo EnrollmentStore, studentRepo StudentStore, subjectRepo SubjectStore) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		studentRepo:    studentRepo,
		subjectRepo:    subjectRepo,
	}
}

func (s *EnrollmentService) resolveKeys(ctx context.Context, studentID, subjectCode string) (string, string, error) {
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

// CreateEnrollment enrolls a student in a subject. Student actors may only
// enroll themselves.
func (s *EnrollmentService) CreateEnrollment(ctx context.Context, actor *auth.Actor, req *dto.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if !actor.IsTeacher() && !actor.OwnsStudent(strings.TrimSpace(req.Student)) {
		return nil, apperrors.ErrPermissionDenied
	}

	studentID, subjectCode, err := s.resolveKeys(ctx, req.Student, req.Subject)
	if err != nil {
		return nil, err
	}

	return s.enroll(ctx, studentID, subjectCode)
}

// Enroll enrolls the given student in the given subject.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID, subjectCode string) (*models.Enrollment, error) {
	studentID, subjectCode, err := s.resolveKeys(ctx, studentID, subjectCode)
	if err != nil {
		return nil, err
	}
	return s.enroll(ctx, studentID, subjectCode)
}

func (s *EnrollmentService) enroll(ctx context.Context, studentID, subjectCode string) (*models.Enrollment, error) {
	exists, err := s.enrollmentRepo.ExistsForPair(ctx, studentID, subjectCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyEnrolled
	}

	enrollment := &models.Enrollment{
		StudentID:   studentID,
		SubjectCode: subjectCode,
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	return s.enrollmentRepo.GetByID(ctx, enrollment.ID)
}

// Unenroll removes the enrollment of a student in a subject.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, subjectCode string) error {
	studentID, subjectCode, err := s.resolveKeys(ctx, studentID, subjectCode)
	if err != nil {
		return err
	}

	removed, err := s.enrollmentRepo.DeleteByPair(ctx, studentID, subjectCode)
	if err != nil {
		return err
	}
	if !removed {
		return apperrors.ErrNotEnrolled
	}
	return nil
}

// GetEnrollment retrieves one enrollment, restricted to the actor's own
// records for student actors.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, actor *auth.Actor, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsTeacher() && !actor.OwnsStudent(enrollment.StudentID) {
		return nil, apperrors.ErrEnrollmentNotFound
	}

	return enrollment, nil
}

// ListEnrollments returns every enrollment for teachers and only the actor's
// own enrollments for students.
func (s *EnrollmentService) ListEnrollments(ctx context.Context, actor *auth.Actor) ([]*models.Enrollment, error) {
	if actor.IsTeacher() {
		return s.enrollmentRepo.GetAll(ctx)
	}
	if actor.StudentID == nil {
		return []*models.Enrollment{}, nil
	}
	return s.enrollmentRepo.GetByStudentID(ctx, *actor.StudentID)
}

// ListSubjectCodesByStudent returns the codes of every subject a student is
// enrolled in.
func (s *EnrollmentService) ListSubjectCodesByStudent(ctx context.Context, studentID string) ([]string, error) {
	exists, err := s.studentRepo.ExistsByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrStudentNotFound
	}
	return s.enrollmentRepo.GetSubjectCodesByStudentID(ctx, studentID)
}

// DeleteEnrollment removes one enrollment by id. Student actors may only
// remove their own enrollments.
func (s *EnrollmentService) DeleteEnrollment(ctx context.Context, actor *auth.Actor, id int64) error {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsTeacher() && !actor.OwnsStudent(enrollment.StudentID) {
		return apperrors.ErrEnrollmentNotFound
	}

	return s.enrollmentRepo.Delete(ctx, id)
}
