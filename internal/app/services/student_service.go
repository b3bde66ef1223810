package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/filestorage"
	"github.com/jdelacruz/schoolrecords/internal/pkg/validation"
)

// StudentService handles student profile operations
type StudentService struct {
	studentRepo StudentStore
	storage     filestorage.FileStorage
}

// NewStudentService creates a new student service
func NewStudentService(studentRepo StudentStore, storage filestorage.FileStorage) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		storage:     storage,
	}
}

// buildStudent validates a create request and produces the normalized record.
func buildStudent(req *dto.CreateStudentRequest) (*models.Student, error) {
	studentID := strings.TrimSpace(req.StudentID)
	if !validation.IsValidStudentID(studentID) {
		return nil, apperrors.NewValidationError("student_id", "Student ID must be numeric.")
	}

	email := strings.TrimSpace(req.Email)
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewValidationError("email", "Must be a valid email address.")
	}

	gender := models.Gender(req.Gender)
	if req.Gender == "" {
		gender = models.GenderOther
	} else if !gender.Valid() {
		return nil, apperrors.NewValidationError("gender", "Gender must be one of Male, Female or Other.")
	}

	course := models.Course(req.Course)
	if !course.Valid() {
		return nil, apperrors.NewValidationError("course", fmt.Sprintf("%q is not a valid course.", req.Course))
	}

	yearLevel := models.YearLevel(req.YearLevel)
	if !yearLevel.Valid() {
		return nil, apperrors.NewValidationError("year_level", fmt.Sprintf("%q is not a valid year level.", req.YearLevel))
	}

	dob, err := time.Parse(dto.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, apperrors.NewValidationError("date_of_birth", "Date of birth must use the YYYY-MM-DD format.")
	}

	return &models.Student{
		StudentID:     studentID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Gender:        gender,
		DateOfBirth:   dob,
		Email:         email,
		Section:       req.Section,
		Course:        course,
		YearLevel:     yearLevel,
		ContactNumber: req.ContactNumber,
		Address:       req.Address,
	}, nil
}

// CreateStudent validates and persists a new student profile.
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student, err := buildStudent(req)
	if err != nil {
		return nil, err
	}

	// The unique constraints are the race resolvers; these checks exist to
	// give field-keyed errors on the common path.
	exists, err := s.studentRepo.ExistsByID(ctx, student.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrStudentIDAlreadyExists
	}

	inUse, err := s.studentRepo.EmailInUse(ctx, student.Email, student.StudentID)
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// GetStudent retrieves one student by id.
func (s *StudentService) GetStudent(ctx context.Context, studentID string) (*models.Student, error) {
	return s.studentRepo.GetByID(ctx, studentID)
}

// ListStudents returns a page of students and the total count.
func (s *StudentService) ListStudents(ctx context.Context, offset uint64, limit int) ([]*models.Student, int64, error) {
	students, err := s.studentRepo.GetAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// UpdateStudent applies a partial update to an existing student.
func (s *StudentService) UpdateStudent(ctx context.Context, studentID string, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		student.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Gender != nil {
		gender := models.Gender(*req.Gender)
		if !gender.Valid() {
			return nil, apperrors.NewValidationError("gender", "Gender must be one of Male, Female or Other.")
		}
		student.Gender = gender
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(dto.DateLayout, *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.NewValidationError("date_of_birth", "Date of birth must use the YYYY-MM-DD format.")
		}
		student.DateOfBirth = dob
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !validation.IsValidEmail(email) {
			return nil, apperrors.NewValidationError("email", "Must be a valid email address.")
		}
		inUse, err := s.studentRepo.EmailInUse(ctx, email, studentID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		student.Email = email
	}
	if req.Section != nil {
		student.Section = *req.Section
	}
	if req.Course != nil {
		course := models.Course(*req.Course)
		if !course.Valid() {
			return nil, apperrors.NewValidationError("course", fmt.Sprintf("%q is not a valid course.", *req.Course))
		}
		student.Course = course
	}
	if req.YearLevel != nil {
		yearLevel := models.YearLevel(*req.YearLevel)
		if !yearLevel.Valid() {
			return nil, apperrors.NewValidationError("year_level", fmt.Sprintf("%q is not a valid year level.", *req.YearLevel))
		}
		student.YearLevel = yearLevel
	}
	if req.ContactNumber != nil {
		student.ContactNumber = req.ContactNumber
	}
	if req.Address != nil {
		student.Address = req.Address
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// DeleteStudent removes a student; grades and enrollments cascade.
func (s *StudentService) DeleteStudent(ctx context.Context, studentID string) error {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, studentID); err != nil {
		return err
	}

	// The image is disposable; a failed cleanup should not fail the delete.
	if student.ImageURL != nil {
		_ = s.storage.DeleteFile(*student.ImageURL)
	}

	return nil
}

// UpdateStudentImage stores an uploaded profile image under a student-scoped
// path, replacing any previous one, and returns the updated record.
func (s *StudentService) UpdateStudentImage(ctx context.Context, studentID string, fileHeader *multipart.FileHeader) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storage.SaveFileWithPath(fileHeader, "student_images/"+studentID)
	if err != nil {
		return nil, fmt.Errorf("error storing student image: %w", err)
	}

	if err := s.studentRepo.UpdateImagePath(ctx, studentID, &imageURL); err != nil {
		_ = s.storage.DeleteFile(imageURL)
		return nil, err
	}

	if student.ImageURL != nil {
		_ = s.storage.DeleteFile(*student.ImageURL)
	}

	student.ImageURL = &imageURL
	return student, nil
}
