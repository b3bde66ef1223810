package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/validation"
)

// SubjectService handles subject catalog operations
type SubjectService struct {
	subjectRepo SubjectStore
}

// NewSubjectService creates a new subject service
func NewSubjectService(subjectRepo SubjectStore) *SubjectService {
	return &SubjectService{subjectRepo: subjectRepo}
}

func validateUnits(units float64) error {
	if units <= 0 {
		return apperrors.NewValidationError("units", "Units must be greater than zero.")
	}
	if !validation.HasAtMostOneFractionalDigit(units) {
		return apperrors.NewValidationError("units", "Units may carry at most one decimal place.")
	}
	return nil
}

// CreateSubject validates and persists a new subject.
func (s *SubjectService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if !validation.IsValidSubjectCode(code) {
		return nil, apperrors.NewValidationError("code", "Subject code must be 2-20 uppercase letters or digits.")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "Subject name is required.")
	}

	if err := validateUnits(req.Units); err != nil {
		return nil, err
	}

	inUse, err := s.subjectRepo.NameInUse(ctx, name, "")
	if err != nil {
		return nil, err
	}
	if inUse {
		return nil, apperrors.NewCustomError(apperrors.ErrSubjectAlreadyExists,
			fmt.Sprintf("A subject named %q already exists.", name))
	}

	subject := &models.Subject{
		Code:        code,
		Name:        name,
		Units:       req.Units,
		Description: req.Description,
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// GetSubject retrieves one subject by code.
func (s *SubjectService) GetSubject(ctx context.Context, code string) (*models.Subject, error) {
	return s.subjectRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
}

// ListSubjects returns a page of subjects and the total count.
func (s *SubjectService) ListSubjects(ctx context.Context, offset uint64, limit int) ([]*models.Subject, int64, error) {
	subjects, err := s.subjectRepo.GetAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.subjectRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return subjects, total, nil
}

// UpdateSubject applies a partial update to an existing subject.
func (s *SubjectService) UpdateSubject(ctx context.Context, code string, req *dto.UpdateSubjectRequest) (*models.Subject, error) {
	subject, err := s.subjectRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name", "Subject name is required.")
		}
		inUse, err := s.subjectRepo.NameInUse(ctx, name, subject.Code)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, apperrors.NewCustomError(apperrors.ErrSubjectAlreadyExists,
				fmt.Sprintf("A subject named %q already exists.", name))
		}
		subject.Name = name
	}
	if req.Units != nil {
		if err := validateUnits(*req.Units); err != nil {
			return nil, err
		}
		subject.Units = *req.Units
	}
	if req.Description != nil {
		subject.Description = req.Description
	}

	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}

	return subject, nil
}

// DeleteSubject removes a subject; grades and enrollments cascade.
func (s *SubjectService) DeleteSubject(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := s.subjectRepo.GetByCode(ctx, code); err != nil {
		return err
	}
	return s.subjectRepo.Delete(ctx, code)
}
