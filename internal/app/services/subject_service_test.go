package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

func TestCreateSubjectNormalizesCode(t *testing.T) {
	svc := NewSubjectService(newFakeSubjectStore())

	subject, err := svc.CreateSubject(context.Background(), &dto.CreateSubjectRequest{
		Code:  " cs101 ",
		Name:  "Computer Programming 1",
		Units: 3,
	})
	if err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if subject.Code != "CS101" {
		t.Errorf("code = %q, want CS101", subject.Code)
	}
}

func TestCreateSubjectUnitsValidation(t *testing.T) {
	svc := NewSubjectService(newFakeSubjectStore())
	ctx := context.Background()

	cases := []struct {
		name  string
		units float64
		ok    bool
	}{
		{"whole units", 3, true},
		{"half units", 1.5, true},
		{"zero", 0, false},
		{"negative", -1, false},
		{"two fractional digits", 2.25, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSubject(ctx, &dto.CreateSubjectRequest{
				Code:  "U" + tc.name[:1] + "101",
				Name:  "Units " + tc.name,
				Units: tc.units,
			})
			if tc.ok && err != nil {
				t.Fatalf("CreateSubject(%v): %v", tc.units, err)
			}
			if !tc.ok {
				if !errors.Is(err, apperrors.ErrValidationFailed) {
					t.Fatalf("CreateSubject(%v) error = %v, want validation failure", tc.units, err)
				}
				if got := apperrors.FieldOf(err); got != "units" {
					t.Errorf("field = %q, want units", got)
				}
			}
		})
	}
}

func TestCreateSubjectDuplicateName(t *testing.T) {
	svc := NewSubjectService(newFakeSubjectStore())
	ctx := context.Background()

	if _, err := svc.CreateSubject(ctx, &dto.CreateSubjectRequest{Code: "CS101", Name: "Programming", Units: 3}); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	_, err := svc.CreateSubject(ctx, &dto.CreateSubjectRequest{Code: "CS102", Name: "Programming", Units: 3})
	if !errors.Is(err, apperrors.ErrSubjectAlreadyExists) {
		t.Errorf("duplicate name error = %v, want ErrSubjectAlreadyExists", err)
	}
}

func TestUpdateSubject(t *testing.T) {
	store := newFakeSubjectStore()
	svc := NewSubjectService(store)
	ctx := context.Background()
	seedSubject(store, "CS101", "Programming")

	units := 2.5
	updated, err := svc.UpdateSubject(ctx, "cs101", &dto.UpdateSubjectRequest{Units: &units})
	if err != nil {
		t.Fatalf("UpdateSubject: %v", err)
	}
	if updated.Units != 2.5 {
		t.Errorf("units = %v, want 2.5", updated.Units)
	}
	if updated.Name != "Programming" {
		t.Errorf("untouched name changed: %q", updated.Name)
	}

	bad := 2.25
	if _, err := svc.UpdateSubject(ctx, "CS101", &dto.UpdateSubjectRequest{Units: &bad}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("fractional units error = %v, want validation failure", err)
	}
}

func TestSubjectNotFound(t *testing.T) {
	svc := NewSubjectService(newFakeSubjectStore())
	ctx := context.Background()

	if _, err := svc.GetSubject(ctx, "NOPE1"); !errors.Is(err, apperrors.ErrSubjectNotFound) {
		t.Errorf("GetSubject error = %v, want ErrSubjectNotFound", err)
	}
	if err := svc.DeleteSubject(ctx, "NOPE1"); !errors.Is(err, apperrors.ErrSubjectNotFound) {
		t.Errorf("DeleteSubject error = %v, want ErrSubjectNotFound", err)
	}
}
