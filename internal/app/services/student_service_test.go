package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

// nopFileStorage satisfies filestorage.FileStorage for tests that never
// touch the disk.
type nopFileStorage struct{}

func (nopFileStorage) SaveFileWithPath(_ *multipart.FileHeader, subPath string) (string, error) {
	return "http://localhost:8080/uploads/" + subPath + "/test.png", nil
}

func (nopFileStorage) DeleteFile(_ string) error { return nil }

func validCreateRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		StudentID:   "202212312",
		FirstName:   "Juan",
		LastName:    "Dela Cruz",
		Gender:      "Male",
		DateOfBirth: "2003-06-15",
		Email:       "juan@example.com",
		Section:     1,
		Course:      "BSIT",
		YearLevel:   "1st Year",
	}
}

func newStudentFixture() (*StudentService, *fakeStudentStore) {
	store := newFakeStudentStore()
	return NewStudentService(store, nopFileStorage{}), store
}

func TestCreateStudent(t *testing.T) {
	svc, _ := newStudentFixture()

	student, err := svc.CreateStudent(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if student.Course != models.CourseBSIT || student.YearLevel != models.YearFirst {
		t.Errorf("enums = %s/%s", student.Course, student.YearLevel)
	}
}

func TestCreateStudentFieldValidation(t *testing.T) {
	svc, _ := newStudentFixture()

	cases := []struct {
		name   string
		mutate func(*dto.CreateStudentRequest)
		field  string
	}{
		{"non-numeric id", func(r *dto.CreateStudentRequest) { r.StudentID = "abc123" }, "student_id"},
		{"bad email", func(r *dto.CreateStudentRequest) { r.Email = "not-an-email" }, "email"},
		{"bad gender", func(r *dto.CreateStudentRequest) { r.Gender = "Unknown" }, "gender"},
		{"bad course", func(r *dto.CreateStudentRequest) { r.Course = "BSX" }, "course"},
		{"bad year level", func(r *dto.CreateStudentRequest) { r.YearLevel = "5th Year" }, "year_level"},
		{"bad date", func(r *dto.CreateStudentRequest) { r.DateOfBirth = "15-06-2003" }, "date_of_birth"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			_, err := svc.CreateStudent(context.Background(), req)
			if !errors.Is(err, apperrors.ErrValidationFailed) {
				t.Fatalf("error = %v, want validation failure", err)
			}
			if got := apperrors.FieldOf(err); got != tc.field {
				t.Errorf("field = %q, want %q", got, tc.field)
			}
		})
	}
}

func TestCreateStudentDuplicates(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, validCreateRequest()); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	if _, err := svc.CreateStudent(ctx, validCreateRequest()); !errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
		t.Errorf("duplicate id error = %v, want ErrStudentIDAlreadyExists", err)
	}

	other := validCreateRequest()
	other.StudentID = "202299999"
	if _, err := svc.CreateStudent(ctx, other); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("duplicate email error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestUpdateStudentPartial(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, validCreateRequest()); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	section := 3
	year := "2nd Year"
	updated, err := svc.UpdateStudent(ctx, "202212312", &dto.UpdateStudentRequest{
		Section:   &section,
		YearLevel: &year,
	})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	if updated.Section != 3 || updated.YearLevel != models.YearSecond {
		t.Errorf("updated fields = %d/%s", updated.Section, updated.YearLevel)
	}
	if updated.FirstName != "Juan" {
		t.Errorf("untouched field changed: %q", updated.FirstName)
	}
}

func TestUpdateStudentUnknownIDIsNotFound(t *testing.T) {
	svc, _ := newStudentFixture()

	name := "Pedro"
	_, err := svc.UpdateStudent(context.Background(), "999999", &dto.UpdateStudentRequest{FirstName: &name})
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("UpdateStudent error = %v, want ErrStudentNotFound", err)
	}
}

func TestDeleteStudent(t *testing.T) {
	svc, store := newStudentFixture()
	ctx := context.Background()

	if _, err := svc.CreateStudent(ctx, validCreateRequest()); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	if err := svc.DeleteStudent(ctx, "202212312"); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}
	if _, ok := store.students["202212312"]; ok {
		t.Error("student still present after delete")
	}

	if err := svc.DeleteStudent(ctx, "202212312"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("second DeleteStudent error = %v, want ErrStudentNotFound", err)
	}
}

func TestDeleteStudentCascadesGradesAndEnrollments(t *testing.T) {
	store := newFakeStudentStore()
	store.grades = newFakeGradeStore()
	store.enrollments = newFakeEnrollmentStore()
	svc := NewStudentService(store, nopFileStorage{})
	ctx := context.Background()

	seedStudent(store, "202212312")
	seedStudent(store, "202212399")
	for _, id := range []string{"202212312", "202212399"} {
		if err := store.grades.Create(ctx, &models.Grade{
			StudentID: id, SubjectCode: "CS101",
			ActivityGrade: 80, QuizGrade: 90, ExamGrade: 85,
		}); err != nil {
			t.Fatal(err)
		}
		if err := store.enrollments.Create(ctx, &models.Enrollment{
			StudentID: id, SubjectCode: "CS101",
		}); err != nil {
			t.Fatal(err)
		}
	}

	if err := svc.DeleteStudent(ctx, "202212312"); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}

	grades, _ := store.grades.GetByStudentID(ctx, "202212312")
	if len(grades) != 0 {
		t.Errorf("grades remaining after student delete: %d", len(grades))
	}
	enrollments, _ := store.enrollments.GetByStudentID(ctx, "202212312")
	if len(enrollments) != 0 {
		t.Errorf("enrollments remaining after student delete: %d", len(enrollments))
	}

	// The other student's rows are untouched.
	otherGrades, _ := store.grades.GetByStudentID(ctx, "202212399")
	otherEnrollments, _ := store.enrollments.GetByStudentID(ctx, "202212399")
	if len(otherGrades) != 1 || len(otherEnrollments) != 1 {
		t.Errorf("unrelated rows affected: grades=%d enrollments=%d", len(otherGrades), len(otherEnrollments))
	}
}

func TestListStudentsPagination(t *testing.T) {
	svc, store := newStudentFixture()
	for _, id := range []string{"202200001", "202200002", "202200003"} {
		seedStudent(store, id)
	}

	students, total, err := svc.ListStudents(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(students) != 2 || students[0].StudentID != "202200002" {
		t.Errorf("page = %v, want students 2 and 3", students)
	}
}
