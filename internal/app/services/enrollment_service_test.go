package services

import (
	"context"
	"errors"
	"testing"

	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
)

func newEnrollmentFixture() (*EnrollmentService, *fakeEnrollmentStore, *fakeStudentStore, *fakeSubjectStore) {
	enrollmentStore := newFakeEnrollmentStore()
	studentStore := newFakeStudentStore()
	subjectStore := newFakeSubjectStore()
	seedStudent(studentStore, "202212312")
	seedSubject(subjectStore, "CS101", "Computer Programming 1")
	return NewEnrollmentService(enrollmentStore, studentStore, subjectStore), enrollmentStore, studentStore, subjectStore
}

func TestEnrollAndDuplicate(t *testing.T) {
	svc, _, _, _ := newEnrollmentFixture()
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, "202212312", "CS101")
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if enrollment.EnrolledAt.IsZero() {
		t.Error("EnrolledAt not set by the server")
	}

	if _, err := svc.Enroll(ctx, "202212312", "CS101"); !errors.Is(err, apperrors.ErrAlreadyEnrolled) {
		t.Errorf("duplicate Enroll error = %v, want ErrAlreadyEnrolled", err)
	}
}

func TestEnrollUnknownKeysAreNotFound(t *testing.T) {
	svc, _, _, _ := newEnrollmentFixture()
	ctx := context.Background()

	if _, err := svc.Enroll(ctx, "999999", "CS101"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("unknown student error = %v, want ErrStudentNotFound", err)
	}
	if _, err := svc.Enroll(ctx, "202212312", "NOPE1"); !errors.Is(err, apperrors.ErrSubjectNotFound) {
		t.Errorf("unknown subject error = %v, want ErrSubjectNotFound", err)
	}
}

func TestUnenroll(t *testing.T) {
	svc, _, _, _ := newEnrollmentFixture()
	ctx := context.Background()

	if err := svc.Unenroll(ctx, "202212312", "CS101"); !errors.Is(err, apperrors.ErrNotEnrolled) {
		t.Fatalf("Unenroll before enrolling error = %v, want ErrNotEnrolled", err)
	}

	if _, err := svc.Enroll(ctx, "202212312", "CS101"); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	if err := svc.Unenroll(ctx, "202212312", "CS101"); err != nil {
		t.Fatalf("Unenroll: %v", err)
	}

	// Unenrolling twice reports the missing membership, not the pair lookup.
	if err := svc.Unenroll(ctx, "202212312", "CS101"); !errors.Is(err, apperrors.ErrNotEnrolled) {
		t.Errorf("second Unenroll error = %v, want ErrNotEnrolled", err)
	}
}

func TestCreateEnrollmentSelfOnlyForStudents(t *testing.T) {
	svc, _, studentStore, _ := newEnrollmentFixture()
	seedStudent(studentStore, "202299999")
	ctx := context.Background()

	_, err := svc.CreateEnrollment(ctx, studentActor("202212312"), &dto.CreateEnrollmentRequest{
		Student: "202299999", Subject: "CS101",
	})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("foreign CreateEnrollment error = %v, want ErrPermissionDenied", err)
	}

	if _, err := svc.CreateEnrollment(ctx, studentActor("202212312"), &dto.CreateEnrollmentRequest{
		Student: "202212312", Subject: "CS101",
	}); err != nil {
		t.Errorf("self CreateEnrollment error = %v", err)
	}

	if _, err := svc.CreateEnrollment(ctx, teacherActor(), &dto.CreateEnrollmentRequest{
		Student: "202299999", Subject: "CS101",
	}); err != nil {
		t.Errorf("teacher CreateEnrollment error = %v", err)
	}
}

func TestListEnrollmentsScopedByRole(t *testing.T) {
	svc, _, studentStore, _ := newEnrollmentFixture()
	seedStudent(studentStore, "202299999")
	ctx := context.Background()

	for _, id := range []string{"202212312", "202299999"} {
		if _, err := svc.Enroll(ctx, id, "CS101"); err != nil {
			t.Fatalf("Enroll(%s): %v", id, err)
		}
	}

	all, err := svc.ListEnrollments(ctx, teacherActor())
	if err != nil {
		t.Fatalf("ListEnrollments as teacher: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("teacher sees %d enrollments, want 2", len(all))
	}

	own, err := svc.ListEnrollments(ctx, studentActor("202299999"))
	if err != nil {
		t.Fatalf("ListEnrollments as student: %v", err)
	}
	if len(own) != 1 || own[0].StudentID != "202299999" {
		t.Errorf("student sees %v, want only own enrollment", own)
	}
}

func TestListSubjectCodesByStudent(t *testing.T) {
	svc, _, _, subjectStore := newEnrollmentFixture()
	seedSubject(subjectStore, "MATH1", "College Algebra")
	ctx := context.Background()

	codes, err := svc.ListSubjectCodesByStudent(ctx, "202212312")
	if err != nil {
		t.Fatalf("ListSubjectCodesByStudent: %v", err)
	}
	if codes == nil || len(codes) != 0 {
		t.Errorf("codes before enrolling = %v, want empty non-nil slice", codes)
	}

	for _, code := range []string{"CS101", "MATH1"} {
		if _, err := svc.Enroll(ctx, "202212312", code); err != nil {
			t.Fatalf("Enroll(%s): %v", code, err)
		}
	}

	codes, err = svc.ListSubjectCodesByStudent(ctx, "202212312")
	if err != nil {
		t.Fatalf("ListSubjectCodesByStudent: %v", err)
	}
	if len(codes) != 2 {
		t.Errorf("codes = %v, want two entries", codes)
	}

	if _, err := svc.ListSubjectCodesByStudent(ctx, "999999"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Errorf("unknown student error = %v, want ErrStudentNotFound", err)
	}
}

func TestDeleteEnrollmentScope(t *testing.T) {
	svc, _, studentStore, _ := newEnrollmentFixture()
	seedStudent(studentStore, "202299999")
	ctx := context.Background()

	enrollment, err := svc.Enroll(ctx, "202299999", "CS101")
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	if err := svc.DeleteEnrollment(ctx, studentActor("202212312"), enrollment.ID); !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		t.Errorf("foreign DeleteEnrollment error = %v, want ErrEnrollmentNotFound", err)
	}

	if err := svc.DeleteEnrollment(ctx, teacherActor(), enrollment.ID); err != nil {
		t.Errorf("teacher DeleteEnrollment error = %v", err)
	}
}
