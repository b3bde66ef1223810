package models

import "time"

// Enrollment records a student's enrollment in a subject. The
// (StudentID, SubjectCode) pair is unique and EnrolledAt is set by the
// server at creation and never updated.
type Enrollment struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   string    `json:"student" db:"student_id" example:"202212312"`
	SubjectCode string    `json:"subject" db:"subject_code" example:"CS101"`
	EnrolledAt  time.Time `json:"enrollment_date" db:"enrolled_at"`

	// Relations (populated when needed)
	Student *Student `json:"student_details,omitempty"`
	Subject *Subject `json:"subject_details,omitempty"`
}
