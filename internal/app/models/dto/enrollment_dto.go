package dto

// CreateEnrollmentRequest represents the payload for creating an enrollment
// through the collection endpoint. Both references are natural keys and
// mandatory.
type CreateEnrollmentRequest struct {
	Student string `json:"student" binding:"required"`
	Subject string `json:"subject" binding:"required"`
}

// EnrollRequest is the body of the per-student enroll/unenroll endpoints.
// SubjectCode presence is checked by the controller so a missing code maps
// to 400 rather than a lookup failure.
type EnrollRequest struct {
	SubjectCode string `json:"subject_code"`
}
