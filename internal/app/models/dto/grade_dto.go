package dto

import "github.com/jdelacruz/schoolrecords/internal/app/models"

// CreateGradeRequest represents the payload for creating a grade record.
// Student and subject are natural keys (student_id and subject code) which
// the service resolves before persisting.
type CreateGradeRequest struct {
	Student       string  `json:"student" binding:"required"`
	Subject       string  `json:"subject" binding:"required"`
	ActivityGrade float64 `json:"activity_grade"`
	QuizGrade     float64 `json:"quiz_grade"`
	ExamGrade     float64 `json:"exam_grade"`
}

// UpdateGradeRequest represents a partial grade update. Student and subject
// may be re-pointed by natural key.
type UpdateGradeRequest struct {
	Student       *string  `json:"student"`
	Subject       *string  `json:"subject"`
	ActivityGrade *float64 `json:"activity_grade"`
	QuizGrade     *float64 `json:"quiz_grade"`
	ExamGrade     *float64 `json:"exam_grade"`
}

// GradeResponse is the wire representation of a grade record. FinalGrade is
// derived at read time and read-only.
type GradeResponse struct {
	ID             int64           `json:"id"`
	Student        string          `json:"student" example:"202212312"`
	Subject        string          `json:"subject" example:"CS101"`
	ActivityGrade  float64         `json:"activity_grade"`
	QuizGrade      float64         `json:"quiz_grade"`
	ExamGrade      float64         `json:"exam_grade"`
	FinalGrade     float64         `json:"final_grade"`
	StudentDetails *models.Student `json:"student_details,omitempty"`
	SubjectDetails *models.Subject `json:"subject_details,omitempty"`
}

// NewGradeResponse builds the response representation of a grade.
func NewGradeResponse(g *models.Grade) GradeResponse {
	return GradeResponse{
		ID:             g.ID,
		Student:        g.StudentID,
		Subject:        g.SubjectCode,
		ActivityGrade:  g.ActivityGrade,
		QuizGrade:      g.QuizGrade,
		ExamGrade:      g.ExamGrade,
		FinalGrade:     g.FinalGrade(),
		StudentDetails: g.Student,
		SubjectDetails: g.Subject,
	}
}

// NewGradeResponses maps a slice of grades to their wire representation.
func NewGradeResponses(grades []*models.Grade) []GradeResponse {
	out := make([]GradeResponse, 0, len(grades))
	for _, g := range grades {
		out = append(out, NewGradeResponse(g))
	}
	return out
}
