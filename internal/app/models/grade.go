package models

// Grade weight distribution for the derived final grade.
const (
	ActivityWeight = 0.30
	QuizWeight     = 0.30
	ExamWeight     = 0.40
)

// Grade defines a student's grade record for one subject.
// The (StudentID, SubjectCode) pair is unique.
type Grade struct {
	ID            int64   `json:"id" db:"id"`
	StudentID     string  `json:"student" db:"student_id" example:"202212312"`
	SubjectCode   string  `json:"subject" db:"subject_code" example:"CS101"`
	ActivityGrade float64 `json:"activity_grade" db:"activity_grade" example:"85.5"`
	QuizGrade     float64 `json:"quiz_grade" db:"quiz_grade" example:"90"`
	ExamGrade     float64 `json:"exam_grade" db:"exam_grade" example:"88"`

	// Relations (populated when needed)
	Student *Student `json:"student_details,omitempty"`
	Subject *Subject `json:"subject_details,omitempty"`
}

// FinalGrade derives the weighted final grade. It is computed at read time
// and never persisted.
func (g *Grade) FinalGrade() float64 {
	return g.ActivityGrade*ActivityWeight + g.QuizGrade*QuizWeight + g.ExamGrade*ExamWeight
}
