package dto

// DateLayout is the wire format for date-of-birth values.
const DateLayout = "2006-01-02"

// CreateStudentRequest represents the payload for creating a student.
// Gender, course and year level are validated against their enumerations in
// the service layer so the error can name the offending field.
type CreateStudentRequest struct {
	StudentID     string  `json:"student_id" binding:"required"`
	FirstName     string  `json:"first_name" binding:"required"`
	LastName      string  `json:"last_name" binding:"required"`
	Gender        string  `json:"gender"`
	DateOfBirth   string  `json:"date_of_birth" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Section       int     `json:"section" binding:"required"`
	Course        string  `json:"course" binding:"required"`
	YearLevel     string  `json:"year_level" binding:"required"`
	ContactNumber *string `json:"contact_number"`
	Address       *string `json:"address"`
}

// UpdateStudentRequest represents a partial student update. Nil fields are
// left unchanged.
type UpdateStudentRequest struct {
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Gender        *string `json:"gender"`
	DateOfBirth   *string `json:"date_of_birth"`
	Email         *string `json:"email"`
	Section       *int    `json:"section"`
	Course        *string `json:"course"`
	YearLevel     *string `json:"year_level"`
	ContactNumber *string `json:"contact_number"`
	Address       *string `json:"address"`
}
