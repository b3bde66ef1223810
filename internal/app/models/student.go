package models

import "time"

// Student defines the student model based on the 'students' table.
// StudentID is the natural primary key (e.g. "202212312").
type Student struct {
	StudentID     string    `json:"student_id" db:"student_id" example:"202212312"`
	FirstName     string    `json:"first_name" db:"first_name" example:"Juan"`
	LastName      string    `json:"last_name" db:"last_name" example:"Dela Cruz"`
	Gender        Gender    `json:"gender" db:"gender" example:"Male"`
	DateOfBirth   time.Time `json:"date_of_birth" db:"date_of_birth"`
	Email         string    `json:"email" db:"email" example:"juan@example.com"`
	Section       int       `json:"section" db:"section" example:"1"`
	Course        Course    `json:"course" db:"course" example:"BSIT"`
	YearLevel     YearLevel `json:"year_level" db:"year_level" example:"1st Year"`
	ImageURL      *string   `json:"image_url,omitempty" db:"image_path"`
	ContactNumber *string   `json:"contact_number,omitempty" db:"contact_number"`
	Address       *string   `json:"address,omitempty" db:"address"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
