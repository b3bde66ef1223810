package models

import "time"

// Subject defines the subject model based on the 'subjects' table.
// Code is the natural primary key (e.g. "CS101").
type Subject struct {
	Code        string    `json:"code" db:"code" example:"CS101"`
	Name        string    `json:"name" db:"name" example:"Computer Programming 1"`
	Units       float64   `json:"units" db:"units" example:"3.0"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
