package models

import "time"

// User defines a login credential based on the 'users' table. A student
// account carries a foreign key to its Student profile; teacher accounts
// have no student linkage.
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`
	Username    string     `json:"username" db:"username" example:"202212312"`
	Password    string     `json:"-" db:"password"`
	Role        Role       `json:"role" db:"role" example:"STUDENT"`
	StudentID   *string    `json:"student_id,omitempty" db:"student_id"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`

	// Relation (populated when needed)
	Student *Student `json:"student,omitempty"`
}

// IsTeacher reports whether the account has the teacher role.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
