// Package services implements the business rules between the HTTP
// controllers and the repositories: entity validation, natural-key
// resolution and role scoping.
package services

import (
	"context"
	"time"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
)

// Repository interfaces consumed by the services. The pgx-backed
// implementations live in the repositories package; tests provide in-memory
// fakes.

// Atomic runs fn with user and student stores whose writes commit or roll
// back together. The production implementation binds both stores to one
// database transaction.
type Atomic func(ctx context.Context, fn func(users UserStore, students StudentStore) error) error

// StudentStore is the student persistence surface used by services.
type StudentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, studentID string) (*models.Student, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Student, error)
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, studentID string) (bool, error)
	EmailInUse(ctx context.Context, email, excludeID string) (bool, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateImagePath(ctx context.Context, studentID string, imageURL *string) error
	Delete(ctx context.Context, studentID string) error
}

// SubjectStore is the subject persistence surface used by services.
type SubjectStore interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByCode(ctx context.Context, code string) (*models.Subject, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Subject, error)
	Count(ctx context.Context) (int64, error)
	NameInUse(ctx context.Context, name, excludeCode string) (bool, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, code string) error
}

// GradeStore is the grade persistence surface used by services.
type GradeStore interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id int64) (*models.Grade, error)
	GetAll(ctx context.Context) ([]*models.Grade, error)
	GetByStudentID(ctx context.Context, studentID string) ([]*models.Grade, error)
	ExistsForPair(ctx context.Context, studentID, subjectCode string, excludeID int64) (bool, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentStore is the enrollment persistence surface used by services.
type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetAll(ctx context.Context) ([]*models.Enrollment, error)
	GetByStudentID(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	GetSubjectCodesByStudentID(ctx context.Context, studentID string) ([]string, error)
	ExistsForPair(ctx context.Context, studentID, subjectCode string) (bool, error)
	Delete(ctx context.Context, id int64) error
	DeleteByPair(ctx context.Context, studentID, subjectCode string) (bool, error)
}

// UserStore is the credential persistence surface used by services.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByStudentID(ctx context.Context, studentID string) (bool, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// TokenStore is the refresh token persistence surface used by services.
type TokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (userID int64, expiryDate time.Time, revoked bool, err error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}
