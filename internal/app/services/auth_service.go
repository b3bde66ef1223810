package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/models/dto"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/auth"
	"github.com/jdelacruz/schoolrecords/internal/pkg/logger"
	"github.com/jdelacruz/schoolrecords/internal/pkg/validation"
)

// AuthService handles account registration, login and token lifecycle
type AuthService struct {
	userRepo    UserStore
	studentRepo StudentStore
	tokenRepo   TokenStore
	jwtService  *auth.JWTService
	atomic      Atomic
}

// NewAuthService creates a new auth service. atomic runs registration's
// multi-store writes in one transaction; a nil value applies writes directly.
func NewAuthService(userRepo UserStore, studentRepo StudentStore, tokenRepo TokenStore, jwtService *auth.JWTService, atomic Atomic) *AuthService {
	if atomic == nil {
		atomic = func(ctx context.Context, fn func(users UserStore, students StudentStore) error) error {
			return fn(userRepo, studentRepo)
		}
	}
	return &AuthService{
		userRepo:    userRepo,
		studentRepo: studentRepo,
		tokenRepo:   tokenRepo,
		jwtService:  jwtService,
		atomic:      atomic,
	}
}

// placeholderStudent is the minimal profile created at registration time.
// A teacher fills in the real details afterwards.
func placeholderStudent(studentID, username string) *models.Student {
	return &models.Student{
		StudentID:   studentID,
		FirstName:   username,
		LastName:    "User",
		Gender:      models.GenderOther,
		DateOfBirth: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Email:       studentID + "@example.com",
		Section:     1,
		Course:      models.CourseBSIT,
		YearLevel:   models.YearFirst,
	}
}

// Register creates an account. Student accounts are linked to a student
// profile by id; a placeholder profile is created when none exists yet.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperrors.NewValidationError("username", "Username is required.")
	}

	if !req.Role.Valid() {
		return nil, apperrors.NewValidationError("role", "Role must be TEACHER or STUDENT.")
	}

	taken, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrUsernameAlreadyUsed
	}

	user := &models.User{
		Username: username,
		Role:     req.Role,
		IsActive: true,
	}

	var newProfile *models.Student
	if req.Role == models.RoleStudent {
		studentID := strings.TrimSpace(req.StudentID)
		if studentID == "" {
			return nil, apperrors.NewValidationError("student_id", "Student ID is required for student accounts.")
		}
		if !validation.IsValidStudentID(studentID) {
			return nil, apperrors.NewValidationError("student_id", "Student ID must be numeric.")
		}

		linked, err := s.userRepo.ExistsByStudentID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if linked {
			return nil, apperrors.NewCustomError(apperrors.ErrConflict,
				"An account already exists for this student.").WithField("student_id")
		}

		exists, err := s.studentRepo.ExistsByID(ctx, studentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			newProfile = placeholderStudent(studentID, username)
		}

		user.StudentID = &studentID
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.Password = hash

	// Profile and credential commit together: a registration race losing on
	// the username constraint must not leave an orphaned placeholder row.
	err = s.atomic(ctx, func(users UserStore, students StudentStore) error {
		if newProfile != nil {
			if err := students.Create(ctx, newProfile); err != nil {
				return err
			}
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	if newProfile != nil {
		logger.Info().Str("student_id", newProfile.StudentID).Msg("Created placeholder student profile at registration")
	}

	logger.Info().Str("username", username).Str("role", string(user.Role)).Msg("Account registered")
	return user, nil
}

// Login verifies credentials and issues a token pair. Bad username and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.IsActive {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn().Err(err).Int64("user_id", user.ID).Msg("Failed to record last login")
	}

	return user, tokens, nil
}

// Refresh rotates a refresh token and issues a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, *dto.TokenResponse, error) {
	userID, expiry, revoked, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(expiry) {
		return nil, nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout revokes a refresh token. Unknown tokens are reported as not found.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if _, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken); err != nil {
		return err
	}
	return s.tokenRepo.RevokeToken(ctx, refreshToken)
}

// LogoutAll revokes every refresh token of a user.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.RefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
