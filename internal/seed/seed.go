// Package seed creates the default records the application expects on a
// fresh database.
package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jdelacruz/schoolrecords/internal/app/models"
	"github.com/jdelacruz/schoolrecords/internal/app/repositories"
	"github.com/jdelacruz/schoolrecords/internal/pkg/apperrors"
	"github.com/jdelacruz/schoolrecords/internal/pkg/auth"
	"github.com/jdelacruz/schoolrecords/internal/pkg/logger"
)

const defaultTeacherUsername = "teacher"

// CreateDefaultData ensures a teacher account exists so the API is usable on
// a fresh install. The password comes from SEED_TEACHER_PASSWORD; seeding is
// skipped when it is unset and the account is absent.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool) error {
	userRepo := repositories.NewUserRepository(dbPool)

	exists, err := userRepo.ExistsByUsername(ctx, defaultTeacherUsername)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	password := os.Getenv("SEED_TEACHER_PASSWORD")
	if password == "" {
		logger.Warn().Msg("No teacher account exists and SEED_TEACHER_PASSWORD is unset, skipping seed")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	user := &models.User{
		Username: defaultTeacherUsername,
		Password: hash,
		Role:     models.RoleTeacher,
		IsActive: true,
	}

	if err := userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrUsernameAlreadyUsed) {
			return nil
		}
		return err
	}

	logger.Info().Str("username", defaultTeacherUsername).Msg("Created default teacher account")
	return nil
}
