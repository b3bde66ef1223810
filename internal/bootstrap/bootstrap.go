// Package bootstrap wires configuration, database, repositories, services,
// controllers and routes into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	appControllers "github.com/jdelacruz/schoolrecords/internal/app/controllers"
	appMigrations "github.com/jdelacruz/schoolrecords/internal/app/migrations"
	"github.com/jdelacruz/schoolrecords/internal/app/models"
	appRepos "github.com/jdelacruz/schoolrecords/internal/app/repositories"
	appRoutes "github.com/jdelacruz/schoolrecords/internal/app/routes"
	appServices "github.com/jdelacruz/schoolrecords/internal/app/services"
	"github.com/jdelacruz/schoolrecords/internal/config"
	"github.com/jdelacruz/schoolrecords/internal/db"
	appMiddleware "github.com/jdelacruz/schoolrecords/internal/middleware"
	pkgAuth "github.com/jdelacruz/schoolrecords/internal/pkg/auth"
	"github.com/jdelacruz/schoolrecords/internal/pkg/filestorage"
	"github.com/jdelacruz/schoolrecords/internal/pkg/helpers"
	"github.com/jdelacruz/schoolrecords/internal/pkg/logger"
	"github.com/jdelacruz/schoolrecords/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	FileStorage          *filestorage.LocalStorage
	AuthService          *appServices.AuthService
	StudentService       *appServices.StudentService
	SubjectService       *appServices.SubjectService
	GradeService         *appServices.GradeService
	EnrollmentService    *appServices.EnrollmentService
	AuthController       *appControllers.AuthController
	StudentController    *appControllers.StudentController
	SubjectController    *appControllers.SubjectController
	GradeController      *appControllers.GradeController
	EnrollmentController *appControllers.EnrollmentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	logger.Info().Str("level", cfg.Logging.Level).Str("format", cfg.Logging.Format).Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	dbPool := database.Pool
	logger.Info().Msg("Database connection established")

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	logger.Info().Msg("Database migrations applied")

	if err := seed.CreateDefaultData(ctx, dbPool); err != nil {
		logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services, controllers and
// middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Repos = appRepos.NewRepositories(dbPool)

	storage, err := filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	deps.FileStorage = storage

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Registration writes a placeholder profile and its credential in one
	// transaction, with the stores rebound to the tx.
	database := &db.PostgresDB{Pool: dbPool}
	atomic := func(ctx context.Context, fn func(users appServices.UserStore, students appServices.StudentStore) error) error {
		return database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
			return fn(appRepos.NewUserRepository(tx), appRepos.NewStudentRepository(tx))
		})
	}

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.StudentRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		atomic,
	)
	deps.StudentService = appServices.NewStudentService(deps.Repos.StudentRepository, deps.FileStorage)
	deps.SubjectService = appServices.NewSubjectService(deps.Repos.SubjectRepository)
	deps.GradeService = appServices.NewGradeService(
		deps.Repos.GradeRepository,
		deps.Repos.StudentRepository,
		deps.Repos.SubjectRepository,
	)
	deps.EnrollmentService = appServices.NewEnrollmentService(
		deps.Repos.EnrollmentRepository,
		deps.Repos.StudentRepository,
		deps.Repos.SubjectRepository,
	)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.SubjectController = appControllers.NewSubjectController(deps.SubjectService)
	deps.GradeController = appControllers.NewGradeController(deps.GradeService)
	deps.EnrollmentController = appControllers.NewEnrollmentController(deps.EnrollmentService)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService,
		func(c *gin.Context, id int64) (*models.User, error) {
			return deps.Repos.UserRepository.GetByID(c.Request.Context(), id)
		})

	return deps, nil
}

// SetupRouter builds the gin engine with sessions, logging and all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int((24 * time.Hour).Seconds()),
	})
	router.Use(sessions.Sessions("schoolrecords_session", store))

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.StudentController,
		deps.SubjectController,
		deps.GradeController,
		deps.EnrollmentController,
		deps.AuthMiddleware,
	)
	appRoutes.SetupSwagger(router)

	return router
}
