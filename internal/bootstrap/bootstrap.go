package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/abhijeet-rane/SamaySetu/internal/app/controllers"
	appMigrations "github.com/abhijeet-rane/SamaySetu/internal/app/migrations"
	appRepos "github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	appRoutes "github.com/abhijeet-rane/SamaySetu/internal/app/routes"
	appServices "github.com/abhijeet-rane/SamaySetu/internal/app/services"
	"github.com/abhijeet-rane/SamaySetu/internal/config"
	"github.com/abhijeet-rane/SamaySetu/internal/db"
	appMiddleware "github.com/abhijeet-rane/SamaySetu/internal/middleware"
	pkgAuth "github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/email"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/helpers"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/logger"
	"github.com/abhijeet-rane/SamaySetu/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	StaffService         *appServices.StaffService
	AdminService         *appServices.AdminService
	DepartmentService    *appServices.DepartmentService
	AuthController       *appControllers.AuthController
	StaffController      *appControllers.StaffController
	AdminController      *appControllers.AdminController
	DepartmentController *appControllers.DepartmentController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	EmailService         email.EmailService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 10*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:        cfg.SMTP.Host,
		Port:        cfg.SMTP.Port,
		Username:    cfg.SMTP.Username,
		Password:    cfg.SMTP.Password,
		FromName:    cfg.SMTP.FromName,
		FromEmail:   cfg.SMTP.FromEmail,
		UseTLS:      cfg.SMTP.UseTLS,
		BaseURL:     cfg.App.BaseURL,
		FrontendURL: cfg.App.FrontendURL,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.TeacherRepository,
		deps.JWTService,
		deps.EmailService,
		lgr,
	)
	deps.StaffService = appServices.NewStaffService(
		deps.Repos.TeacherRepository,
		deps.Repos.DepartmentRepository,
		lgr,
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.TeacherRepository,
		deps.Repos.DepartmentRepository,
		deps.EmailService,
		cfg.App.DefaultStaffPassword,
		lgr,
	)
	deps.DepartmentService = appServices.NewDepartmentService(deps.Repos.DepartmentRepository, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.TeacherRepository)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, cfg.App.FrontendURL, lgr)
	deps.StaffController = appControllers.NewStaffController(deps.StaffService, deps.AuthService, lgr)
	deps.AdminController = appControllers.NewAdminController(deps.AdminService, lgr)
	deps.DepartmentController = appControllers.NewDepartmentController(deps.DepartmentService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StaffController,
		deps.AdminController,
		deps.DepartmentController,
		deps.AuthMiddleware,
	)

	return router
}
