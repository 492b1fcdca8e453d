package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/abhijeet-rane/SamaySetu/internal/app/models"
	appRepos "github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	"github.com/abhijeet-rane/SamaySetu/internal/config"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
)

// CreateDefaultData creates the default admin account and sample departments
// if they don't exist. The admin skips the verification, approval and
// first-login gates.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	teacherRepo := appRepos.NewTeacherRepository(dbPool)

	var finalErr error

	if err := seedDepartments(ctx, dbPool, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	exists, err := teacherRepo.EmailExists(ctx, cfg.App.AdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		return errors.Join(finalErr, err)
	}

	if exists {
		lgr.Info().Msg("Admin account already exists, skipping creation")
		return finalErr
	}

	adminPassword := cfg.App.AdminPassword
	if adminPassword == "" {
		adminPassword = cfg.App.DefaultStaffPassword
		lgr.Warn().Msg("Admin password not configured, falling back to default staff password")
	}

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return errors.Join(finalErr, err)
	}

	admin := &appModels.Teacher{
		Name:       "System Administrator",
		EmployeeID: "ADMIN001",
		Email:      cfg.App.AdminEmail,
		Password:   hashedPassword,
		Role:       appModels.RoleAdmin,
		Active:     true,
		Verified:   true,
		Approved:   true,
		FirstLogin: false,
	}

	if err := teacherRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Int64("adminId", admin.ID).Str("email", admin.Email).Msg("Default admin account created")
	return finalErr
}

func seedDepartments(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	defaults := []struct {
		name string
		code string
	}{
		{"Computer Engineering", "CE"},
		{"Mechanical Engineering", "ME"},
		{"Electronics and Telecommunication", "ENTC"},
		{"Civil Engineering", "CIVIL"},
	}

	var finalErr error
	for _, d := range defaults {
		_, err := dbPool.Exec(ctx, `
			INSERT INTO departments (name, code)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, d.name, d.code)
		if err != nil {
			lgr.Error().Err(err).Str("code", d.code).Msg("Error seeding department")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
