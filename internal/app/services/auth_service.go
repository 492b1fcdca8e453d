package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/email"
)

const (
	// VerificationTokenTTL is how long an email verification token stays valid
	VerificationTokenTTL = 24 * time.Hour
	// ResetTokenTTL is how long a password reset token stays valid
	ResetTokenTTL = time.Hour
)

// AuthService handles account lifecycle and authentication operations
type AuthService struct {
	teacherRepo  repositories.ITeacherRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	teacherRepo repositories.ITeacherRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		teacherRepo:  teacherRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// validatePassword checks if a password meets requirements
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", apperrors.ErrValidationFailed)
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter {
		return fmt.Errorf("%w: password must contain at least one letter", apperrors.ErrValidationFailed)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must contain at least one digit", apperrors.ErrValidationFailed)
	}

	return nil
}

// Register creates a new staff account pending email verification and admin
// approval. Uniqueness is left to the database so concurrent registrations
// with the same email cannot both succeed.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) error {
	if err := validatePassword(req.Password); err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	token, err := email.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("error generating verification token: %w", err)
	}
	expiry := time.Now().Add(VerificationTokenTTL)

	teacher := &models.Teacher{
		Name:                   strings.TrimSpace(req.Name),
		EmployeeID:             strings.TrimSpace(req.EmployeeID),
		Email:                  strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:                  req.Phone,
		Specialization:         req.Specialization,
		Password:               hashedPassword,
		Role:                   models.RoleTeacher,
		Active:                 true,
		Verified:               false,
		Approved:               false,
		FirstLogin:             true,
		EmailVerificationToken: &token,
		VerificationExpiry:     &expiry,
		MinWeeklyHours:         req.MinWeeklyHours,
		MaxWeeklyHours:         req.MaxWeeklyHours,
	}

	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return err
	}

	if err := s.emailService.SendVerificationEmail(teacher.Email, teacher.Name, token); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send verification email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Str("email", teacher.Email).Msg("Staff account registered")
	return nil
}

// VerifyEmail marks the account owning the token as verified. The token is
// single use; it is discarded on success.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.ErrInvalidOrExpiredToken
	}

	teacher, err := s.teacherRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return err
	}

	if teacher.VerificationExpiry == nil || time.Now().After(*teacher.VerificationExpiry) {
		return apperrors.ErrInvalidOrExpiredToken
	}

	if err := s.teacherRepo.MarkVerified(ctx, teacher.ID); err != nil {
		return err
	}

	if err := s.emailService.SendWelcomeEmail(teacher.Email, teacher.Name); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send welcome email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Email verified")
	return nil
}

// ResendVerification issues a fresh verification token for an account that
// has not verified its email yet, replacing any previous one. Like
// ForgotPassword, the response is the same whether or not the email is
// registered.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	teacher, err := s.teacherRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			s.logger.Info().Str("email", emailAddr).Msg("Verification resend requested for unknown email")
			return nil
		}
		return err
	}

	if teacher.Verified {
		return nil
	}

	token, err := email.GenerateVerificationToken()
	if err != nil {
		return fmt.Errorf("error generating verification token: %w", err)
	}
	expiry := time.Now().Add(VerificationTokenTTL)

	if err := s.teacherRepo.SetVerificationToken(ctx, teacher.ID, token, expiry); err != nil {
		return err
	}

	if err := s.emailService.SendVerificationEmail(teacher.Email, teacher.Name, token); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send verification email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Verification email resent")
	return nil
}

// Login authenticates an account and issues a bearer token. Account status is
// checked before the password so the caller gets the specific reason login is
// unavailable. Accounts still on an assigned password get firstLogin=true in
// the response; the first-login gate never applies to admin accounts.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	teacher, err := s.teacherRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}

	if !teacher.Active || !teacher.Verified {
		return nil, apperrors.ErrAccountNotActive
	}
	if !teacher.Approved {
		return nil, apperrors.ErrAccountNotApproved
	}

	if !auth.CheckPassword(teacher.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	firstLogin := teacher.Role == models.RoleTeacher && teacher.FirstLogin

	token, err := s.jwtService.GenerateToken(teacher.Email, string(teacher.Role))
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.logger.Info().Str("email", teacher.Email).Str("role", string(teacher.Role)).Msg("Login successful")

	return &dto.AuthResponse{
		Email:      teacher.Email,
		Token:      token,
		Role:       string(teacher.Role),
		FirstLogin: firstLogin,
	}, nil
}

// ChangeFirstLoginPassword completes the forced password change for accounts
// still on an assigned password. The flag flips exactly once; a repeat call
// fails with ErrNotFirstLogin.
func (s *AuthService) ChangeFirstLoginPassword(ctx context.Context, req *dto.ChangeFirstPasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	teacher, err := s.teacherRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return err
	}

	if !teacher.FirstLogin {
		return apperrors.ErrNotFirstLogin
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.teacherRepo.UpdatePassword(ctx, teacher.ID, hashedPassword, false); err != nil {
		return err
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("First-login password changed")
	return nil
}

// ChangePassword changes the password of an authenticated account
func (s *AuthService) ChangePassword(ctx context.Context, teacherID int64, req *dto.ChangePasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	teacher, err := s.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(teacher.Password, req.OldPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	// Only the forced first-login change lifts the first-login gate
	if err := s.teacherRepo.UpdatePassword(ctx, teacher.ID, hashedPassword, teacher.FirstLogin); err != nil {
		return err
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Password changed")
	return nil
}

// ForgotPassword starts a password reset. The response is identical whether
// or not the email is registered, so the endpoint cannot be used to probe
// for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) error {
	teacher, err := s.teacherRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			s.logger.Info().Str("email", emailAddr).Msg("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.New().String()
	expiry := time.Now().Add(ResetTokenTTL)

	if err := s.teacherRepo.SetResetToken(ctx, teacher.ID, token, expiry); err != nil {
		return err
	}

	if err := s.emailService.SendPasswordResetEmail(teacher.Email, teacher.Name, token); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send password reset email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Password reset initiated")
	return nil
}

// ValidateResetToken checks whether a reset token is known and unexpired
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperrors.ErrInvalidOrExpiredToken
	}

	teacher, err := s.teacherRepo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return err
	}

	if teacher.ResetTokenExpiry == nil || time.Now().After(*teacher.ResetTokenExpiry) {
		return apperrors.ErrInvalidOrExpiredToken
	}

	return nil
}

// ResetPassword sets a new password for the account owning the reset token.
// The token is single use; it is discarded with the password update.
func (s *AuthService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	teacher, err := s.teacherRepo.GetByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return apperrors.ErrInvalidOrExpiredToken
		}
		return err
	}

	if teacher.ResetTokenExpiry == nil || time.Now().After(*teacher.ResetTokenExpiry) {
		return apperrors.ErrInvalidOrExpiredToken
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	// Only the forced first-login change lifts the first-login gate
	if err := s.teacherRepo.UpdatePassword(ctx, teacher.ID, hashedPassword, teacher.FirstLogin); err != nil {
		return err
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Password reset completed")
	return nil
}
