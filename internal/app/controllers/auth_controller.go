// Package controllers handles HTTP request handling
package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/services"
	"github.com/abhijeet-rane/SamaySetu/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	frontendURL string
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, frontendURL string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Register handles staff self-registration
// @Summary Register a new staff account
// @Description Creates a new staff account. The account must verify its email and be approved by an admin before it can log in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Staff registration information"
// @Success 201 {object} dto.APIResponse{data=dto.SuccessResponse} "Registration initiated. Check email for verification link."
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email or employee ID already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.Register(ctx.Request.Context(), &req); err != nil {
		c.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to register staff account")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Registration successful. Please check your email to verify your account."},
	})
}

// VerifyEmail handles the verification link from the registration email
// @Summary Verify email address
// @Description Marks the account owning the token as verified
// @Tags auth
// @Produce json
// @Param token query string true "Verification token"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Email verified"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/verify-email [get]
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	token := ctx.Query("token")

	if err := c.authService.VerifyEmail(ctx.Request.Context(), token); err != nil {
		c.logger.Warn().Err(err).Msg("Email verification failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Email verified. Your account is now awaiting admin approval."},
	})
}

// ResendVerification sends a fresh verification link
// @Summary Resend the verification email
// @Description Issues a fresh verification token for an unverified account. The response does not reveal whether the email exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Verification email sent"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /auth/resend-verification [post]
func (c *AuthController) ResendVerification(ctx *gin.Context) {
	var req dto.ResendVerificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResendVerification(ctx.Request.Context(), req.Email); err != nil {
		c.logger.Error().Err(err).Msg("Failed to resend verification email")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "If the email is registered and unverified, a new verification link has been sent."},
	})
}

// Login handles user login
// @Summary Log in
// @Description Authenticates an account and returns a bearer token. Accounts still on their assigned first password get firstLogin=true and must change it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account not verified or not approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	authResponse, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: authResponse,
	})
}

// ChangeFirstPassword handles the forced first-login password change
// @Summary Change first-login password
// @Description Replaces the assigned first password; the account logs in again with the new one
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ChangeFirstPasswordRequest true "First password change"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password changed"
// @Failure 400 {object} dto.ErrorResponse "Account is not on its first login or validation failed"
// @Router /auth/change-first-password [post]
func (c *AuthController) ChangeFirstPassword(ctx *gin.Context) {
	var req dto.ChangeFirstPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ChangeFirstLoginPassword(ctx.Request.Context(), &req); err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("First-login password change failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Password updated. Please log in with your new password."},
	})
}

// ForgotPassword initiates a password reset
// @Summary Request a password reset
// @Description Sends a reset link if the email is registered. The response does not reveal whether the email exists.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Reset initiated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		c.logger.Error().Err(err).Msg("Failed to initiate password reset")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "If the email is registered, a password reset link has been sent."},
	})
}

// ResetPasswordRedirect handles the reset link from the email and forwards
// the browser to the frontend reset page
// @Summary Follow a password reset link
// @Description Validates the token and redirects to the frontend reset form
// @Tags auth
// @Param token query string true "Reset token"
// @Success 302 "Redirect to the frontend"
// @Router /auth/reset-password [get]
func (c *AuthController) ResetPasswordRedirect(ctx *gin.Context) {
	token := ctx.Query("token")

	if err := c.authService.ValidateResetToken(ctx.Request.Context(), token); err != nil {
		ctx.Redirect(http.StatusFound, fmt.Sprintf("%s/reset-password?error=invalid_token", c.frontendURL))
		return
	}

	ctx.Redirect(http.StatusFound, fmt.Sprintf("%s/reset-password?token=%s", c.frontendURL, token))
}

// ResetPassword completes a token-based password reset
// @Summary Reset password
// @Description Sets a new password for the account owning the reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password reset"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Router /auth/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	if err := c.authService.ResetPassword(ctx.Request.Context(), &req); err != nil {
		c.logger.Warn().Err(err).Msg("Password reset failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Password has been reset. You can now log in with your new password."},
	})
}
