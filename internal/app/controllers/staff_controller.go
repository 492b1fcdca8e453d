package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/services"
	"github.com/abhijeet-rane/SamaySetu/internal/middleware"
)

// StaffController handles staff self-service operations
type StaffController struct {
	staffService *services.StaffService
	authService  *services.AuthService
	logger       zerolog.Logger
}

// NewStaffController creates a new StaffController
func NewStaffController(staffService *services.StaffService, authService *services.AuthService, logger zerolog.Logger) *StaffController {
	return &StaffController{
		staffService: staffService,
		authService:  authService,
		logger:       logger,
	}
}

// GetProfile returns the authenticated staff member's profile
// @Summary Get own profile
// @Tags staff
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeacherResponse}
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /api/staff/profile [get]
func (c *StaffController) GetProfile(ctx *gin.Context) {
	email := ctx.GetString(middleware.ContextEmail)

	profile, err := c.staffService.GetProfile(ctx.Request.Context(), email)
	if err != nil {
		c.logger.Error().Err(err).Str("email", email).Msg("Failed to get profile")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: profile,
	})
}

// UpdateProfile updates the authenticated staff member's profile
// @Summary Update own profile
// @Tags staff
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /api/staff/profile [put]
func (c *StaffController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	email := ctx.GetString(middleware.ContextEmail)

	profile, err := c.staffService.UpdateProfile(ctx.Request.Context(), email, &req)
	if err != nil {
		c.logger.Error().Err(err).Str("email", email).Msg("Failed to update profile")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: profile,
	})
}

// ChangePassword changes the authenticated staff member's password
// @Summary Change own password
// @Tags staff
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /api/staff/change-password [post]
func (c *StaffController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	teacherID := ctx.GetInt64(middleware.ContextTeacherID)

	if err := c.authService.ChangePassword(ctx.Request.Context(), teacherID, &req); err != nil {
		c.logger.Warn().Err(err).Int64("teacherId", teacherID).Msg("Password change failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Password changed successfully."},
	})
}
