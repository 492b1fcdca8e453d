package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/services"
	"github.com/abhijeet-rane/SamaySetu/internal/middleware"
)

// AdminController handles administrative staff management operations
type AdminController struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.Param(name), 10, 64)
}

// ListStaff returns all staff accounts
// @Summary List staff
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/staff [get]
func (c *AdminController) ListStaff(ctx *gin.Context) {
	staff, err := c.adminService.ListStaff(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list staff")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: staff,
	})
}

// ListPendingStaff returns verified staff accounts awaiting approval
// @Summary List staff pending approval
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.TeacherResponse}
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Router /admin/staff/pending [get]
func (c *AdminController) ListPendingStaff(ctx *gin.Context) {
	staff, err := c.adminService.ListPendingStaff(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list pending staff")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: staff,
	})
}

// CreateStaff creates a staff account directly
// @Summary Create a staff account
// @Description Creates an approved staff account with the default password. The first login forces a password change.
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ManualStaffRequest true "Staff information"
// @Success 201 {object} dto.APIResponse{data=dto.TeacherResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email or employee ID already exists"
// @Router /admin/create-staff [post]
func (c *AdminController) CreateStaff(ctx *gin.Context) {
	var req dto.ManualStaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	staff, err := c.adminService.CreateStaff(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Error().Err(err).Str("email", req.Email).Msg("Failed to create staff account")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: staff,
	})
}

// UploadStaff creates staff accounts in bulk from a CSV file
// @Summary Upload staff CSV
// @Description Creates staff accounts from a CSV upload. Rows with an already registered email or employee ID are skipped.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.StaffUploadResult}
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed CSV file"
// @Router /admin/upload-staff [post]
func (c *AdminController) UploadStaff(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "CSV file is required")))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Unable to read uploaded file")))
		return
	}
	defer file.Close()

	result, err := c.adminService.UploadStaffCSV(ctx.Request.Context(), file)
	if err != nil {
		c.logger.Error().Err(err).Msg("Staff CSV import failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: result,
	})
}

// DownloadStaffTemplate returns the CSV template for bulk staff imports
// @Summary Download staff CSV template
// @Tags admin
// @Produce text/csv
// @Security ApiKeyAuth
// @Success 200 {string} string "CSV template"
// @Router /admin/download-staff-template [get]
func (c *AdminController) DownloadStaffTemplate(ctx *gin.Context) {
	ctx.Header("Content-Disposition", `attachment; filename="staff_template.csv"`)
	ctx.Data(http.StatusOK, "text/csv", c.adminService.StaffTemplateCSV())
}

// UpdateStaff edits an existing staff account
// @Summary Update a staff account
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Staff ID"
// @Param request body dto.AdminStaffUpdateRequest true "Staff fields"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /admin/update-staff/{id} [put]
func (c *AdminController) UpdateStaff(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid staff ID")))
		return
	}

	var req dto.AdminStaffUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	staff, err := c.adminService.UpdateStaff(ctx.Request.Context(), id, &req)
	if err != nil {
		c.logger.Error().Err(err).Int64("staffId", id).Msg("Failed to update staff account")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: staff,
	})
}

// ApproveStaff approves a verified staff account
// @Summary Approve a staff account
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Account email is not verified yet"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /admin/staff/{id}/approve [post]
func (c *AdminController) ApproveStaff(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid staff ID")))
		return
	}

	if err := c.adminService.ApproveStaff(ctx.Request.Context(), id); err != nil {
		c.logger.Error().Err(err).Int64("staffId", id).Msg("Failed to approve staff account")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Staff account approved."},
	})
}

// RejectStaff rejects a pending staff registration
// @Summary Reject a staff registration
// @Description Removes the pending account and notifies the owner
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Staff ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Account is already approved"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Router /admin/staff/{id}/reject [post]
func (c *AdminController) RejectStaff(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid staff ID")))
		return
	}

	if err := c.adminService.RejectStaff(ctx.Request.Context(), id); err != nil {
		c.logger.Error().Err(err).Int64("staffId", id).Msg("Failed to reject staff registration")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Staff registration rejected."},
	})
}
