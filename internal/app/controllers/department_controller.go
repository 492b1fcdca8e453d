package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/services"
	"github.com/abhijeet-rane/SamaySetu/internal/middleware"
)

// DepartmentController handles department lookups
type DepartmentController struct {
	departmentService *services.DepartmentService
	logger            zerolog.Logger
}

// NewDepartmentController creates a new DepartmentController
func NewDepartmentController(departmentService *services.DepartmentService, logger zerolog.Logger) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
		logger:            logger,
	}
}

// GetAllDepartments returns all departments
// @Summary List departments
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Department}
// @Router /api/departments [get]
func (c *DepartmentController) GetAllDepartments(ctx *gin.Context) {
	departments, err := c.departmentService.GetAllDepartments(ctx.Request.Context())
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to list departments")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: departments,
	})
}

// GetDepartmentByID returns a department by ID
// @Summary Get a department
// @Tags departments
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Department ID"
// @Success 200 {object} dto.APIResponse{data=models.Department}
// @Failure 404 {object} dto.ErrorResponse "Department not found"
// @Router /api/departments/{id} [get]
func (c *DepartmentController) GetDepartmentByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid department ID")))
		return
	}

	department, err := c.departmentService.GetDepartmentByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: department,
	})
}
