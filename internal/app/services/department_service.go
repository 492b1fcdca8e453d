package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
)

// DepartmentService handles department lookups
type DepartmentService struct {
	departmentRepo repositories.IDepartmentRepository
	logger         zerolog.Logger
}

// NewDepartmentService creates a new DepartmentService
func NewDepartmentService(departmentRepo repositories.IDepartmentRepository, logger zerolog.Logger) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

// GetAllDepartments returns all departments
func (s *DepartmentService) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// GetDepartmentByID returns a department by ID
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, id int64) (*models.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}
