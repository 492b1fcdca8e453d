package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
)

// StaffService handles staff self-service profile operations
type StaffService struct {
	teacherRepo    repositories.ITeacherRepository
	departmentRepo repositories.IDepartmentRepository
	logger         zerolog.Logger
}

// NewStaffService creates a new StaffService
func NewStaffService(
	teacherRepo repositories.ITeacherRepository,
	departmentRepo repositories.IDepartmentRepository,
	logger zerolog.Logger,
) *StaffService {
	return &StaffService{
		teacherRepo:    teacherRepo,
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

// GetProfile returns the profile of the account with the given email
func (s *StaffService) GetProfile(ctx context.Context, email string) (*dto.TeacherResponse, error) {
	teacher, err := s.teacherRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return dto.NewTeacherResponse(teacher), nil
}

// UpdateProfile updates the editable profile fields of the account with the
// given email. Email, role and approval flags cannot be changed here.
func (s *StaffService) UpdateProfile(ctx context.Context, email string, req *dto.UpdateProfileRequest) (*dto.TeacherResponse, error) {
	if req.MaxWeeklyHours > 0 && req.MinWeeklyHours > req.MaxWeeklyHours {
		return nil, fmt.Errorf("%w: minimum weekly hours cannot exceed maximum", apperrors.ErrValidationFailed)
	}

	teacher, err := s.teacherRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	teacher.Name = req.Name
	teacher.Phone = req.Phone
	teacher.Specialization = req.Specialization
	teacher.MinWeeklyHours = req.MinWeeklyHours
	teacher.MaxWeeklyHours = req.MaxWeeklyHours

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Profile updated")
	return dto.NewTeacherResponse(teacher), nil
}
