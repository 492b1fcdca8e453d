package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/email"
)

// staffCSVHeader is the expected column layout for bulk staff imports
var staffCSVHeader = []string{"name", "employee_id", "email", "phone", "specialization", "min_weekly_hours", "max_weekly_hours"}

// AdminService handles administrative staff management operations
type AdminService struct {
	teacherRepo     repositories.ITeacherRepository
	departmentRepo  repositories.IDepartmentRepository
	emailService    email.EmailService
	defaultPassword string
	logger          zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	teacherRepo repositories.ITeacherRepository,
	departmentRepo repositories.IDepartmentRepository,
	emailService email.EmailService,
	defaultPassword string,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		teacherRepo:     teacherRepo,
		departmentRepo:  departmentRepo,
		emailService:    emailService,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// ListStaff returns all staff accounts
func (s *AdminService) ListStaff(ctx context.Context) ([]*dto.TeacherResponse, error) {
	teachers, err := s.teacherRepo.GetAllByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}
	return dto.NewTeacherResponseList(teachers), nil
}

// ListPendingStaff returns verified staff accounts awaiting approval
func (s *AdminService) ListPendingStaff(ctx context.Context) ([]*dto.TeacherResponse, error) {
	teachers, err := s.teacherRepo.GetPendingApproval(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewTeacherResponseList(teachers), nil
}

// CreateStaff creates a staff account directly. The account skips the
// verification and approval gates but carries the shared default password,
// so the first login forces a password change.
func (s *AdminService) CreateStaff(ctx context.Context, req *dto.ManualStaffRequest) (*dto.TeacherResponse, error) {
	if req.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, fmt.Errorf("%w: department not found", apperrors.ErrBadRequest)
		}
	}

	teacher, err := s.createWithDefaultPassword(ctx, req.Name, req.EmployeeID, req.Email, req.Phone,
		req.Specialization, req.MinWeeklyHours, req.MaxWeeklyHours, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	if err := s.emailService.SendAccountCreatedEmail(teacher.Email, teacher.Name, s.defaultPassword); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send account created email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Str("email", teacher.Email).Msg("Staff account created by admin")
	return dto.NewTeacherResponse(teacher), nil
}

func (s *AdminService) createWithDefaultPassword(ctx context.Context, name, employeeID, emailAddr, phone,
	specialization string, minHours, maxHours int, departmentID *int64) (*models.Teacher, error) {

	hashedPassword, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	teacher := &models.Teacher{
		Name:           strings.TrimSpace(name),
		EmployeeID:     strings.TrimSpace(employeeID),
		Email:          strings.ToLower(strings.TrimSpace(emailAddr)),
		Phone:          strings.TrimSpace(phone),
		Specialization: strings.TrimSpace(specialization),
		Password:       hashedPassword,
		Role:           models.RoleTeacher,
		Active:         true,
		Verified:       true,
		Approved:       true,
		FirstLogin:     true,
		MinWeeklyHours: minHours,
		MaxWeeklyHours: maxHours,
		DepartmentID:   departmentID,
	}

	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return nil, err
	}

	return teacher, nil
}

// UploadStaffCSV creates staff accounts in bulk from a CSV stream. Rows whose
// email or employee ID is already registered are skipped, not treated as
// failures, so re-uploading a file is safe.
func (s *AdminService) UploadStaffCSV(ctx context.Context, r io.Reader) (*dto.StaffUploadResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: empty or unreadable CSV file", apperrors.ErrBadRequest)
	}
	if err := validateCSVHeader(header); err != nil {
		return nil, err
	}

	result := &dto.StaffUploadResult{}
	line := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		minHours, err := strconv.Atoi(strings.TrimSpace(record[5]))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid min_weekly_hours", line))
			continue
		}
		maxHours, err := strconv.Atoi(strings.TrimSpace(record[6]))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: invalid max_weekly_hours", line))
			continue
		}

		teacher, err := s.createWithDefaultPassword(ctx, record[0], record[1], record[2], record[3],
			record[4], minHours, maxHours, nil)
		if err != nil {
			if errors.Is(err, apperrors.ErrDuplicateAccount) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		result.Created++

		if err := s.emailService.SendAccountCreatedEmail(teacher.Email, teacher.Name, s.defaultPassword); err != nil {
			s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send account created email")
		}
	}

	s.logger.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Msg("Staff CSV import finished")

	return result, nil
}

func validateCSVHeader(header []string) error {
	if len(header) != len(staffCSVHeader) {
		return fmt.Errorf("%w: expected %d columns, got %d", apperrors.ErrBadRequest, len(staffCSVHeader), len(header))
	}
	for i, col := range staffCSVHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return fmt.Errorf("%w: expected column %q, got %q", apperrors.ErrBadRequest, col, header[i])
		}
	}
	return nil
}

// StaffTemplateCSV returns the CSV template for bulk staff imports
func (s *AdminService) StaffTemplateCSV() []byte {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(staffCSVHeader)
	_ = w.Write([]string{"Anita Deshmukh", "EMP1023", "anita.d@mitaoe.ac.in", "9876543210", "Data Structures", "8", "16"})
	w.Flush()
	return []byte(b.String())
}

// UpdateStaff edits an existing staff account as an admin
func (s *AdminService) UpdateStaff(ctx context.Context, id int64, req *dto.AdminStaffUpdateRequest) (*dto.TeacherResponse, error) {
	if req.DepartmentID != nil {
		if _, err := s.departmentRepo.GetByID(ctx, *req.DepartmentID); err != nil {
			return nil, fmt.Errorf("%w: department not found", apperrors.ErrBadRequest)
		}
	}

	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	teacher.Name = req.Name
	teacher.Phone = req.Phone
	teacher.Specialization = req.Specialization
	if req.Active != nil {
		teacher.Active = *req.Active
	}
	teacher.MinWeeklyHours = req.MinWeeklyHours
	teacher.MaxWeeklyHours = req.MaxWeeklyHours
	teacher.DepartmentID = req.DepartmentID

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Staff account updated by admin")
	return dto.NewTeacherResponse(teacher), nil
}

// ApproveStaff approves a verified staff account and notifies the owner
func (s *AdminService) ApproveStaff(ctx context.Context, id int64) error {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !teacher.Verified {
		return fmt.Errorf("%w: account email is not verified yet", apperrors.ErrBadRequest)
	}

	if err := s.teacherRepo.SetApproved(ctx, teacher.ID, true); err != nil {
		return err
	}

	if err := s.emailService.SendApprovalEmail(teacher.Email, teacher.Name); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send approval email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Staff account approved")
	return nil
}

// RejectStaff rejects a pending registration. The account is removed so the
// email and employee ID become available again.
func (s *AdminService) RejectStaff(ctx context.Context, id int64) error {
	teacher, err := s.teacherRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if teacher.Approved {
		return fmt.Errorf("%w: account is already approved", apperrors.ErrBadRequest)
	}

	if err := s.teacherRepo.Delete(ctx, teacher.ID); err != nil {
		return err
	}

	if err := s.emailService.SendRejectionEmail(teacher.Email, teacher.Name); err != nil {
		s.logger.Error().Err(err).Str("email", teacher.Email).Msg("Failed to send rejection email")
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Staff registration rejected")
	return nil
}
