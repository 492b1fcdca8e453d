package dto

import "github.com/abhijeet-rane/SamaySetu/internal/app/models"

// RegisterRequest represents a staff self-registration request
type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	EmployeeID     string `json:"employeeId" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Password       string `json:"password" binding:"required,min=8"`
	MinWeeklyHours int    `json:"minWeeklyHours" binding:"omitempty,min=0"`
	MaxWeeklyHours int    `json:"maxWeeklyHours" binding:"omitempty,min=0"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents a successful authentication response
type AuthResponse struct {
	Email      string `json:"email"`
	Token      string `json:"token"`
	Role       string `json:"role" example:"TEACHER"`
	FirstLogin bool   `json:"firstLogin"`
}

// ForgotPasswordRequest represents a password reset initiation request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendVerificationRequest asks for a fresh email verification link
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest represents a token-based password reset
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangeFirstPasswordRequest represents the forced first-login password change
type ChangeFirstPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// ChangePasswordRequest represents a voluntary password change by an
// authenticated account
type ChangePasswordRequest struct {
	OldPassword     string `json:"oldPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}

// TeacherResponse represents staff account information returned by the API
type TeacherResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	EmployeeID     string `json:"employeeId"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	Role           string `json:"role"`
	Active         bool   `json:"active"`
	Verified       bool   `json:"verified"`
	Approved       bool   `json:"approved"`
	FirstLogin     bool   `json:"firstLogin"`
	MinWeeklyHours int    `json:"minWeeklyHours"`
	MaxWeeklyHours int    `json:"maxWeeklyHours"`
	DepartmentID   *int64 `json:"departmentId,omitempty"`
}

// NewTeacherResponse maps a teacher model to its API representation
func NewTeacherResponse(teacher *models.Teacher) *TeacherResponse {
	if teacher == nil {
		return nil
	}
	return &TeacherResponse{
		ID:             teacher.ID,
		Name:           teacher.Name,
		EmployeeID:     teacher.EmployeeID,
		Email:          teacher.Email,
		Phone:          teacher.Phone,
		Specialization: teacher.Specialization,
		Role:           string(teacher.Role),
		Active:         teacher.Active,
		Verified:       teacher.Verified,
		Approved:       teacher.Approved,
		FirstLogin:     teacher.FirstLogin,
		MinWeeklyHours: teacher.MinWeeklyHours,
		MaxWeeklyHours: teacher.MaxWeeklyHours,
		DepartmentID:   teacher.DepartmentID,
	}
}

// NewTeacherResponseList maps a slice of teacher models
func NewTeacherResponseList(teachers []*models.Teacher) []*TeacherResponse {
	responses := make([]*TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		responses = append(responses, NewTeacherResponse(t))
	}
	return responses
}
