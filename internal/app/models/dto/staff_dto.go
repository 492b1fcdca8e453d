package dto

// UpdateProfileRequest represents a staff member's own profile update.
// Email, role and approval flags are not editable here.
type UpdateProfileRequest struct {
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	MinWeeklyHours int    `json:"minWeeklyHours" binding:"omitempty,min=0"`
	MaxWeeklyHours int    `json:"maxWeeklyHours" binding:"omitempty,min=0"`
}

// ManualStaffRequest represents an admin creating a staff account directly.
// The account starts verified and approved with the default password.
type ManualStaffRequest struct {
	Name           string `json:"name" binding:"required"`
	EmployeeID     string `json:"employeeId" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	MinWeeklyHours int    `json:"minWeeklyHours" binding:"omitempty,min=0"`
	MaxWeeklyHours int    `json:"maxWeeklyHours" binding:"omitempty,min=0"`
	DepartmentID   *int64 `json:"departmentId,omitempty"`
}

// AdminStaffUpdateRequest represents an admin editing an existing staff account
type AdminStaffUpdateRequest struct {
	Name           string `json:"name" binding:"required"`
	Phone          string `json:"phone" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	Active         *bool  `json:"active,omitempty"`
	MinWeeklyHours int    `json:"minWeeklyHours" binding:"omitempty,min=0"`
	MaxWeeklyHours int    `json:"maxWeeklyHours" binding:"omitempty,min=0"`
	DepartmentID   *int64 `json:"departmentId,omitempty"`
}

// StaffUploadResult summarizes a bulk CSV staff import
type StaffUploadResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}
