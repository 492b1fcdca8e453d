package models

import (
	"time"
)

// Teacher defines the staff account model based on the 'teachers' table.
// Verification and reset tokens live on the row itself; a fresh token
// overwrites any previous one.
type Teacher struct {
	ID                     int64       `json:"id" db:"id" example:"1"`                                            // Unique identifier for the account
	Name                   string      `json:"name" db:"name" example:"Anita Deshmukh"`                           // Full name
	EmployeeID             string      `json:"employeeId" db:"employee_id" example:"EMP1023"`                     // Organization-issued employee identifier
	Email                  string      `json:"email" db:"email" example:"anita.d@mitaoe.ac.in"`                   // Email address, unique across accounts
	Phone                  string      `json:"phone" db:"phone" example:"9876543210"`                             // Contact phone number
	Specialization         string      `json:"specialization" db:"specialization" example:"Data Structures"`      // Subject specialization
	Password               string      `json:"-" db:"password"`                                                   // Hashed password (excluded from JSON)
	Role                   RoleType    `json:"role" db:"role" example:"TEACHER"`                                  // Account role (ADMIN or TEACHER)
	Active                 bool        `json:"active" db:"active" example:"true"`                                 // Whether the account is enabled at all
	Verified               bool        `json:"verified" db:"verified" example:"true"`                             // Whether the email address has been verified
	Approved               bool        `json:"approved" db:"approved" example:"false"`                            // Whether an admin has approved the account
	FirstLogin             bool        `json:"firstLogin" db:"first_login" example:"false"`                       // Whether the account still carries its initial password
	EmailVerificationToken *string     `json:"-" db:"email_verification_token"`                                   // Pending verification token (nullable)
	VerificationExpiry     *time.Time  `json:"-" db:"verification_expiry"`                                        // Verification token expiry (nullable)
	ResetToken             *string     `json:"-" db:"reset_token"`                                                // Pending password reset token (nullable)
	ResetTokenExpiry       *time.Time  `json:"-" db:"reset_token_expiry"`                                         // Reset token expiry (nullable)
	MinWeeklyHours         int         `json:"minWeeklyHours" db:"min_weekly_hours" example:"8"`                  // Minimum teaching hours per week
	MaxWeeklyHours         int         `json:"maxWeeklyHours" db:"max_weekly_hours" example:"16"`                 // Maximum teaching hours per week
	DepartmentID           *int64      `json:"departmentId,omitempty" db:"department_id"`                         // Department assignment (nullable)
	CreatedAt              time.Time   `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`          // Timestamp when the account was created
	UpdatedAt              time.Time   `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`          // Timestamp when the account was last updated
	Department             *Department `json:"department,omitempty"`                                              // Relation, no db tag
}
