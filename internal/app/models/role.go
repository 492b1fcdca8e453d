package models

// RoleType defines the role of an account
type RoleType string

const (
	RoleAdmin   RoleType = "ADMIN"
	RoleTeacher RoleType = "TEACHER"
)

// IsValid checks whether the role is one of the known roles
func (r RoleType) IsValid() bool {
	return r == RoleAdmin || r == RoleTeacher
}
