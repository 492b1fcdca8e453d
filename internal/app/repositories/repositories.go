package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	TeacherRepository    *TeacherRepository
	DepartmentRepository *DepartmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		TeacherRepository:    NewTeacherRepository(db),
		DepartmentRepository: NewDepartmentRepository(db),
	}
}
