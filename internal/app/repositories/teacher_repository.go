package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/dberrors"
)

const teacherColumns = `id, name, employee_id, email, phone, specialization, password, role,
		active, verified, approved, first_login, email_verification_token, verification_expiry,
		reset_token, reset_token_expiry, min_weekly_hours, max_weekly_hours, department_id,
		created_at, updated_at`

// ITeacherRepository defines the interface for staff account database operations
type ITeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetByEmail(ctx context.Context, email string) (*models.Teacher, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.Teacher, error)
	GetByResetToken(ctx context.Context, token string) (*models.Teacher, error)
	Update(ctx context.Context, teacher *models.Teacher) error
	UpdatePassword(ctx context.Context, id int64, hashedPassword string, firstLogin bool) error
	SetVerificationToken(ctx context.Context, id int64, token string, expiry time.Time) error
	MarkVerified(ctx context.Context, id int64) error
	SetApproved(ctx context.Context, id int64, approved bool) error
	SetResetToken(ctx context.Context, id int64, token string, expiry time.Time) error
	GetAllByRole(ctx context.Context, role models.RoleType) ([]*models.Teacher, error)
	GetPendingApproval(ctx context.Context) ([]*models.Teacher, error)
	Delete(ctx context.Context, id int64) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

// TeacherRepository handles database operations for staff accounts
type TeacherRepository struct {
	db *pgxpool.Pool
}

// NewTeacherRepository creates a new TeacherRepository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// Create inserts a new staff account. A unique constraint violation on email
// or employee_id is reported as apperrors.ErrDuplicateAccount.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	query := `
		INSERT INTO teachers (name, employee_id, email, phone, specialization, password, role,
			active, verified, approved, first_login, email_verification_token, verification_expiry,
			min_weekly_hours, max_weekly_hours, department_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		teacher.Name,
		teacher.EmployeeID,
		teacher.Email,
		teacher.Phone,
		teacher.Specialization,
		teacher.Password,
		teacher.Role,
		teacher.Active,
		teacher.Verified,
		teacher.Approved,
		teacher.FirstLogin,
		teacher.EmailVerificationToken,
		teacher.VerificationExpiry,
		teacher.MinWeeklyHours,
		teacher.MaxWeeklyHours,
		teacher.DepartmentID,
	).Scan(&teacher.ID, &teacher.CreatedAt, &teacher.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "uq_teachers_email") {
			return fmt.Errorf("%w: email is already registered", apperrors.ErrDuplicateAccount)
		}
		if dberrors.IsDuplicateConstraintError(err, "uq_teachers_employee_id") {
			return fmt.Errorf("%w: employee ID is already registered", apperrors.ErrDuplicateAccount)
		}
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateAccount
		}
		return fmt.Errorf("error creating teacher: %w", err)
	}

	return nil
}

// GetByID retrieves a staff account by ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByEmail retrieves a staff account by email
func (r *TeacherRepository) GetByEmail(ctx context.Context, email string) (*models.Teacher, error) {
	return r.getOne(ctx, "email = $1", email)
}

// GetByVerificationToken retrieves the account holding a pending verification token
func (r *TeacherRepository) GetByVerificationToken(ctx context.Context, token string) (*models.Teacher, error) {
	return r.getOne(ctx, "email_verification_token = $1", token)
}

// GetByResetToken retrieves the account holding a pending reset token
func (r *TeacherRepository) GetByResetToken(ctx context.Context, token string) (*models.Teacher, error) {
	return r.getOne(ctx, "reset_token = $1", token)
}

func (r *TeacherRepository) getOne(ctx context.Context, condition string, arg interface{}) (*models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE %s`, teacherColumns, condition)

	teacher, err := scanTeacher(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}

	return teacher, nil
}

// Update updates the mutable profile fields of a staff account
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	query := squirrel.Update("teachers").
		Set("name", teacher.Name).
		Set("phone", teacher.Phone).
		Set("specialization", teacher.Specialization).
		Set("active", teacher.Active).
		Set("min_weekly_hours", teacher.MinWeeklyHours).
		Set("max_weekly_hours", teacher.MaxWeeklyHours).
		Set("department_id", teacher.DepartmentID).
		Set("updated_at", time.Now()).
		Where("id = ?", teacher.ID).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// UpdatePassword replaces the password hash and clears any pending reset token.
// firstLogin records whether the account still carries an assigned password.
func (r *TeacherRepository) UpdatePassword(ctx context.Context, id int64, hashedPassword string, firstLogin bool) error {
	query := squirrel.Update("teachers").
		Set("password", hashedPassword).
		Set("first_login", firstLogin).
		Set("reset_token", nil).
		Set("reset_token_expiry", nil).
		Set("updated_at", time.Now()).
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// SetVerificationToken stores a fresh verification token, replacing any previous one
func (r *TeacherRepository) SetVerificationToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	return r.exec(ctx, squirrel.Update("teachers").
		Set("email_verification_token", token).
		Set("verification_expiry", expiry).
		Set("updated_at", time.Now()).
		Where("id = ?", id))
}

// MarkVerified marks the email address verified and discards the token
func (r *TeacherRepository) MarkVerified(ctx context.Context, id int64) error {
	return r.exec(ctx, squirrel.Update("teachers").
		Set("verified", true).
		Set("email_verification_token", nil).
		Set("verification_expiry", nil).
		Set("updated_at", time.Now()).
		Where("id = ?", id))
}

// SetApproved records an admin approval decision
func (r *TeacherRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	return r.exec(ctx, squirrel.Update("teachers").
		Set("approved", approved).
		Set("updated_at", time.Now()).
		Where("id = ?", id))
}

// SetResetToken stores a fresh password reset token, replacing any previous one
func (r *TeacherRepository) SetResetToken(ctx context.Context, id int64, token string, expiry time.Time) error {
	return r.exec(ctx, squirrel.Update("teachers").
		Set("reset_token", token).
		Set("reset_token_expiry", expiry).
		Set("updated_at", time.Now()).
		Where("id = ?", id))
}

func (r *TeacherRepository) exec(ctx context.Context, builder squirrel.UpdateBuilder) error {
	sql, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// GetAllByRole retrieves all accounts with the given role
func (r *TeacherRepository) GetAllByRole(ctx context.Context, role models.RoleType) ([]*models.Teacher, error) {
	query := fmt.Sprintf(`SELECT %s FROM teachers WHERE role = $1 ORDER BY name`, teacherColumns)

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("error listing teachers: %w", err)
	}
	defer rows.Close()

	return scanTeachers(rows)
}

// GetPendingApproval retrieves verified staff accounts awaiting admin approval
func (r *TeacherRepository) GetPendingApproval(ctx context.Context) ([]*models.Teacher, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM teachers
		WHERE role = $1 AND verified = TRUE AND approved = FALSE
		ORDER BY created_at`, teacherColumns)

	rows, err := r.db.Query(ctx, query, models.RoleTeacher)
	if err != nil {
		return nil, fmt.Errorf("error listing pending teachers: %w", err)
	}
	defer rows.Close()

	return scanTeachers(rows)
}

// Delete removes a staff account
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting teacher: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}

	return nil
}

// EmailExists checks if an email is already registered
func (r *TeacherRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teachers WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking email existence: %w", err)
	}
	return exists, nil
}

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var teacher models.Teacher
	err := row.Scan(
		&teacher.ID,
		&teacher.Name,
		&teacher.EmployeeID,
		&teacher.Email,
		&teacher.Phone,
		&teacher.Specialization,
		&teacher.Password,
		&teacher.Role,
		&teacher.Active,
		&teacher.Verified,
		&teacher.Approved,
		&teacher.FirstLogin,
		&teacher.EmailVerificationToken,
		&teacher.VerificationExpiry,
		&teacher.ResetToken,
		&teacher.ResetTokenExpiry,
		&teacher.MinWeeklyHours,
		&teacher.MaxWeeklyHours,
		&teacher.DepartmentID,
		&teacher.CreatedAt,
		&teacher.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

func scanTeachers(rows pgx.Rows) ([]*models.Teacher, error) {
	var teachers []*models.Teacher
	for rows.Next() {
		teacher, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return teachers, nil
}
