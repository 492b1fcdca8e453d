package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
)

type fakeDepartmentRepo struct {
	departments map[int64]*models.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{departments: map[int64]*models.Department{
		1: {ID: 1, Name: "Computer Engineering", Code: "CE"},
		2: {ID: 2, Name: "Mechanical Engineering", Code: "ME"},
	}}
}

func (r *fakeDepartmentRepo) GetByID(_ context.Context, id int64) (*models.Department, error) {
	d, ok := r.departments[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return d, nil
}

func (r *fakeDepartmentRepo) GetAll(_ context.Context) ([]*models.Department, error) {
	var result []*models.Department
	for _, d := range r.departments {
		result = append(result, d)
	}
	return result, nil
}

func newTestAdminService() (*AdminService, *fakeTeacherRepo, *fakeEmailService) {
	repo := newFakeTeacherRepo()
	emails := newFakeEmailService()
	svc := NewAdminService(repo, newFakeDepartmentRepo(), emails, "mitaoe@123", zerolog.Nop())
	return svc, repo, emails
}

func TestCreateStaff(t *testing.T) {
	svc, repo, emails := newTestAdminService()
	ctx := context.Background()

	deptID := int64(1)
	resp, err := svc.CreateStaff(ctx, &dto.ManualStaffRequest{
		Name:           "Anita Deshmukh",
		EmployeeID:     "EMP1023",
		Email:          "Anita.D@mitaoe.ac.in",
		Phone:          "9876543210",
		Specialization: "Data Structures",
		MinWeeklyHours: 8,
		MaxWeeklyHours: 16,
		DepartmentID:   &deptID,
	})
	require.NoError(t, err)
	assert.Equal(t, "anita.d@mitaoe.ac.in", resp.Email)
	assert.Contains(t, emails.accountCreated, "anita.d@mitaoe.ac.in")

	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	assert.True(t, teacher.Active)
	assert.True(t, teacher.Verified)
	assert.True(t, teacher.Approved)
	assert.True(t, teacher.FirstLogin)
	assert.True(t, auth.CheckPassword(teacher.Password, "mitaoe@123"))
}

func TestCreateStaffUnknownDepartment(t *testing.T) {
	svc, _, _ := newTestAdminService()

	deptID := int64(99)
	_, err := svc.CreateStaff(context.Background(), &dto.ManualStaffRequest{
		Name:         "Anita Deshmukh",
		EmployeeID:   "EMP1023",
		Email:        "anita.d@mitaoe.ac.in",
		DepartmentID: &deptID,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUploadStaffCSV(t *testing.T) {
	svc, repo, emails := newTestAdminService()
	ctx := context.Background()

	csvData := strings.Join([]string{
		"name,employee_id,email,phone,specialization,min_weekly_hours,max_weekly_hours",
		"Anita Deshmukh,EMP1023,anita.d@mitaoe.ac.in,9876543210,Data Structures,8,16",
		"Rahul Patil,EMP1024,rahul.p@mitaoe.ac.in,9876543211,Thermodynamics,10,18",
		"Bad Hours,EMP1025,bad.h@mitaoe.ac.in,9876543212,Physics,eight,16",
	}, "\n")

	result, err := svc.UploadStaffCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 0, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "invalid min_weekly_hours")

	teacher, err := repo.GetByEmail(ctx, "rahul.p@mitaoe.ac.in")
	require.NoError(t, err)
	assert.Equal(t, 10, teacher.MinWeeklyHours)
	assert.Equal(t, 18, teacher.MaxWeeklyHours)
	assert.Len(t, emails.accountCreated, 2)

	// Re-uploading the same file skips the existing rows instead of failing
	result, err = svc.UploadStaffCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Skipped)
}

func TestUploadStaffCSVBadHeader(t *testing.T) {
	svc, _, _ := newTestAdminService()
	ctx := context.Background()

	_, err := svc.UploadStaffCSV(ctx, strings.NewReader("name,email\nAnita,anita.d@mitaoe.ac.in"))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.UploadStaffCSV(ctx, strings.NewReader(""))
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestStaffTemplateCSV(t *testing.T) {
	svc, _, _ := newTestAdminService()

	template := string(svc.StaffTemplateCSV())
	lines := strings.Split(strings.TrimSpace(template), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(staffCSVHeader, ","), lines[0])

	// The template round-trips through the importer
	result, err := svc.UploadStaffCSV(context.Background(), strings.NewReader(template))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Empty(t, result.Errors)
}

func TestApproveStaff(t *testing.T) {
	svc, repo, emails := newTestAdminService()
	ctx := context.Background()

	teacher := &models.Teacher{
		Name:       "Anita Deshmukh",
		EmployeeID: "EMP1023",
		Email:      "anita.d@mitaoe.ac.in",
		Role:       models.RoleTeacher,
	}
	require.NoError(t, repo.Create(ctx, teacher))

	// Approval requires a verified email
	err := svc.ApproveStaff(ctx, teacher.ID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	repo.teachers[teacher.ID].Verified = true
	require.NoError(t, svc.ApproveStaff(ctx, teacher.ID))

	updated, err := repo.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.True(t, updated.Approved)
	assert.Contains(t, emails.approvalSent, "anita.d@mitaoe.ac.in")

	err = svc.ApproveStaff(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestRejectStaff(t *testing.T) {
	svc, repo, emails := newTestAdminService()
	ctx := context.Background()

	teacher := &models.Teacher{
		Name:       "Anita Deshmukh",
		EmployeeID: "EMP1023",
		Email:      "anita.d@mitaoe.ac.in",
		Role:       models.RoleTeacher,
		Verified:   true,
	}
	require.NoError(t, repo.Create(ctx, teacher))

	require.NoError(t, svc.RejectStaff(ctx, teacher.ID))
	assert.Contains(t, emails.rejectionSent, "anita.d@mitaoe.ac.in")

	// The account is gone, the email can register again
	_, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestRejectStaffAlreadyApproved(t *testing.T) {
	svc, repo, _ := newTestAdminService()
	ctx := context.Background()

	teacher := &models.Teacher{
		Name:       "Anita Deshmukh",
		EmployeeID: "EMP1023",
		Email:      "anita.d@mitaoe.ac.in",
		Role:       models.RoleTeacher,
		Verified:   true,
		Approved:   true,
	}
	require.NoError(t, repo.Create(ctx, teacher))

	assert.ErrorIs(t, svc.RejectStaff(ctx, teacher.ID), apperrors.ErrBadRequest)
}

func TestListPendingStaff(t *testing.T) {
	svc, repo, _ := newTestAdminService()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Teacher{
		Name: "Pending", EmployeeID: "EMP1", Email: "pending@mitaoe.ac.in",
		Role: models.RoleTeacher, Verified: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.Teacher{
		Name: "Approved", EmployeeID: "EMP2", Email: "approved@mitaoe.ac.in",
		Role: models.RoleTeacher, Verified: true, Approved: true,
	}))
	require.NoError(t, repo.Create(ctx, &models.Teacher{
		Name: "Unverified", EmployeeID: "EMP3", Email: "unverified@mitaoe.ac.in",
		Role: models.RoleTeacher,
	}))

	pending, err := svc.ListPendingStaff(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "pending@mitaoe.ac.in", pending[0].Email)
}

func TestUpdateStaff(t *testing.T) {
	svc, repo, _ := newTestAdminService()
	ctx := context.Background()

	teacher := &models.Teacher{
		Name: "Anita Deshmukh", EmployeeID: "EMP1023", Email: "anita.d@mitaoe.ac.in",
		Role: models.RoleTeacher, Verified: true, Approved: true,
		MinWeeklyHours: 8, MaxWeeklyHours: 16,
	}
	require.NoError(t, repo.Create(ctx, teacher))

	deptID := int64(2)
	resp, err := svc.UpdateStaff(ctx, teacher.ID, &dto.AdminStaffUpdateRequest{
		Name:           "Anita S. Deshmukh",
		Phone:          "9876500000",
		Specialization: "Algorithms",
		MinWeeklyHours: 6,
		MaxWeeklyHours: 14,
		DepartmentID:   &deptID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Anita S. Deshmukh", resp.Name)
	assert.Equal(t, 6, resp.MinWeeklyHours)

	updated, err := repo.GetByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, "Algorithms", updated.Specialization)
	require.NotNil(t, updated.DepartmentID)
	assert.Equal(t, int64(2), *updated.DepartmentID)
}
