package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/models/dto"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
)

// fakeTeacherRepo is an in-memory ITeacherRepository for service tests
type fakeTeacherRepo struct {
	teachers map[int64]*models.Teacher
	nextID   int64
}

func newFakeTeacherRepo() *fakeTeacherRepo {
	return &fakeTeacherRepo{teachers: make(map[int64]*models.Teacher), nextID: 1}
}

func (r *fakeTeacherRepo) Create(_ context.Context, teacher *models.Teacher) error {
	for _, t := range r.teachers {
		if t.Email == teacher.Email || t.EmployeeID == teacher.EmployeeID {
			return apperrors.ErrDuplicateAccount
		}
	}
	teacher.ID = r.nextID
	teacher.CreatedAt = time.Now()
	teacher.UpdatedAt = time.Now()
	r.nextID++
	copied := *teacher
	r.teachers[teacher.ID] = &copied
	return nil
}

func (r *fakeTeacherRepo) GetByID(_ context.Context, id int64) (*models.Teacher, error) {
	t, ok := r.teachers[id]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTeacherRepo) GetByEmail(_ context.Context, email string) (*models.Teacher, error) {
	for _, t := range r.teachers {
		if t.Email == email {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (r *fakeTeacherRepo) GetByVerificationToken(_ context.Context, token string) (*models.Teacher, error) {
	for _, t := range r.teachers {
		if t.EmailVerificationToken != nil && *t.EmailVerificationToken == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (r *fakeTeacherRepo) GetByResetToken(_ context.Context, token string) (*models.Teacher, error) {
	for _, t := range r.teachers {
		if t.ResetToken != nil && *t.ResetToken == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAccountNotFound
}

func (r *fakeTeacherRepo) Update(_ context.Context, teacher *models.Teacher) error {
	t, ok := r.teachers[teacher.ID]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	t.Name = teacher.Name
	t.Phone = teacher.Phone
	t.Specialization = teacher.Specialization
	t.Active = teacher.Active
	t.MinWeeklyHours = teacher.MinWeeklyHours
	t.MaxWeeklyHours = teacher.MaxWeeklyHours
	t.DepartmentID = teacher.DepartmentID
	return nil
}

func (r *fakeTeacherRepo) UpdatePassword(_ context.Context, id int64, hashedPassword string, firstLogin bool) error {
	t, ok := r.teachers[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	t.Password = hashedPassword
	t.FirstLogin = firstLogin
	t.ResetToken = nil
	t.ResetTokenExpiry = nil
	return nil
}

func (r *fakeTeacherRepo) SetVerificationToken(_ context.Context, id int64, token string, expiry time.Time) error {
	t, ok := r.teachers[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	t.EmailVerificationToken = &token
	t.VerificationExpiry = &expiry
	return nil
}

func (r *fakeTeacherRepo) MarkVerified(_ context.Context, id int64) error {
	t, ok := r.teachers[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	t.Verified = true
	t.EmailVerificationToken = nil
	t.VerificationExpiry = nil
	return nil
}

func (r *fakeTeacherRepo) SetApproved(_ context.Context, id int64, approved bool) error {
	t, ok := r.teachers[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	t.Approved = approved
	return nil
}

func (r *fakeTeacherRepo) SetResetToken(_ context.Context, id int64, token string, expiry time.Time) error {
	t, ok := r.teachers[id]
	if !ok {
		return apperrors.ErrAccountNotFound
	}
	t.ResetToken = &token
	t.ResetTokenExpiry = &expiry
	return nil
}

func (r *fakeTeacherRepo) GetAllByRole(_ context.Context, role models.RoleType) ([]*models.Teacher, error) {
	var result []*models.Teacher
	for _, t := range r.teachers {
		if t.Role == role {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeTeacherRepo) GetPendingApproval(_ context.Context) ([]*models.Teacher, error) {
	var result []*models.Teacher
	for _, t := range r.teachers {
		if t.Role == models.RoleTeacher && t.Verified && !t.Approved {
			copied := *t
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeTeacherRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.teachers[id]; !ok {
		return apperrors.ErrAccountNotFound
	}
	delete(r.teachers, id)
	return nil
}

func (r *fakeTeacherRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, t := range r.teachers {
		if t.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fakeEmailService records sent emails instead of delivering them
type fakeEmailService struct {
	verificationTokens map[string]string
	resetTokens        map[string]string
	welcomeSent        []string
	approvalSent       []string
	rejectionSent      []string
	accountCreated     []string
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{
		verificationTokens: make(map[string]string),
		resetTokens:        make(map[string]string),
	}
}

func (f *fakeEmailService) SendVerificationEmail(toEmail, _, token string) error {
	f.verificationTokens[toEmail] = token
	return nil
}

func (f *fakeEmailService) SendWelcomeEmail(toEmail, _ string) error {
	f.welcomeSent = append(f.welcomeSent, toEmail)
	return nil
}

func (f *fakeEmailService) SendPasswordResetEmail(toEmail, _, token string) error {
	f.resetTokens[toEmail] = token
	return nil
}

func (f *fakeEmailService) SendApprovalEmail(toEmail, _ string) error {
	f.approvalSent = append(f.approvalSent, toEmail)
	return nil
}

func (f *fakeEmailService) SendRejectionEmail(toEmail, _ string) error {
	f.rejectionSent = append(f.rejectionSent, toEmail)
	return nil
}

func (f *fakeEmailService) SendAccountCreatedEmail(toEmail, _, _ string) error {
	f.accountCreated = append(f.accountCreated, toEmail)
	return nil
}

func newTestAuthService() (*AuthService, *fakeTeacherRepo, *fakeEmailService) {
	repo := newFakeTeacherRepo()
	emails := newFakeEmailService()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "samaysetu.test",
	})
	return NewAuthService(repo, jwtService, emails, zerolog.Nop()), repo, emails
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:           "Anita Deshmukh",
		EmployeeID:     "EMP1023",
		Email:          "anita.d@mitaoe.ac.in",
		Phone:          "9876543210",
		Specialization: "Data Structures",
		Password:       "secret123",
		MinWeeklyHours: 8,
		MaxWeeklyHours: 16,
	}
}

func TestRegisterAndVerifyFlow(t *testing.T) {
	svc, repo, emails := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))

	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	assert.True(t, teacher.Active)
	assert.False(t, teacher.Verified)
	assert.False(t, teacher.Approved)
	assert.True(t, teacher.FirstLogin)
	assert.Equal(t, models.RoleTeacher, teacher.Role)
	require.NotNil(t, teacher.EmailVerificationToken)

	token := emails.verificationTokens["anita.d@mitaoe.ac.in"]
	require.NotEmpty(t, token)
	assert.Equal(t, *teacher.EmailVerificationToken, token)

	// Login is blocked before verification
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotActive)

	// Bad token is rejected
	err = svc.VerifyEmail(ctx, "no-such-token")
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)

	require.NoError(t, svc.VerifyEmail(ctx, token))
	assert.Contains(t, emails.welcomeSent, "anita.d@mitaoe.ac.in")

	// The token is single use
	err = svc.VerifyEmail(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)

	// Login is still blocked until an admin approves
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotApproved)

	require.NoError(t, repo.SetApproved(ctx, teacher.ID, true))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "TEACHER", resp.Role)
	assert.True(t, resp.FirstLogin)

	require.NoError(t, svc.ChangeFirstLoginPassword(ctx, &dto.ChangeFirstPasswordRequest{
		Email:       "anita.d@mitaoe.ac.in",
		NewPassword: "chosen-one1",
	}))

	resp, err = svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "chosen-one1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.FirstLogin)
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))

	err := svc.Register(ctx, registerRequest())
	assert.ErrorIs(t, err, apperrors.ErrDuplicateAccount)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _, _ := newTestAuthService()

	req := registerRequest()
	req.Password = "short1"
	assert.ErrorIs(t, svc.Register(context.Background(), req), apperrors.ErrValidationFailed)

	req = registerRequest()
	req.Password = "12345678"
	assert.ErrorIs(t, svc.Register(context.Background(), req), apperrors.ErrValidationFailed)

	req = registerRequest()
	req.Password = "onlyletters"
	assert.ErrorIs(t, svc.Register(context.Background(), req), apperrors.ErrValidationFailed)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, repo, emails := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))
	token := emails.verificationTokens["anita.d@mitaoe.ac.in"]

	// Push the expiry into the past
	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	repo.teachers[teacher.ID].VerificationExpiry = &expired

	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), apperrors.ErrInvalidOrExpiredToken)
}

func TestResendVerification(t *testing.T) {
	svc, _, emails := newTestAuthService()
	ctx := context.Background()

	// Unknown emails still get a success so the endpoint can't probe accounts
	require.NoError(t, svc.ResendVerification(ctx, "nobody@mitaoe.ac.in"))
	assert.Empty(t, emails.verificationTokens)

	require.NoError(t, svc.Register(ctx, registerRequest()))
	first := emails.verificationTokens["anita.d@mitaoe.ac.in"]
	require.NotEmpty(t, first)

	require.NoError(t, svc.ResendVerification(ctx, "anita.d@mitaoe.ac.in"))
	second := emails.verificationTokens["anita.d@mitaoe.ac.in"]
	require.NotEqual(t, first, second)

	// Only the latest token is honored
	assert.ErrorIs(t, svc.VerifyEmail(ctx, first), apperrors.ErrInvalidOrExpiredToken)
	require.NoError(t, svc.VerifyEmail(ctx, second))

	// A verified account keeps its state, no further mail is sent
	emails.verificationTokens = map[string]string{}
	require.NoError(t, svc.ResendVerification(ctx, "anita.d@mitaoe.ac.in"))
	assert.Empty(t, emails.verificationTokens)
}

func TestLoginUnknownAndWrongPassword(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	// Account status is reported before credentials are checked
	_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@mitaoe.ac.in", Password: "whatever1"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)

	require.NoError(t, svc.Register(ctx, registerRequest()))
	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	repo.teachers[teacher.ID].Verified = true
	repo.teachers[teacher.ID].Approved = true

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))
	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	repo.teachers[teacher.ID].Verified = true
	repo.teachers[teacher.ID].Approved = true
	repo.teachers[teacher.ID].Active = false

	// A disabled account is rejected even with the correct password
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountNotActive)
}

func TestAdminSkipsFirstLoginGate(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	hash, err := auth.HashPassword("admin-pass1")
	require.NoError(t, err)
	admin := &models.Teacher{
		Name:       "System Administrator",
		EmployeeID: "ADMIN001",
		Email:      "admin@mitaoe.ac.in",
		Password:   hash,
		Role:       models.RoleAdmin,
		Active:     true,
		Verified:   true,
		Approved:   true,
		FirstLogin: true,
	}
	require.NoError(t, repo.Create(ctx, admin))

	// firstLogin is never reported for admin accounts
	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "admin@mitaoe.ac.in", Password: "admin-pass1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ADMIN", resp.Role)
	assert.False(t, resp.FirstLogin)
}

func TestFirstLoginFlow(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	hash, err := auth.HashPassword("mitaoe@123")
	require.NoError(t, err)
	teacher := &models.Teacher{
		Name:       "Anita Deshmukh",
		EmployeeID: "EMP1023",
		Email:      "anita.d@mitaoe.ac.in",
		Password:   hash,
		Role:       models.RoleTeacher,
		Active:     true,
		Verified:   true,
		Approved:   true,
		FirstLogin: true,
	}
	require.NoError(t, repo.Create(ctx, teacher))

	// Login flags the assigned password so the client forces a change
	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "mitaoe@123"})
	require.NoError(t, err)
	assert.True(t, resp.FirstLogin)
	assert.NotEmpty(t, resp.Token)

	require.NoError(t, svc.ChangeFirstLoginPassword(ctx, &dto.ChangeFirstPasswordRequest{
		Email:       "anita.d@mitaoe.ac.in",
		NewPassword: "brandnew1",
	}))

	// The gate is lifted for subsequent logins
	resp, err = svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "brandnew1"})
	require.NoError(t, err)
	assert.False(t, resp.FirstLogin)
	assert.NotEmpty(t, resp.Token)

	// A second forced change is refused
	err = svc.ChangeFirstLoginPassword(ctx, &dto.ChangeFirstPasswordRequest{
		Email:       "anita.d@mitaoe.ac.in",
		NewPassword: "another-one1",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFirstLogin)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, emails := newTestAuthService()

	// Unknown emails still get a success so the endpoint can't probe accounts
	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@mitaoe.ac.in"))
	assert.Empty(t, emails.resetTokens)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, repo, emails := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))
	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	repo.teachers[teacher.ID].Verified = true
	repo.teachers[teacher.ID].Approved = true

	require.NoError(t, svc.ForgotPassword(ctx, "anita.d@mitaoe.ac.in"))
	token := emails.resetTokens["anita.d@mitaoe.ac.in"]
	require.NotEmpty(t, token)

	require.NoError(t, svc.ValidateResetToken(ctx, token))
	assert.ErrorIs(t, svc.ValidateResetToken(ctx, "no-such-token"), apperrors.ErrInvalidOrExpiredToken)

	require.NoError(t, svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "afterreset1"}))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "afterreset1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// Resetting a password does not lift the first-login gate
	assert.True(t, repo.teachers[teacher.ID].FirstLogin)
	assert.True(t, resp.FirstLogin)

	// The reset token is single use
	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "again-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, repo, emails := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))
	require.NoError(t, svc.ForgotPassword(ctx, "anita.d@mitaoe.ac.in"))
	token := emails.resetTokens["anita.d@mitaoe.ac.in"]
	require.NotEmpty(t, token)

	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	expired := time.Now().Add(-time.Minute)
	repo.teachers[teacher.ID].ResetTokenExpiry = &expired

	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{Token: token, NewPassword: "afterreset1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrExpiredToken)
}

func TestForgotPasswordReplacesPreviousToken(t *testing.T) {
	svc, _, emails := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))

	require.NoError(t, svc.ForgotPassword(ctx, "anita.d@mitaoe.ac.in"))
	first := emails.resetTokens["anita.d@mitaoe.ac.in"]

	require.NoError(t, svc.ForgotPassword(ctx, "anita.d@mitaoe.ac.in"))
	second := emails.resetTokens["anita.d@mitaoe.ac.in"]
	require.NotEqual(t, first, second)

	// Only the latest token is honored
	assert.ErrorIs(t, svc.ValidateResetToken(ctx, first), apperrors.ErrInvalidOrExpiredToken)
	assert.NoError(t, svc.ValidateResetToken(ctx, second))
}

func TestChangePassword(t *testing.T) {
	svc, repo, _ := newTestAuthService()
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registerRequest()))
	teacher, err := repo.GetByEmail(ctx, "anita.d@mitaoe.ac.in")
	require.NoError(t, err)
	repo.teachers[teacher.ID].Verified = true
	repo.teachers[teacher.ID].Approved = true

	err = svc.ChangePassword(ctx, teacher.ID, &dto.ChangePasswordRequest{
		OldPassword:     "wrong-pass1",
		NewPassword:     "changed123",
		ConfirmPassword: "changed123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, teacher.ID, &dto.ChangePasswordRequest{
		OldPassword:     "secret123",
		NewPassword:     "changed123",
		ConfirmPassword: "changed123",
	}))

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "anita.d@mitaoe.ac.in", Password: "changed123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// A voluntary change does not lift the first-login gate
	assert.True(t, repo.teachers[teacher.ID].FirstLogin)
}
