package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
)

// stubTeacherRepo covers only the lookup the middleware performs
type stubTeacherRepo struct {
	repositories.ITeacherRepository
	teachers map[string]*models.Teacher
}

func (s *stubTeacherRepo) GetByEmail(_ context.Context, email string) (*models.Teacher, error) {
	t, ok := s.teachers[email]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return t, nil
}

func newTestRouter() (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "samaysetu.test",
	})
	repo := &stubTeacherRepo{teachers: map[string]*models.Teacher{
		"anita.d@mitaoe.ac.in": {ID: 7, Email: "anita.d@mitaoe.ac.in", Role: models.RoleTeacher},
		"admin@mitaoe.ac.in":   {ID: 1, Email: "admin@mitaoe.ac.in", Role: models.RoleAdmin},
	}}
	m := NewAuthMiddleware(jwtService, repo)

	router := gin.New()
	router.Use(m.Authenticate())

	router.GET("/auth/open", func(c *gin.Context) {
		c.String(http.StatusOK, "open")
	})

	api := router.Group("/api", m.AuthRequired())
	api.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"teacherId": c.GetInt64(ContextTeacherID),
			"email":     c.GetString(ContextEmail),
			"role":      c.GetString(ContextRole),
		})
	})

	admin := router.Group("/admin", m.AuthRequired(), m.RoleRequired("ADMIN"))
	admin.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	return router, jwtService
}

func doRequest(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	router, jwtService := newTestRouter()

	token, err := jwtService.GenerateToken("anita.d@mitaoe.ac.in", "TEACHER")
	require.NoError(t, err)

	rec := doRequest(router, "/api/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anita.d@mitaoe.ac.in")
	assert.Contains(t, rec.Body.String(), `"teacherId":7`)
	assert.Contains(t, rec.Body.String(), "TEACHER")
}

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	router, jwtService := newTestRouter()

	rec := doRequest(router, "/api/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, "/api/whoami", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// A valid token for an account that no longer exists stays anonymous
	token, err := jwtService.GenerateToken("deleted@mitaoe.ac.in", "TEACHER")
	require.NoError(t, err)
	rec = doRequest(router, "/api/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsExpiredToken(t *testing.T) {
	router, _ := newTestRouter()

	expired := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    -time.Minute,
		TokenIssuer: "samaysetu.test",
	})
	token, err := expired.GenerateToken("anita.d@mitaoe.ac.in", "TEACHER")
	require.NoError(t, err)

	rec := doRequest(router, "/api/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRoleRequired(t *testing.T) {
	router, jwtService := newTestRouter()

	teacherToken, err := jwtService.GenerateToken("anita.d@mitaoe.ac.in", "TEACHER")
	require.NoError(t, err)
	adminToken, err := jwtService.GenerateToken("admin@mitaoe.ac.in", "ADMIN")
	require.NoError(t, err)

	rec := doRequest(router, "/admin/ping", "Bearer "+teacherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, "/admin/ping", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, "/admin/ping", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateSkipsAuthPaths(t *testing.T) {
	router, _ := newTestRouter()

	// Auth endpoints stay reachable even with a broken Authorization header
	rec := doRequest(router, "/auth/open", "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "open", rec.Body.String())
}
