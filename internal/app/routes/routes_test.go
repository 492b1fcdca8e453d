package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhijeet-rane/SamaySetu/internal/app/controllers"
	"github.com/abhijeet-rane/SamaySetu/internal/app/models"
	"github.com/abhijeet-rane/SamaySetu/internal/app/repositories"
	"github.com/abhijeet-rane/SamaySetu/internal/app/services"
	"github.com/abhijeet-rane/SamaySetu/internal/middleware"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/apperrors"
	"github.com/abhijeet-rane/SamaySetu/internal/pkg/auth"
)

// routeTeacherRepo covers only the lookup the middleware and profile
// handler perform
type routeTeacherRepo struct {
	repositories.ITeacherRepository
	teachers map[string]*models.Teacher
}

func (r *routeTeacherRepo) GetByEmail(_ context.Context, email string) (*models.Teacher, error) {
	t, ok := r.teachers[email]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	return t, nil
}

func newRouterForTest() (*gin.Engine, *auth.JWTService) {
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "samaysetu.test",
	})
	repo := &routeTeacherRepo{teachers: map[string]*models.Teacher{
		"admin@mitaoe.ac.in":   {ID: 1, Email: "admin@mitaoe.ac.in", Role: models.RoleAdmin},
		"anita.d@mitaoe.ac.in": {ID: 2, Email: "anita.d@mitaoe.ac.in", Role: models.RoleTeacher},
	}}
	authMiddleware := middleware.NewAuthMiddleware(jwtService, repo)
	staffService := services.NewStaffService(repo, nil, zerolog.Nop())

	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(nil, "http://localhost:5173", zerolog.Nop()),
		controllers.NewStaffController(staffService, nil, zerolog.Nop()),
		controllers.NewAdminController(nil, zerolog.Nop()),
		controllers.NewDepartmentController(nil, zerolog.Nop()),
		authMiddleware,
	)
	return router, jwtService
}

func doRouteRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStaffRoutesRequireTeacherRole(t *testing.T) {
	router, jwtService := newRouterForTest()

	adminToken, err := jwtService.GenerateToken("admin@mitaoe.ac.in", "ADMIN")
	require.NoError(t, err)
	teacherToken, err := jwtService.GenerateToken("anita.d@mitaoe.ac.in", "TEACHER")
	require.NoError(t, err)

	// The staff surface belongs to teachers, an admin token is refused
	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/staff/profile"},
		{http.MethodPut, "/api/staff/profile"},
		{http.MethodPost, "/api/staff/change-password"},
	} {
		rec := doRouteRequest(router, route.method, route.path, adminToken)
		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s with admin token", route.method, route.path)

		rec = doRouteRequest(router, route.method, route.path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s anonymous", route.method, route.path)
	}

	rec := doRouteRequest(router, http.MethodGet, "/api/staff/profile", teacherToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "anita.d@mitaoe.ac.in")
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	router, jwtService := newRouterForTest()

	teacherToken, err := jwtService.GenerateToken("anita.d@mitaoe.ac.in", "TEACHER")
	require.NoError(t, err)

	rec := doRouteRequest(router, http.MethodGet, "/admin/staff", teacherToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRouteRequest(router, http.MethodGet, "/admin/staff", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := newRouterForTest()

	rec := doRouteRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
