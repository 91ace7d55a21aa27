package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SynilogicTeam/kundliGen/internal/auth"
	"github.com/SynilogicTeam/kundliGen/internal/credentials"
	"github.com/SynilogicTeam/kundliGen/internal/db"
	"github.com/SynilogicTeam/kundliGen/internal/middleware"
	"github.com/SynilogicTeam/kundliGen/internal/models"
	"github.com/SynilogicTeam/kundliGen/internal/store"
)

const testSecret = "handler-test-secret"

type fakeMailer struct {
	sent int
	fail bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent++
	return nil
}

type env struct {
	router *gin.Engine
	users  *store.Users
	admins *store.Admins
	mailer *fakeMailer
	svc    *auth.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database))

	users := store.NewUsers(database)
	admins := store.NewAdmins(database)
	configs := store.NewConfigs(database)
	reports := store.NewReports(database)
	mailer := &fakeMailer{}

	svc := auth.New(auth.Deps{
		Users:  users,
		Admins: admins,
		Mailer: mailer,
		Config: configs,
		Secret: testSecret,
	})

	authHandler := NewAuthHandler(svc, users)
	adminHandler := NewAdminHandler(svc, admins)
	usersHandler := NewUsersHandler(users)
	configHandler := NewConfigHandler(configs)
	reportHandler := NewReportHandler(reports)

	userAuth := middleware.AuthRequired(testSecret, users)
	adminAuth := middleware.AdminRequired(testSecret, admins)

	router := gin.New()
	api := router.Group("/api")
	userAPI := api.Group("/users")
	userAPI.POST("/register", authHandler.Register)
	userAPI.POST("/login", authHandler.Login)
	userAPI.POST("/verify-registration-otp", authHandler.VerifyRegistrationOTP)
	userAPI.POST("/forgot-password", authHandler.ForgotPassword)
	userAPI.POST("/verify-reset-otp", authHandler.VerifyResetOTP)
	userAPI.POST("/reset-password", authHandler.ResetPassword)
	userAPI.POST("/change-password", userAuth, authHandler.ChangePassword)
	userAPI.GET("/profile", userAuth, authHandler.GetProfile)

	userAPI.PUT("/:id", adminAuth, usersHandler.Update)

	adminAPI := api.Group("/auth/admin")
	adminAPI.POST("/login", adminHandler.Login)
	adminAPI.POST("/logout", adminAuth, adminHandler.Logout)

	api.GET("/config", adminAuth, configHandler.Get)
	api.GET("/reports", reportHandler.ListActive)
	api.POST("/reports", adminAuth, reportHandler.Create)

	return &env{router: router, users: users, admins: admins, mailer: mailer, svc: svc}
}

func (e *env) do(t *testing.T, method, path string, body gin.H, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) registrationCode(t *testing.T, email string) string {
	t.Helper()
	user, err := e.users.FindByEmail(email)
	require.NoError(t, err)
	require.NotNil(t, user.RegistrationOTP)
	return *user.RegistrationOTP
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestRegisterAndVerifyOverHTTP(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/register", gin.H{
		"name": "Asha", "email": "a@x.com", "phone": "555", "password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, e.mailer.sent)

	// duplicate registration
	rec = e.do(t, http.MethodPost, "/api/users/register", gin.H{
		"name": "Asha", "email": "a@x.com", "phone": "556", "password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// wrong code
	rec = e.do(t, http.MethodPost, "/api/users/verify-registration-otp", gin.H{
		"email": "a@x.com", "otp": "0000",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/verify-registration-otp", gin.H{
		"email": "a@x.com", "otp": e.registrationCode(t, "a@x.com"),
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	// the returned token opens protected routes
	rec = e.do(t, http.MethodGet, "/api/users/profile", nil, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/register", gin.H{
		"name": "Asha", "email": "not-an-email", "password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/register", gin.H{
		"name": "Asha", "email": "a@x.com", "password": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "password below 6 chars is rejected")
	assert.Equal(t, 0, e.mailer.sent)
}

func TestRegisterEmailFailure(t *testing.T) {
	e := newEnv(t)
	e.mailer.fail = true

	rec := e.do(t, http.MethodPost, "/api/users/register", gin.H{
		"name": "Asha", "email": "a@x.com", "password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	_, err := e.users.FindByEmail("a@x.com")
	assert.Error(t, err, "rolled back")
}

func TestLoginStatuses(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodPost, "/api/users/login", gin.H{"email": "a@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	e.do(t, http.MethodPost, "/api/users/register", gin.H{"name": "Asha", "email": "a@x.com", "password": "secret1"}, nil)
	e.do(t, http.MethodPost, "/api/users/verify-registration-otp", gin.H{"email": "a@x.com", "otp": e.registrationCode(t, "a@x.com")}, nil)

	rec = e.do(t, http.MethodPost, "/api/users/login", gin.H{"email": "a@x.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/login", gin.H{"email": "a@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordOverHTTP(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/users/register", gin.H{"name": "Asha", "email": "a@x.com", "password": "secret1"}, nil)
	e.do(t, http.MethodPost, "/api/users/verify-registration-otp", gin.H{"email": "a@x.com", "otp": e.registrationCode(t, "a@x.com")}, nil)

	rec := e.do(t, http.MethodPost, "/api/users/forgot-password", gin.H{"email": "a@x.com"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := e.users.FindByEmail("a@x.com")
	require.NoError(t, err)
	code := *user.ResetOTP

	// step 2: verify without consuming
	rec = e.do(t, http.MethodPost, "/api/users/verify-reset-otp", gin.H{"email": "a@x.com", "otp": code}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// step 3: reset consumes
	rec = e.do(t, http.MethodPost, "/api/users/reset-password", gin.H{"email": "a@x.com", "otp": code, "newPassword": "newpass1"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/reset-password", gin.H{"email": "a@x.com", "otp": code, "newPassword": "again1"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "consumed code cannot be replayed")

	rec = e.do(t, http.MethodPost, "/api/users/login", gin.H{"email": "a@x.com", "password": "newpass1"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordValidationMessages(t *testing.T) {
	e := newEnv(t)

	// a malformed email must not be reported as a password problem
	rec := e.do(t, http.MethodPost, "/api/users/reset-password", gin.H{
		"email": "not-an-email", "otp": "1234", "newPassword": "newpass1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid input")

	rec = e.do(t, http.MethodPost, "/api/users/reset-password", gin.H{
		"email": "a@x.com", "otp": "1234", "newPassword": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password must be at least 6 characters long")
}

func TestAdminDeactivatesUser(t *testing.T) {
	e := newEnv(t)
	seedAdmin(t, e)

	e.do(t, http.MethodPost, "/api/users/register", gin.H{"name": "Asha", "email": "a@x.com", "password": "secret1"}, nil)
	e.do(t, http.MethodPost, "/api/users/verify-registration-otp", gin.H{"email": "a@x.com", "otp": e.registrationCode(t, "a@x.com")}, nil)

	rec := e.do(t, http.MethodPost, "/api/auth/admin/login", gin.H{"email": "admin@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	user, err := e.users.FindByEmail("a@x.com")
	require.NoError(t, err)

	// anonymous callers cannot touch the flag
	rec = e.do(t, http.MethodPut, "/api/users/"+user.ID.String(), gin.H{"isActive": false}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPut, "/api/users/"+user.ID.String(), gin.H{"isActive": false}, bearer(resp.Data.Token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/login", gin.H{"email": "a@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "deactivated users cannot log in")

	rec = e.do(t, http.MethodPut, "/api/users/"+user.ID.String(), gin.H{"isActive": true}, bearer(resp.Data.Token))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/users/login", gin.H{"email": "a@x.com", "password": "secret1"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminUpdateUserRejectsTakenEmail(t *testing.T) {
	e := newEnv(t)
	seedAdmin(t, e)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		e.do(t, http.MethodPost, "/api/users/register", gin.H{"name": "U", "email": email, "password": "secret1"}, nil)
		e.do(t, http.MethodPost, "/api/users/verify-registration-otp", gin.H{"email": email, "otp": e.registrationCode(t, email)}, nil)
	}

	rec := e.do(t, http.MethodPost, "/api/auth/admin/login", gin.H{"email": "admin@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	user, err := e.users.FindByEmail("b@x.com")
	require.NoError(t, err)

	rec = e.do(t, http.MethodPut, "/api/users/"+user.ID.String(), gin.H{"email": "a@x.com"}, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func seedAdmin(t *testing.T, e *env) {
	t.Helper()
	hash, err := credentials.HashPassword("secret1")
	require.NoError(t, err)
	require.NoError(t, e.admins.Create(&models.Admin{
		Username: "root", Email: "admin@x.com", PasswordHash: hash, IsActive: true,
	}))
}

func TestAdminLoginLogoutOverHTTP(t *testing.T) {
	e := newEnv(t)
	seedAdmin(t, e)

	rec := e.do(t, http.MethodPost, "/api/auth/admin/login", gin.H{"email": "admin@x.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/admin/login", gin.H{"email": "admin@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)

	// admin token opens admin routes, and user routes reject it
	rec = e.do(t, http.MethodGet, "/api/config", nil, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/users/profile", nil, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/admin/logout", nil, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusOK, rec.Code)

	admin, err := e.admins.FindByEmail("admin@x.com")
	require.NoError(t, err)
	assert.Empty(t, admin.Token)
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/api/users/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/users/profile", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/config", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReportRoutes(t *testing.T) {
	e := newEnv(t)
	seedAdmin(t, e)

	rec := e.do(t, http.MethodPost, "/api/auth/admin/login", gin.H{"email": "admin@x.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// anonymous create is rejected
	rec = e.do(t, http.MethodPost, "/api/reports", gin.H{
		"name": "Basic Kundli", "type": "Basic", "price": 199.0,
		"description": "d", "divineReportType": "basic",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/reports", gin.H{
		"name": "Basic Kundli", "type": "Basic", "price": 199.0,
		"description": "d", "divineReportType": "basic",
	}, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// duplicate name
	rec = e.do(t, http.MethodPost, "/api/reports", gin.H{
		"name": "Basic Kundli", "type": "Basic", "price": 299.0,
		"description": "d", "divineReportType": "basic",
	}, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// invalid type
	rec = e.do(t, http.MethodPost, "/api/reports", gin.H{
		"name": "Weird", "type": "Weird", "price": 10.0,
		"description": "d", "divineReportType": "basic",
	}, bearer(resp.Data.Token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/reports", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Basic Kundli")
}
