package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"teamspend/config"
	"teamspend/middleware"
	"teamspend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock, func() { sqlDB.Close() }
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

// setCurrentUser mimics the auth middleware for handler tests.
func setCurrentUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
		c.Next()
	}
}

func mockUserRow(id uint, email, passwordHash string, role models.Role, approved bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "surname", "email", "password_hash", "role", "team_id", "is_approved"}).
		AddRow(id, "Test", "User", email, passwordHash, string(role), nil, approved)
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("john@example.com").
		WillReturnRows(sqlmock.NewRows([]string{}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/register", NewAuthHandler(db, testConfig()).Register)

	body := `{"name":"John","surname":"Doe","email":"john@example.com","password":"secret"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "User created successfully", resp["message"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("taken@example.com").
		WillReturnRows(mockUserRow(1, "taken@example.com", "x", models.RoleUser, true))

	router := gin.New()
	router.POST("/register", NewAuthHandler(db, testConfig()).Register)

	body := `{"name":"John","surname":"Doe","email":"taken@example.com","password":"secret"}`
	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 409, w.Code)
	assert.Contains(t, w.Body.String(), "Email already registered")
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", NewAuthHandler(db, testConfig()).Register)

	req := httptest.NewRequest("POST", "/register", bytes.NewBufferString(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
}

func TestAuthHandler_Token(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	middleware.InitJWT(cfg)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("john@example.com").
		WillReturnRows(mockUserRow(1, "john@example.com", string(hash), models.RoleUser, true))

	router := gin.New()
	router.POST("/token", NewAuthHandler(db, cfg).Token)

	form := url.Values{"username": {"john@example.com"}, "password": {"secret"}}
	req := httptest.NewRequest("POST", "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "user", resp.Role)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := middleware.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", claims.Subject)
}

func TestAuthHandler_Token_WrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("john@example.com").
		WillReturnRows(mockUserRow(1, "john@example.com", string(hash), models.RoleUser, true))

	router := gin.New()
	router.POST("/token", NewAuthHandler(db, testConfig()).Token)

	form := url.Values{"username": {"john@example.com"}, "password": {"nope"}}
	req := httptest.NewRequest("POST", "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Incorrect password")
}

func TestAuthHandler_Token_UnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.POST("/token", NewAuthHandler(db, testConfig()).Token)

	form := url.Values{"username": {"ghost@example.com"}, "password": {"x"}}
	req := httptest.NewRequest("POST", "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "User not found")
}

func TestAuthHandler_ResetPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("john@example.com").
		WillReturnRows(mockUserRow(1, "john@example.com", "old-hash", models.RoleUser, true))
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `users`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/reset-password", NewAuthHandler(db, testConfig()).ResetPassword)

	req := httptest.NewRequest("POST", "/reset-password", bytes.NewBufferString(`{"email":"john@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, data["password"], 12)
}

func TestAuthHandler_CheckToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	middleware.InitJWT(cfg)

	token, err := middleware.GenerateToken("john@example.com", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("john@example.com").
		WillReturnRows(mockUserRow(1, "john@example.com", "x", models.RoleManager, true))

	router := gin.New()
	router.POST("/check-token", NewAuthHandler(db, cfg).CheckToken)

	body, _ := json.Marshal(gin.H{"token": token})
	req := httptest.NewRequest("POST", "/check-token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "manager", resp["role"])
	assert.Equal(t, true, resp["is_approved"])
}

func TestAuthHandler_CheckToken_Invalid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, _, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	middleware.InitJWT(cfg)

	router := gin.New()
	router.POST("/check-token", NewAuthHandler(db, cfg).CheckToken)

	req := httptest.NewRequest("POST", "/check-token", bytes.NewBufferString(`{"token":"garbage"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	middleware.InitJWT(cfg)

	token, err := middleware.GenerateToken("john@example.com", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("john@example.com").
		WillReturnRows(mockUserRow(1, "john@example.com", "x", models.RoleUser, true))

	router := gin.New()
	router.POST("/refresh-token", NewAuthHandler(db, cfg).RefreshToken)

	body, _ := json.Marshal(gin.H{"token": token})
	req := httptest.NewRequest("POST", "/refresh-token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access_token"])
	assert.Equal(t, "bearer", resp["token_type"])
}
