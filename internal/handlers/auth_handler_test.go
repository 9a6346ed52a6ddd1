package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JuggernautLabs/ContractStream/internal/services"
	"github.com/JuggernautLabs/ContractStream/internal/session"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func newAuthRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, *session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)
	sessions := session.NewStore(time.Hour)
	h := NewAuthHandler(services.NewUserService(db), sessions)

	r := gin.New()
	r.POST("/login", h.Login)
	r.GET("/check_login", h.CheckLogin)
	r.POST("/logout", h.Logout)
	return r, mock, sessions
}

func expectAuthSuccess(mock sqlmock.Sqlmock, username, password string, id uint) {
	mock.ExpectQuery(`SELECT id, username FROM users`).
		WithArgs(username, password).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(id, username))
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestLoginSetsCookieAndHeader(t *testing.T) {
	r, mock, _ := newAuthRouter(t)
	expectAuthSuccess(mock, "alice", "hunter2", 7)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	cookie := sessionCookie(t, resp)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, cookie.Value, resp.Header().Get(SessionHeader))
	assert.Contains(t, resp.Body.String(), `"username":"alice"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, mock, _ := newAuthRouter(t)
	mock.ExpectQuery(`SELECT id, username FROM users`).
		WithArgs("alice", "wrong").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}))

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCheckLoginAcceptsCookieOrHeader(t *testing.T) {
	r, mock, _ := newAuthRouter(t)
	expectAuthSuccess(mock, "alice", "hunter2", 7)

	loginReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"hunter2"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp := httptest.NewRecorder()
	r.ServeHTTP(loginResp, loginReq)
	require.Equal(t, http.StatusOK, loginResp.Code)
	token := sessionCookie(t, loginResp).Value

	byCookie := httptest.NewRequest(http.MethodGet, "/check_login", nil)
	byCookie.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, byCookie)
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"alice"`)

	byHeader := httptest.NewRequest(http.MethodGet, "/check_login", nil)
	byHeader.Header.Set(SessionHeader, token)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, byHeader)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestCheckLoginWithoutSession(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/check_login", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r, mock, _ := newAuthRouter(t)
	expectAuthSuccess(mock, "alice", "hunter2", 7)

	loginReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"alice","password":"hunter2"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp := httptest.NewRecorder()
	r.ServeHTTP(loginResp, loginReq)
	token := sessionCookie(t, loginResp).Value

	logout := httptest.NewRequest(http.MethodPost, "/logout", nil)
	logout.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, logout)
	require.Equal(t, http.StatusOK, resp.Code)

	check := httptest.NewRequest(http.MethodGet, "/check_login", nil)
	check.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, check)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
