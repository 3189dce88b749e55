package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/shizzytech/LinguaSync-AI/internal/api/dto"
	"github.com/shizzytech/LinguaSync-AI/internal/api/middleware"
	"github.com/shizzytech/LinguaSync-AI/internal/api/validation"
	"github.com/shizzytech/LinguaSync-AI/internal/core/repository"
	"github.com/shizzytech/LinguaSync-AI/internal/core/service"
	"github.com/shizzytech/LinguaSync-AI/internal/infrastructure/sessionstore"
	"github.com/shizzytech/LinguaSync-AI/internal/infrastructure/sqlstore"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testCookieName = "sessionId"

// testEnv holds all test dependencies
type testEnv struct {
	db       *sqlstore.DB
	router   *gin.Engine
	users    repository.UserRepository
	sessions repository.SessionRepository
	logHook  *test.Hook

	faultyUsers    *faultyUserRepo
	faultyWaitlist *faultyWaitlistRepo
	faultySessions *faultySessionRepo
}

// setupTestEnv wires the real handlers against a migrated sqlite database
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	require.NoError(t, validation.Register())

	db, err := sqlstore.New(sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "handler.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	userRepo := sqlstore.NewUserRepository(db)
	waitlistRepo := sqlstore.NewWaitlistRepository(db)
	sessionRepo, err := sqlstore.NewSessionRepository(ctx, db)
	require.NoError(t, err)

	faultyUsers := &faultyUserRepo{UserRepository: userRepo}
	faultyWaitlist := &faultyWaitlistRepo{WaitlistRepository: waitlistRepo}
	faultySessions := &faultySessionRepo{SessionRepository: sessionRepo}

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	store := sessionstore.New(faultySessions, &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, []byte("handler-test-hash-key"))
	store.SetLogger(log)

	authHandler := NewAuthHandler(service.NewAuthService(faultyUsers, bcrypt.MinCost, nil), store, log)
	waitlistHandler := NewWaitlistHandler(service.NewWaitlistService(faultyWaitlist, nil), log)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())

	auth := router.Group("/api/auth")
	auth.Use(middleware.SessionMiddleware(store, testCookieName, log))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	router.POST("/api/waitlist", waitlistHandler.Submit)
	router.GET("/api/waitlist", waitlistHandler.List)

	return &testEnv{
		db:       db,
		router:   router,
		users:    userRepo,
		sessions: sessionRepo,
		logHook:  hook,

		faultyUsers:    faultyUsers,
		faultyWaitlist: faultyWaitlist,
		faultySessions: faultySessions,
	}
}

// request performs a request with an optional JSON body and cookies
func (env *testEnv) request(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// register creates alice and returns her session cookie
func (env *testEnv) register(t *testing.T, email string) *http.Cookie {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username":        "alice",
		"email":           email,
		"password":        "secret123",
		"confirmPassword": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	return cookie
}

func (env *testEnv) countSessions(t *testing.T) int {
	t.Helper()

	var n int
	require.NoError(t, env.db.Get(&n, `SELECT COUNT(*) FROM "session"`))
	return n
}

// sessionCookie returns the session cookie set by the response, if any
func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func parseJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp T
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v\nBody: %s", err, w.Body.String())
	}
	return resp
}

// parseErrorResponse parses the response body into ErrorResponse
func parseErrorResponse(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	return parseJSON[dto.ErrorResponse](t, w)
}

// ptr is a helper to create a pointer to a value
func ptr[T any](v T) *T {
	return &v
}
