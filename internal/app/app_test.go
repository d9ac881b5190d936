package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hivedesk/internal/config"
	"hivedesk/internal/logger"
)

type capturedMail struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *capturedMail) SendOTP(email, code, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[email] = code
	return nil
}

func (m *capturedMail) SendWelcomeEmail(string, string) error { return nil }

func (m *capturedMail) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	mail   *capturedMail
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		JWT:    config.JWTConfig{Secret: "test-secret", TTL: 7 * 24 * time.Hour, ExtendedTTL: 30 * 24 * time.Hour},
		OTP:    config.OTPConfig{TTL: 10 * time.Minute},
		Auth:   config.AuthConfig{BcryptCost: 4},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	mail := &capturedMail{codes: map[string]string{}}
	return &testServer{t: t, router: NewRouter(cfg, NewMemoryStores(), mail, logger.Nop()), mail: mail}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	code, out, _ := s.raw(method, path, token, &buf)
	return code, out
}

func (s *testServer) raw(method, path, token string, body io.Reader) (int, map[string]any, http.Header) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Header().Get("Content-Type") != "application/pdf" && w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out, w.Header()
}

// register runs send-otp and signup and returns a session token.
func (s *testServer) register(email string) string {
	s.t.Helper()
	code, _ := s.do(http.MethodPost, "/api/auth/send-otp", "", gin.H{"email": email, "purpose": "signup"})
	require.Equal(s.t, http.StatusOK, code)
	code, body := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "New User", "email": email, "birthday": "1990-05-17", "password": "secret1", "otp": s.mail.code(email),
	})
	require.Equal(s.t, http.StatusCreated, code, body)
	code, body = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": email, "password": "secret1"})
	require.Equal(s.t, http.StatusOK, code, body)
	return body["token"].(string)
}

func TestSignUpSignInMe(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/api/auth/send-otp", "", gin.H{"email": "new@example.com", "purpose": "signup"})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(http.MethodPost, "/api/auth/verify-otp", "", gin.H{"email": "new@example.com", "otp": s.mail.code("new@example.com")})
	require.Equal(t, http.StatusOK, code, body)

	code, body = s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "New User", "email": "new@example.com", "birthday": "1990-05-17",
		"password": "secret1", "otp": s.mail.code("new@example.com"),
	})
	require.Equal(t, http.StatusCreated, code, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, true, user["isVerified"])

	code, body = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "new@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	signedIn := body["user"].(map[string]any)
	assert.NotContains(t, signedIn, "otp")
	assert.NotContains(t, signedIn, "passwordHash")

	code, body = s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	me := body["user"].(map[string]any)
	assert.Equal(t, "new@example.com", me["email"])
	assert.Equal(t, true, me["isVerified"])
	assert.NotEmpty(t, me["lastLogin"])
	assert.NotEmpty(t, me["createdAt"])

	code, _ = s.do(http.MethodPost, "/api/auth/signout", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestSignInWithoutCredentialThenOTP(t *testing.T) {
	s := newTestServer(t)
	s.register("otp@example.com")

	code, body := s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "otp@example.com"})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotContains(t, body, "token")
	assert.Contains(t, body["message"], "OTP sent")

	code, body = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{
		"email": "otp@example.com", "otp": s.mail.code("otp@example.com"), "keepLoggedIn": true,
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.NotEmpty(t, body["token"])
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/api/auth/send-otp", "", gin.H{"email": "a@example.com", "purpose": "reset"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, _ = s.do(http.MethodPost, "/api/auth/send-otp", "", gin.H{"email": "nobody@example.com", "purpose": "signin"})
	assert.Equal(t, http.StatusNotFound, code)

	code, body = s.do(http.MethodPost, "/api/auth/verify-otp", "", gin.H{"email": "a@example.com", "otp": "12ab56"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "OTP must contain only numbers", body["message"])

	code, body = s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ghost", "email": "ghost@example.com", "birthday": "1990-01-01", "password": "secret1", "otp": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "No OTP found for this email. Please send OTP first.", body["message"])

	s.register("taken@example.com")
	code, _ = s.do(http.MethodPost, "/api/auth/send-otp", "", gin.H{"email": "taken@example.com", "purpose": "signup"})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = s.do(http.MethodPost, "/api/auth/signin", "", gin.H{"email": "taken@example.com", "password": "wrong12"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = s.do(http.MethodGet, "/api/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestNotesAndCategories(t *testing.T) {
	s := newTestServer(t)
	token := s.register("notes@example.com")

	code, body := s.do(http.MethodGet, "/api/categories", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	cats := body["categories"].([]any)
	require.Len(t, cats, 5)
	work := cats[len(cats)-1].(map[string]any)
	require.Equal(t, "Work", work["name"])
	workID := work["id"].(string)

	code, body = s.do(http.MethodPost, "/api/notes", token, gin.H{
		"title": "Release plan", "content": "ship the notes api", "category": workID, "tags": []string{" Go "}, "isPinned": true,
	})
	require.Equal(t, http.StatusCreated, code, body)
	note := body["note"].(map[string]any)
	noteID := note["id"].(string)
	assert.Equal(t, []any{"go"}, note["tags"])
	assert.Equal(t, "Work", note["category"].(map[string]any)["name"])

	code, body = s.do(http.MethodPost, "/api/categories", token, gin.H{"name": "Short", "color": "#FFF"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Color must be a valid hex color code", body["message"])

	code, body = s.do(http.MethodPost, "/api/notes", token, gin.H{"title": "x", "content": "y", "category": "bogus"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid category", body["message"])

	code, body = s.do(http.MethodGet, "/api/notes/search?q=release", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Len(t, body["notes"], 1)

	code, _ = s.do(http.MethodGet, "/api/notes/search", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = s.do(http.MethodGet, "/api/categories/stats", token, nil)
	require.Equal(t, http.StatusOK, code, body)
	stats := body["stats"].([]any)
	require.Len(t, stats, 1)
	assert.Equal(t, float64(1), stats[0].(map[string]any)["pinnedCount"])

	code, body = s.do(http.MethodDelete, "/api/categories/"+workID, token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body["message"], "It has 1 notes")

	code, _ = s.do(http.MethodGet, "/api/notes/"+noteID+"/export", token, nil)
	assert.Equal(t, http.StatusOK, code)

	other := s.register("other@example.com")
	code, _ = s.do(http.MethodGet, "/api/notes/"+noteID, other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodDelete, "/api/notes/"+noteID, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = s.do(http.MethodDelete, "/api/categories/"+workID, token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])

	code, body = s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Route not found", body["message"])
}

func TestHumanizeTTL(t *testing.T) {
	assert.Equal(t, "10 minutes", humanizeTTL(10*time.Minute))
	assert.Equal(t, "1 minute", humanizeTTL(time.Minute))
	assert.Equal(t, "30s", humanizeTTL(30*time.Second))
}

func TestAPIRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.Server.RateLimit = config.RateLimitConfig{Requests: 3, Window: 15 * time.Minute}
	})

	for i := 0; i < 3; i++ {
		code, _ := s.do(http.MethodGet, "/api/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	}
	code, body := s.do(http.MethodPost, "/api/auth/send-otp", "", gin.H{"email": "a@example.com", "purpose": "signup"})
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests from this IP, please try again later.", body["message"])

	code, _ = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAPISecurityHeadersAndBodyLimit(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.Server.MaxBodyBytes = 1024 })

	code, _, header := s.raw(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "nosniff", header.Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", header.Get("X-Frame-Options"))

	big := `{"email":"a@example.com","purpose":"signup","name":"` + strings.Repeat("a", 2048) + `"}`
	code, body, _ := s.raw(http.MethodPost, "/api/auth/send-otp", "", strings.NewReader(big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "Request body too large", body["message"])
}

func TestEmptySecretUsesRandomProcessSecret(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.JWT.Secret = "" })
	token := s.register("debug@example.com")

	code, _ := s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, code)

	// a token HMAC'd with an empty key is not accepted
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": "00000000-0000-0000-0000-000000000001",
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte{})
	require.NoError(t, err)
	code, _ = s.do(http.MethodGet, "/api/auth/me", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
