package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/application/auth"
	"github.com/deskhive/deskhive/internal/application/listing"
	"github.com/deskhive/deskhive/internal/infrastructure/memory"
	"github.com/deskhive/deskhive/internal/infrastructure/security"
	"github.com/deskhive/deskhive/internal/transport/http/middleware"
	"github.com/deskhive/deskhive/internal/transport/http/response"
	"github.com/deskhive/deskhive/internal/transport/http/router"
)

// captureSender records dispatched reset codes instead of delivering them.
type captureSender struct {
	mu    sync.Mutex
	codes map[string]string // email -> last code
	fail  bool
}

func newCaptureSender() *captureSender {
	return &captureSender{codes: make(map[string]string)}
}

func (s *captureSender) SendResetCode(ctx context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return context.DeadlineExceeded
	}
	s.codes[email] = code
	return nil
}

func (s *captureSender) lastCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[email]
}

// testEnv wires the full HTTP stack on in-memory adapters: real router,
// real middleware, real signer, cheap bcrypt.
type testEnv struct {
	handler http.Handler
	users   *memory.UserRepo
	sender  *captureSender
	signer  *security.JWTSigner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memory.NewUserRepo()
	workspaces := memory.NewWorkspaceRepo()
	sender := newCaptureSender()
	signer := security.NewJWTSigner("test-secret", "deskhive-test")
	hasher := security.NewBcryptHasher(4) // min cost, tests only
	codes := security.NewResetCodeGenerator()

	authSvc := auth.NewService(users, hasher, signer, codes, sender, auth.Config{
		SessionTTL:   time.Hour,
		ResetCodeTTL: 15 * time.Minute,
	})
	listingSvc := listing.NewService(workspaces)

	h, err := router.New(router.Deps{
		Health:      NewHealthHandler(nil),
		Auth:        NewAuthHandler(authSvc, time.Hour, false),
		Users:       NewUserHandler(authSvc),
		Workspaces:  NewWorkspaceHandler(listingSvc),
		RequestIDMW: middleware.RequestID,
		AuthMW:      middleware.Auth(signer, false, response.WriteError),
		AdminMW:     middleware.RequireAdmin(response.WriteError),
	})
	if err != nil {
		t.Fatalf("router: %v", err)
	}

	return &testEnv{handler: h, users: users, sender: sender, signer: signer}
}

// do runs one request through the stack.
func (e *testEnv) do(t *testing.T, method, path string, body any, mutate ...func(*http.Request)) *http.Response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mutate {
		m(req)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr.Result()
}

func withCookie(tok string) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: tok})
	}
}

func withBearer(tok string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok)
	}
}

// register creates a user through the API and returns its id.
func (e *testEnv) register(t *testing.T, email, name, password string) string {
	t.Helper()

	res := e.do(t, http.MethodPost, "/api/register", map[string]string{
		"email": email, "name": name, "password": password,
	})
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: status %d", email, res.StatusCode)
	}

	var u struct {
		ID string `json:"id"`
	}
	mustReadJSON(t, res.Body, &u)
	return u.ID
}

// login returns the value of the session cookie.
func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()

	res := e.do(t, http.MethodPost, "/api/login", map[string]string{
		"email": email, "password": password,
	})
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, res.StatusCode)
	}

	c := readCookie(res, security.SessionCookieName)
	if c == nil || c.Value == "" {
		t.Fatalf("login %s: missing session cookie", email)
	}
	return c.Value
}

func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

func readCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
