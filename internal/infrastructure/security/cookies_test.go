package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSetSessionToken_Attributes(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetSessionToken(rr, "tok123", time.Hour, false)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName {
		t.Fatalf("expected name %q, got %q", SessionCookieName, c.Name)
	}
	if c.Value != "tok123" {
		t.Fatalf("expected value tok123, got %q", c.Value)
	}
	if c.Path != "/" {
		t.Fatalf("expected path /, got %q", c.Path)
	}
	if !c.HttpOnly {
		t.Fatalf("expected HttpOnly")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite=Lax, got %v", c.SameSite)
	}
	if c.MaxAge != 3600 {
		t.Fatalf("expected MaxAge 3600, got %d", c.MaxAge)
	}
	if c.Secure {
		t.Fatalf("expected Secure unset in non-secure mode")
	}
}

func TestSetSessionToken_SecureMode(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	SetSessionToken(rr, "tok123", time.Hour, true)

	c := rr.Result().Cookies()[0]
	if !c.Secure {
		t.Fatalf("expected Secure cookie")
	}
}

func TestClearSessionToken(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	ClearSessionToken(rr, false)

	cookies := rr.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != SessionCookieName {
		t.Fatalf("expected name %q, got %q", SessionCookieName, c.Name)
	}
	if c.Value != "" {
		t.Fatalf("expected empty value, got %q", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Fatalf("expected negative MaxAge, got %d", c.MaxAge)
	}
}

func TestReadSessionToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := ReadSessionToken(req); got != "" {
		t.Fatalf("expected empty token for bare request, got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok123"})
	if got := ReadSessionToken(req); got != "tok123" {
		t.Fatalf("expected tok123, got %q", got)
	}
}
