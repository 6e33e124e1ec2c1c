package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/deskhive/deskhive/internal/domain"
)

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if !domain.Is(err, code) {
		t.Fatalf("expected domain code %q, got %v", code, err)
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := RegisterRequest{Email: "a@b.c", Name: "alice", Password: "pw"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	missing := RegisterRequest{Email: "a@b.c", Password: "pw"}
	requireDomainCode(t, missing.Validate(), "missing_field")

	badEmail := RegisterRequest{Email: "not-an-email", Name: "alice", Password: "pw"}
	requireDomainCode(t, badEmail.Validate(), "invalid_field")
}

func TestLoginRequest_Validate_ReportsFieldName(t *testing.T) {
	t.Parallel()

	req := LoginRequest{Email: "a@b.c"}
	err := req.Validate()
	requireDomainCode(t, err, "missing_field")

	var de *domain.Error
	if !asDomain(err, &de) || de.Meta["field"] != "password" {
		t.Fatalf("expected field=password, got %v", err)
	}
}

func asDomain(err error, dst **domain.Error) bool {
	de, ok := err.(*domain.Error)
	if ok {
		*dst = de
	}
	return ok
}

func TestResetPasswordRequest_Validate(t *testing.T) {
	t.Parallel()

	req := ResetPasswordRequest{Email: "a@b.c", Code: "a1b2c3"}
	requireDomainCode(t, req.Validate(), "missing_field")

	req.NewPassword = "newpw"
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestCreateWorkspaceRequest_Validate(t *testing.T) {
	t.Parallel()

	req := CreateWorkspaceRequest{Name: "Desk A", Location: "Berlin", Capacity: "4", Price: -1}
	requireDomainCode(t, req.Validate(), "invalid_field")

	req.Price = 10
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestToUserView_NeverCarriesSecrets(t *testing.T) {
	t.Parallel()

	u := domain.User{
		ID:               "u1",
		Email:            "a@b.c",
		Name:             "alice",
		PasswordHash:     "$2a$10$secret-hash",
		Role:             "user",
		UserType:         "individual",
		ResetCode:        "a1b2c3",
		ResetCodeExpires: time.Now().Add(10 * time.Minute),
		CreatedAt:        time.Now(),
	}

	b, err := json.Marshal(ToUserView(u))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(b)

	if strings.Contains(body, "secret-hash") {
		t.Fatalf("password hash leaked: %s", body)
	}
	if strings.Contains(body, "a1b2c3") {
		t.Fatalf("reset code leaked: %s", body)
	}
	if !strings.Contains(body, `"savedWorkspaces":[]`) {
		t.Fatalf("savedWorkspaces should default to an empty list: %s", body)
	}
}
