package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type HealthHandler interface {
	Healthz(w http.ResponseWriter, r *http.Request)
	Readyz(w http.ResponseWriter, r *http.Request)
}

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)

	// Password reset handshake
	InitiateReset(w http.ResponseWriter, r *http.Request)
	VerifyCode(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	AdminUpdate(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type WorkspaceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	ListOwn(w http.ResponseWriter, r *http.Request)
	ListActive(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Toggle(w http.ResponseWriter, r *http.Request)
}

type Deps struct {
	Health     HealthHandler
	Auth       AuthHandler
	Users      UserHandler
	Workspaces WorkspaceHandler

	RequestIDMW func(http.Handler) http.Handler
	AuthMW      func(http.Handler) http.Handler
	AdminMW     func(http.Handler) http.Handler

	// Optional per-route throttles; nil disables them.
	LoginLimitMW func(http.Handler) http.Handler
	ResetLimitMW func(http.Handler) http.Handler
}

func New(deps Deps) (http.Handler, error) {
	if deps.Health == nil {
		return nil, fmt.Errorf("nil Health handler")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("nil Auth handler")
	}
	if deps.Users == nil {
		return nil, fmt.Errorf("nil Users handler")
	}
	if deps.Workspaces == nil {
		return nil, fmt.Errorf("nil Workspaces handler")
	}
	if deps.AuthMW == nil {
		return nil, fmt.Errorf("nil Auth middleware")
	}
	if deps.AdminMW == nil {
		return nil, fmt.Errorf("nil Admin middleware")
	}

	passthrough := func(next http.Handler) http.Handler { return next }
	if deps.RequestIDMW == nil {
		deps.RequestIDMW = passthrough
	}
	if deps.LoginLimitMW == nil {
		deps.LoginLimitMW = passthrough
	}
	if deps.ResetLimitMW == nil {
		deps.ResetLimitMW = passthrough
	}

	r := chi.NewRouter()
	r.Use(deps.RequestIDMW)

	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)

	r.Route("/api", func(r chi.Router) {
		// --- Session establishment (no auth gate) ---
		r.Post("/register", deps.Auth.Register)
		r.With(deps.LoginLimitMW).Post("/login", deps.Auth.Login)
		r.Post("/logout", deps.Auth.Logout)

		// --- Password reset handshake (no auth gate) ---
		r.With(deps.ResetLimitMW).Post("/updatepassword", deps.Auth.InitiateReset)
		r.Post("/verifycode", deps.Auth.VerifyCode)
		r.Post("/resetpassword", deps.Auth.ResetPassword)

		// --- Users ---
		r.With(deps.AuthMW).Get("/user", deps.Users.Me)
		r.With(deps.AuthMW).Get("/users", deps.Users.List)
		r.With(deps.AuthMW).Put("/users/{id}", deps.Users.Update)
		r.With(deps.AuthMW).Delete("/users/{id}", deps.Users.Delete)
		r.With(deps.AuthMW, deps.AdminMW).Put("/admin/users/{id}", deps.Users.AdminUpdate)

		// --- Workspaces ---
		r.With(deps.AuthMW).Post("/workspaces", deps.Workspaces.Create)
		r.With(deps.AuthMW).Get("/workspaces", deps.Workspaces.ListOwn)
		r.With(deps.AuthMW).Put("/workspaces/{id}", deps.Workspaces.Update)
		r.With(deps.AuthMW).Put("/workspaces/{id}/toggle", deps.Workspaces.Toggle)
		r.With(deps.AuthMW).Get("/all-workspaces", deps.Workspaces.ListActive)
	})

	return r, nil
}
