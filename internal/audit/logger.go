package audit

import (
	"context"

	"github.com/rs/zerolog"

	appCtx "github.com/deskhive/deskhive/internal/pkg/context"
)

// Logger provides structured audit logging for credential business events
type Logger struct {
	log zerolog.Logger
}

// New creates a new audit logger
func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Registered logs a successful registration
func (l *Logger) Registered(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "user_registered").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User registered")
}

// LoginSuccess logs a successful login
func (l *Logger) LoginSuccess(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "login_success").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User logged in successfully")
}

// LoginFailed logs a failed login attempt
func (l *Logger) LoginFailed(ctx context.Context, email, reason string) {
	l.log.Warn().
		Str("action", "login_failed").
		Str("email", maskEmail(email)).
		Str("reason", reason).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Login attempt failed")
}

// ResetInitiated logs a password reset initiation
func (l *Logger) ResetInitiated(ctx context.Context, userID, email string) {
	l.log.Info().
		Str("action", "password_reset_initiated").
		Str("user_id", userID).
		Str("email", maskEmail(email)).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Password reset initiated")
}

// ResetCompleted logs a completed password reset
func (l *Logger) ResetCompleted(ctx context.Context, userID string) {
	l.log.Info().
		Str("action", "password_reset_completed").
		Str("user_id", userID).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Password reset completed")
}

// PasswordChanged logs a password change via profile update
func (l *Logger) PasswordChanged(ctx context.Context, userID string) {
	l.log.Info().
		Str("action", "password_changed").
		Str("user_id", userID).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User password changed")
}

// UserDeleted logs a user deletion
func (l *Logger) UserDeleted(ctx context.Context, targetID, actorID string) {
	l.log.Warn().
		Str("action", "user_deleted").
		Str("target_user_id", targetID).
		Str("actor_user_id", actorID).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("User deleted")
}

// AdminUpdate logs an admin-gated user update
func (l *Logger) AdminUpdate(ctx context.Context, targetID, actorID string) {
	l.log.Warn().
		Str("action", "admin_user_update").
		Str("target_user_id", targetID).
		Str("actor_user_id", actorID).
		Str("request_id", appCtx.GetRequestID(ctx)).
		Msg("Admin updated user")
}

// maskEmail partially masks email for privacy in logs
func maskEmail(email string) string {
	if len(email) < 5 {
		return "***"
	}
	// Show first 2 chars and domain
	at := 0
	for i, c := range email {
		if c == '@' {
			at = i
			break
		}
	}
	if at < 2 {
		return email[:1] + "***" + email[at:]
	}
	return email[:2] + "***" + email[at:]
}
