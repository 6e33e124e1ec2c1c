package auth

import (
	"context"
	"time"
)

type Service struct {
	users   UserStore
	hasher  PasswordHasher
	signer  TokenSigner
	codes   CodeGenerator
	sender  ResetCodeSender
	audit   Auditor

	sessionTTL   time.Duration
	resetCodeTTL time.Duration

	now func() time.Time
}

type Config struct {
	SessionTTL   time.Duration
	ResetCodeTTL time.Duration
}

func NewService(
	users UserStore,
	hasher PasswordHasher,
	signer TokenSigner,
	codes CodeGenerator,
	sender ResetCodeSender,
	cfg Config,
) *Service {
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	resetTTL := cfg.ResetCodeTTL
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	return &Service{
		users:  users,
		hasher: hasher,
		signer: signer,
		codes:  codes,
		sender: sender,
		audit:  noopAuditor{},

		sessionTTL:   sessionTTL,
		resetCodeTTL: resetTTL,

		now: time.Now,
	}
}

func (s *Service) WithAudit(a Auditor) *Service {
	if a != nil {
		s.audit = a
	}
	return s
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// SessionToken is the issued credential plus its lifetime, for cookie max-age.
type SessionToken struct {
	Value     string
	ExpiresIn int64 // seconds
}

type noopAuditor struct{}

func (noopAuditor) Registered(context.Context, string, string)    {}
func (noopAuditor) LoginSuccess(context.Context, string, string)  {}
func (noopAuditor) LoginFailed(context.Context, string, string)   {}
func (noopAuditor) ResetInitiated(context.Context, string, string) {}
func (noopAuditor) ResetCompleted(context.Context, string)        {}
func (noopAuditor) PasswordChanged(context.Context, string)       {}
func (noopAuditor) UserDeleted(context.Context, string, string)   {}
func (noopAuditor) AdminUpdate(context.Context, string, string)   {}
