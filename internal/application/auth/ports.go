package auth

import (
	"context"
	"time"

	"github.com/deskhive/deskhive/internal/domain"
)

/*
UserStore
---------
Persistence port for credential records.
Only describes WHAT the credential lifecycle needs, not HOW it's stored.
Implementations enforce email and name uniqueness at insert time and accept
only password hashes; plaintext never crosses this boundary.
*/
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByEmailOrName(ctx context.Context, email, name string) (domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, id string, upd UserUpdate) (domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error

	// Reset-challenge state. SetResetCode stores both fields together;
	// CompleteReset sets the new hash and clears both fields in one
	// conditional write ("clear only if the code still equals code and has
	// not expired at now") and reports whether a row matched.
	SetResetCode(ctx context.Context, userID, code string, expires time.Time) error
	CompleteReset(ctx context.Context, userID, newHash, code string, now time.Time) (bool, error)
}

// UserUpdate lists the mutable fields of a user record. Nil means "leave
// unchanged". PasswordHash is always a hash; callers hash first.
type UserUpdate struct {
	Email        *string
	Name         *string
	PasswordHash *string
	UserType     *string
	Image        *string
	Verified     *bool
}

/*
PasswordHasher
--------------
Abstracts bcrypt.
*/
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error // nil if match
}

/*
TokenSigner
-----------
Issues and verifies session tokens (JWT).
Used by service + auth middleware.
*/
type TokenClaims struct {
	UserID string
	Role   string
	Exp    time.Time
}

type TokenSigner interface {
	SignSessionToken(userID string, role string, ttl time.Duration) (string, error)
	VerifySessionToken(token string) (TokenClaims, error)
}

/*
CodeGenerator
-------------
Produces short reset-challenge codes. Fresh per call, no reuse tracking.
*/
type CodeGenerator interface {
	Generate() (string, error)
}

/*
ResetCodeSender
---------------
Out-of-band delivery of reset codes. The core only depends on this
contract; delivery failure fails the initiate-reset operation.
*/
type ResetCodeSender interface {
	SendResetCode(ctx context.Context, email, code string) error
}

/*
Auditor
-------
Structured audit sink for credential business events. Optional; the
service defaults to a no-op.
*/
type Auditor interface {
	Registered(ctx context.Context, userID, email string)
	LoginSuccess(ctx context.Context, userID, email string)
	LoginFailed(ctx context.Context, email, reason string)
	ResetInitiated(ctx context.Context, userID, email string)
	ResetCompleted(ctx context.Context, userID string)
	PasswordChanged(ctx context.Context, userID string)
	UserDeleted(ctx context.Context, targetID, actorID string)
	AdminUpdate(ctx context.Context, targetID, actorID string)
}
