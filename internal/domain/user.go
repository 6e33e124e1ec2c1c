package domain

import "time"

// User is the credential record. PasswordHash never leaves the service
// boundary; handlers map users to sanitized views.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         string
	UserType     string
	Image        string
	// Verified is stored but not enforced by any flow.
	Verified        bool
	SavedWorkspaces []string

	// ResetCode / ResetCodeExpires are either both set (active password-reset
	// challenge) or both zero. An expired challenge counts as absent.
	ResetCode        string
	ResetCodeExpires time.Time

	CreatedAt time.Time
}

const DefaultUserType = "individual"

// HasActiveResetCode reports whether a reset challenge is live at now.
func (u User) HasActiveResetCode(now time.Time) bool {
	return u.ResetCode != "" && !u.ResetCodeExpires.IsZero() && u.ResetCodeExpires.After(now)
}
