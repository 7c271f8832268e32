package domain

import "time"

// Account is a registered user of the backend. Credential and token fields
// never leave the service boundary.
type Account struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phoneNumber"`
	PasswordHash string `json:"-"`
	IsVerified   bool   `json:"isVerified"`

	VerificationToken       *string    `json:"-"`
	VerificationTokenExpiry *time.Time `json:"-"`
	ResetToken              *string    `json:"-"`
	ResetTokenExpiry        *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SetVerificationToken stores a pending email verification token.
func (a *Account) SetVerificationToken(token string, expiry time.Time) {
	a.VerificationToken = &token
	a.VerificationTokenExpiry = &expiry
}

// MarkVerified flips the account to verified and consumes the token.
func (a *Account) MarkVerified() {
	a.IsVerified = true
	a.VerificationToken = nil
	a.VerificationTokenExpiry = nil
}

// VerificationExpired reports whether the pending verification token has
// passed its expiry. An account without a token is not considered expired.
func (a *Account) VerificationExpired(now time.Time) bool {
	return a.VerificationTokenExpiry != nil && now.After(*a.VerificationTokenExpiry)
}

// SetResetToken stores a pending password reset token.
func (a *Account) SetResetToken(token string, expiry time.Time) {
	a.ResetToken = &token
	a.ResetTokenExpiry = &expiry
}

// ClearResetToken consumes the reset token after a successful password change.
func (a *Account) ClearResetToken() {
	a.ResetToken = nil
	a.ResetTokenExpiry = nil
}

// ResetExpired reports whether the pending reset token has passed its expiry.
func (a *Account) ResetExpired(now time.Time) bool {
	return a.ResetTokenExpiry != nil && now.After(*a.ResetTokenExpiry)
}
