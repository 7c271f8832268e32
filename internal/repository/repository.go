// Package repository defines the persistence interfaces consumed by the
// service layer.
package repository

import (
	"context"
	"time"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/domain"
)

// AccountRepository persists accounts and their pending tokens.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// GetByVerificationToken returns the account holding the given pending
	// verification token, expired or not. Expiry is judged by the caller so
	// the expired-token response can name the account.
	GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error)
	// GetByResetToken returns the account matching both email and an
	// unexpired reset token as of now.
	GetByResetToken(ctx context.Context, email, token string, now time.Time) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
}
