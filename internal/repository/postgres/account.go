package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/domain"
	apperrors "github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/errors"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it too, which keeps the repository testable without a live database.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, full_name, email, phone_number, password_hash, is_verified,
		verification_token, verification_token_expiry, reset_token, reset_token_expiry,
		created_at, updated_at`

// Create inserts a new account.
func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `
		INSERT INTO accounts (id, full_name, email, phone_number, password_hash, is_verified,
			verification_token, verification_token_expiry, reset_token, reset_token_expiry,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		a.ID,
		a.FullName,
		a.Email,
		a.PhoneNumber,
		a.PasswordHash,
		a.IsVerified,
		a.VerificationToken,
		a.VerificationTokenExpiry,
		a.ResetToken,
		a.ResetTokenExpiry,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", uniqueField(err), uniqueValue(err, a))
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(ctx, query, id)
}

// GetByEmail retrieves an account by its email address.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.scanAccount(ctx, query, email)
}

// GetByVerificationToken retrieves the account holding the given pending
// verification token regardless of expiry.
func (r *AccountRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE verification_token = $1`
	return r.scanAccount(ctx, query, token)
}

// GetByResetToken retrieves the account matching email and an unexpired
// reset token as of now.
func (r *AccountRepository) GetByResetToken(ctx context.Context, email, token string, now time.Time) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 AND reset_token = $2 AND reset_token_expiry > $3`
	return r.scanAccount(ctx, query, email, token, now)
}

// Update persists all mutable fields of the account.
func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE accounts
		SET full_name = $1, email = $2, phone_number = $3, password_hash = $4, is_verified = $5,
		    verification_token = $6, verification_token_expiry = $7,
		    reset_token = $8, reset_token_expiry = $9, updated_at = $10
		WHERE id = $11`

	ct, err := r.db.Exec(ctx, query,
		a.FullName,
		a.Email,
		a.PhoneNumber,
		a.PasswordHash,
		a.IsVerified,
		a.VerificationToken,
		a.VerificationTokenExpiry,
		a.ResetToken,
		a.ResetTokenExpiry,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("account", uniqueField(err), uniqueValue(err, a))
		}
		return fmt.Errorf("update account: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("account", a.ID)
	}

	return nil
}

func (r *AccountRepository) scanAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var a domain.Account

	err := r.db.QueryRow(ctx, query, args...).Scan(
		&a.ID,
		&a.FullName,
		&a.Email,
		&a.PhoneNumber,
		&a.PasswordHash,
		&a.IsVerified,
		&a.VerificationToken,
		&a.VerificationTokenExpiry,
		&a.ResetToken,
		&a.ResetTokenExpiry,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	return &a, nil
}

// isUniqueViolation checks for a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// uniqueField inspects the violated constraint name to report which column
// collided. The accounts table carries unique constraints on email and
// phone_number.
func uniqueField(err error) string {
	if err != nil && strings.Contains(err.Error(), "phone_number") {
		return "phone_number"
	}
	return "email"
}

func uniqueValue(err error, a *domain.Account) string {
	if uniqueField(err) == "phone_number" {
		return a.PhoneNumber
	}
	return a.Email
}
