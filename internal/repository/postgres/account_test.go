package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/domain"
	apperrors "github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/errors"
)

func newAccountTestFixture(t *testing.T) (*AccountRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	repo := NewAccountRepository(mock)
	return repo, mock
}

func sampleAccount() *domain.Account {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Account{
		ID:           "acc-1234",
		FullName:     "Ada Driver",
		Email:        "ada@example.com",
		PhoneNumber:  "+2348012345678",
		PasswordHash: "hash-abc",
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func accountColumnNames() []string {
	return []string{
		"id", "full_name", "email", "phone_number", "password_hash", "is_verified",
		"verification_token", "verification_token_expiry", "reset_token", "reset_token_expiry",
		"created_at", "updated_at",
	}
}

func accountRow(a *domain.Account) *pgxmock.Rows {
	return pgxmock.NewRows(accountColumnNames()).AddRow(
		a.ID, a.FullName, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified,
		a.VerificationToken, a.VerificationTokenExpiry, a.ResetToken, a.ResetTokenExpiry,
		a.CreatedAt, a.UpdatedAt,
	)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestAccountRepository_Create_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			a.ID, a.FullName, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified,
			a.VerificationToken, a.VerificationTokenExpiry, a.ResetToken, a.ResetTokenExpiry,
			a.CreatedAt, a.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			a.ID, a.FullName, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified,
			a.VerificationToken, a.VerificationTokenExpiry, a.ResetToken, a.ResetTokenExpiry,
			a.CreatedAt, a.UpdatedAt,
		).
		WillReturnError(fmt.Errorf(`ERROR: duplicate key value violates unique constraint "accounts_email_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists), "expected ErrAlreadyExists, got: %v", err)
	assert.Contains(t, err.Error(), "email")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Create_DuplicatePhone(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("INSERT INTO accounts").
		WithArgs(
			a.ID, a.FullName, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified,
			a.VerificationToken, a.VerificationTokenExpiry, a.ResetToken, a.ResetTokenExpiry,
			a.CreatedAt, a.UpdatedAt,
		).
		WillReturnError(fmt.Errorf(`ERROR: duplicate key value violates unique constraint "accounts_phone_number_key" (SQLSTATE 23505)`))

	err := repo.Create(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrAlreadyExists))
	assert.Contains(t, err.Error(), "phone_number")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

func TestAccountRepository_GetByID_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id =").
		WithArgs(a.ID).
		WillReturnRows(accountRow(a))

	got, err := repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Email, got.Email)
	assert.Equal(t, a.FullName, got.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE id =").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(accountColumnNames()))

	_, err := repo.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByEmail_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email =").
		WithArgs(a.Email).
		WillReturnRows(accountRow(a))

	got, err := repo.GetByEmail(context.Background(), a.Email)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByVerificationToken(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()
	expiry := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	a.SetVerificationToken("pending-token", expiry)

	// Expired tokens still resolve; expiry is the caller's call.
	mock.ExpectQuery("SELECT .+ FROM accounts WHERE verification_token =").
		WithArgs("pending-token").
		WillReturnRows(accountRow(a))

	got, err := repo.GetByVerificationToken(context.Background(), "pending-token")
	require.NoError(t, err)
	require.NotNil(t, got.VerificationTokenExpiry)
	assert.True(t, got.VerificationExpired(time.Now().UTC()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByResetToken(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	a := sampleAccount()
	a.SetResetToken("reset-token", now.Add(time.Hour))

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email = .+ AND reset_token = .+ AND reset_token_expiry >").
		WithArgs(a.Email, "reset-token", now).
		WillReturnRows(accountRow(a))

	got, err := repo.GetByResetToken(context.Background(), a.Email, "reset-token", now)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetByResetToken_ExpiredOrMissing(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM accounts WHERE email = .+ AND reset_token = .+ AND reset_token_expiry >").
		WithArgs("ada@example.com", "stale", now).
		WillReturnRows(pgxmock.NewRows(accountColumnNames()))

	_, err := repo.GetByResetToken(context.Background(), "ada@example.com", "stale", now)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestAccountRepository_Update_Success(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()
	a.MarkVerified()

	mock.ExpectExec("UPDATE accounts").
		WithArgs(
			a.FullName, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified,
			a.VerificationToken, a.VerificationTokenExpiry, a.ResetToken, a.ResetTokenExpiry,
			pgxmock.AnyArg(), a.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), a)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_Update_NotFound(t *testing.T) {
	repo, mock := newAccountTestFixture(t)
	defer mock.Close()

	a := sampleAccount()

	mock.ExpectExec("UPDATE accounts").
		WithArgs(
			a.FullName, a.Email, a.PhoneNumber, a.PasswordHash, a.IsVerified,
			a.VerificationToken, a.VerificationTokenExpiry, a.ResetToken, a.ResetTokenExpiry,
			pgxmock.AnyArg(), a.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
