package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/auth"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/domain"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/event"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/repository"
	"github.com/Tobak95/Royal-Shades-Autos-Backend/internal/token"
	apperrors "github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/errors"
	pkglogger "github.com/Tobak95/Royal-Shades-Autos-Backend/pkg/logger"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// tokenTTL is how long verification and reset tokens stay valid.
const tokenTTL = 24 * time.Hour

// notifyTimeout bounds the detached notification publish.
const notifyTimeout = 5 * time.Second

// AccountService implements the account lifecycle: registration, email
// verification, login, and password reset.
type AccountService struct {
	accountRepo   repository.AccountRepository
	issuer        *auth.Issuer
	producer      *event.Producer
	clientBaseURL string
	logger        *slog.Logger
}

func NewAccountService(
	accountRepo repository.AccountRepository,
	issuer *auth.Issuer,
	producer *event.Producer,
	clientBaseURL string,
	logger *slog.Logger,
) *AccountService {
	return &AccountService{
		accountRepo:   accountRepo,
		issuer:        issuer,
		producer:      producer,
		clientBaseURL: clientBaseURL,
		logger:        logger,
	}
}

// --- Input types ---

// RegisterInput holds the parameters for creating a new account.
type RegisterInput struct {
	FullName    string
	Email       string
	PhoneNumber string
	Password    string
}

// LoginInput holds the parameters for authenticating an account.
type LoginInput struct {
	Email    string
	Password string
}

// ChangePasswordInput holds the parameters for completing a password reset.
type ChangePasswordInput struct {
	Email       string
	ResetToken  string
	NewPassword string
}

// --- Operations ---

// Register creates an unverified account and triggers the verification
// email. The welcome notification is best effort; registration succeeds
// even if it cannot be published.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.Account, error) {
	if input.FullName == "" {
		return nil, apperrors.InvalidInput("full name is required")
	}
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.PhoneNumber == "" {
		return nil, apperrors.InvalidInput("phone number is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	verificationToken, err := token.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New().String(),
		FullName:     input.FullName,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hashedPassword),
		IsVerified:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	account.SetVerificationToken(verificationToken, now.Add(tokenTTL))

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.notifyAsync(ctx, account, func(ctx context.Context, snapshot *domain.Account) error {
		return s.producer.PublishVerificationRequested(ctx, snapshot, s.verificationURL(verificationToken))
	})

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AccountService) VerifyEmail(ctx context.Context, verificationToken string) (*domain.Account, error) {
	if verificationToken == "" {
		return nil, apperrors.InvalidInput("verification token is required")
	}

	account, err := s.accountRepo.GetByVerificationToken(ctx, verificationToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account", "for verification token")
		}
		return nil, fmt.Errorf("get account by verification token: %w", err)
	}

	if account.IsVerified {
		return nil, apperrors.AlreadyProcessed("account is already verified")
	}

	if account.VerificationExpired(time.Now().UTC()) {
		return nil, apperrors.Expired(fmt.Sprintf("verification link for %s has expired, request a new one", account.Email))
	}

	account.MarkVerified()
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return nil, fmt.Errorf("save verified account: %w", err)
	}

	s.notifyAsync(ctx, account, func(ctx context.Context, snapshot *domain.Account) error {
		return s.producer.PublishAccountVerified(ctx, snapshot)
	})

	s.logger.InfoContext(ctx, "account verified",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, nil
}

// Login authenticates a verified account and issues a session token.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*domain.Account, string, error) {
	if input.Email == "" {
		return nil, "", apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, "", apperrors.InvalidInput("password is required")
	}

	account, err := s.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.NotFound("account", input.Email)
		}
		return nil, "", fmt.Errorf("get account by email: %w", err)
	}

	if !account.IsVerified {
		return nil, "", apperrors.Forbidden("email is not verified, check your inbox")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", apperrors.Unauthorized("incorrect password")
	}

	sessionToken, err := s.issuer.Issue(account.ID, account.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}

	s.logger.InfoContext(ctx, "account logged in",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, sessionToken, nil
}

// ResendVerification replaces the pending verification token and sends a
// fresh verification email. The previous token stops working.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("account", email)
		}
		return fmt.Errorf("get account by email: %w", err)
	}

	if account.IsVerified {
		return apperrors.AlreadyProcessed("account is already verified")
	}

	verificationToken, err := token.Generate()
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	account.SetVerificationToken(verificationToken, time.Now().UTC().Add(tokenTTL))
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("save verification token: %w", err)
	}

	s.notifyAsync(ctx, account, func(ctx context.Context, snapshot *domain.Account) error {
		return s.producer.PublishVerificationRequested(ctx, snapshot, s.verificationURL(verificationToken))
	})

	s.logger.InfoContext(ctx, "verification email resent",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return nil
}

// ForgotPassword stores a reset token on the account and sends the reset
// email. The raw token travels only through the notification channel.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidInput("email is required")
	}

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("account", email)
		}
		return fmt.Errorf("get account by email: %w", err)
	}

	resetToken, err := token.Generate()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	account.SetResetToken(resetToken, time.Now().UTC().Add(tokenTTL))
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	s.notifyAsync(ctx, account, func(ctx context.Context, snapshot *domain.Account) error {
		return s.producer.PublishPasswordResetRequested(ctx, snapshot, s.resetURL(resetToken))
	})

	s.logger.InfoContext(ctx, "password reset requested",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return nil
}

// ChangePassword completes a reset. The lookup matches email, token, and
// expiry in one query, so a wrong token, a stale token, and a wrong email
// are indistinguishable to the caller.
func (s *AccountService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	if input.Email == "" {
		return apperrors.InvalidInput("email is required")
	}
	if input.ResetToken == "" {
		return apperrors.InvalidInput("reset token is required")
	}
	if err := validatePassword(input.NewPassword); err != nil {
		return err
	}

	account, err := s.accountRepo.GetByResetToken(ctx, input.Email, input.ResetToken, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("account", "for reset token")
		}
		return fmt.Errorf("get account by reset token: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}

	account.PasswordHash = string(hashedPassword)
	account.ClearResetToken()
	if err := s.accountRepo.Update(ctx, account); err != nil {
		return fmt.Errorf("save new password: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed",
		slog.String("account_id", account.ID),
	)

	return nil
}

// GetProfile retrieves an account by its ID.
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("account", accountID)
		}
		return nil, fmt.Errorf("get account profile: %w", err)
	}
	return account, nil
}

// --- Helpers ---

func (s *AccountService) verificationURL(tok string) string {
	return fmt.Sprintf("%s/verify-email/%s", s.clientBaseURL, tok)
}

func (s *AccountService) resetURL(tok string) string {
	return fmt.Sprintf("%s/reset-password/%s", s.clientBaseURL, tok)
}

// notifyAsync publishes in a detached goroutine so notification latency or
// broker outages never block or fail the request. Errors are logged only.
func (s *AccountService) notifyAsync(ctx context.Context, account *domain.Account, publish func(context.Context, *domain.Account) error) {
	snapshot := *account
	correlationID := pkglogger.CorrelationIDFromContext(ctx)

	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := publish(pubCtx, &snapshot); err != nil {
			s.logger.Error("failed to publish account notification",
				slog.String("account_id", snapshot.ID),
				slog.String("correlation_id", correlationID),
				slog.String("error", err.Error()),
			)
		}
	}()
}

// validatePassword checks minimum complexity: length, upper, lower, digit.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
