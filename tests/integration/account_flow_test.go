package integration

import (
	"strings"
	"testing"
)

// registerAccount is a test helper that registers a new account and returns
// the email it used. Registration does not log the account in; login requires
// email verification first.
func registerAccount(t *testing.T, prefix string) string {
	t.Helper()

	email := uniqueEmail(prefix)
	body := map[string]interface{}{
		"fullName":    "Integration Test",
		"email":       email,
		"phoneNumber": uniquePhone(),
		"password":    "TestPass123",
	}
	status, data := httpPost(t, baseURL()+"/api/v1/auth/register", body)
	if status != 201 {
		t.Fatalf("expected status 201 for registration, got %d; body: %v", status, data)
	}
	return email
}

// TestAccountRegistration verifies that a new account can register successfully.
// The response carries the account but never the password hash or any token.
func TestAccountRegistration(t *testing.T) {
	skipIfNotRunning(t)

	email := uniqueEmail("register")
	body := map[string]interface{}{
		"fullName":    "Integration Test",
		"email":       email,
		"phoneNumber": uniquePhone(),
		"password":    "TestPass123",
	}

	status, data := httpPost(t, baseURL()+"/api/v1/auth/register", body)
	requireStatus(t, status, 201)

	accountID := extractString(t, data, "data.id")
	gotEmail := extractString(t, data, "data.email")
	if gotEmail != email {
		t.Fatalf("expected email %q in response, got %q", email, gotEmail)
	}

	if extractField(data, "data.passwordHash") != nil {
		t.Fatal("password hash must never appear in a response body")
	}
	if extractField(data, "data.verificationToken") != nil {
		t.Fatal("verification token must never appear in a response body")
	}

	t.Logf("registered account %s with id %s", email, accountID)
}

// TestAccountRegistrationValidation verifies that missing or malformed
// required fields return 400 with field-level details.
func TestAccountRegistrationValidation(t *testing.T) {
	skipIfNotRunning(t)

	// Missing all required fields.
	status, data := httpPost(t, baseURL()+"/api/v1/auth/register", map[string]interface{}{})
	if status != 400 {
		t.Fatalf("expected status 400 for empty registration, got %d; body: %v", status, data)
	}

	// Malformed phone number.
	body := map[string]interface{}{
		"fullName":    "Bad Phone",
		"email":       uniqueEmail("badphone"),
		"phoneNumber": "not-a-phone",
		"password":    "TestPass123",
	}
	status2, data2 := httpPost(t, baseURL()+"/api/v1/auth/register", body)
	if status2 != 400 {
		t.Fatalf("expected status 400 for malformed phone, got %d; body: %v", status2, data2)
	}
}

// TestAccountDuplicateRegistration verifies that registering with an
// already-used email returns 409.
func TestAccountDuplicateRegistration(t *testing.T) {
	skipIfNotRunning(t)

	email := uniqueEmail("dup")
	body := map[string]interface{}{
		"fullName":    "Dup Test",
		"email":       email,
		"phoneNumber": uniquePhone(),
		"password":    "TestPass123",
	}

	status1, _ := httpPost(t, baseURL()+"/api/v1/auth/register", body)
	requireStatus(t, status1, 201)

	// Same email, fresh phone number.
	body["phoneNumber"] = uniquePhone()
	status2, data2 := httpPost(t, baseURL()+"/api/v1/auth/register", body)
	if status2 != 409 {
		t.Fatalf("expected status 409 for duplicate email, got %d; body: %v", status2, data2)
	}
}

// TestLoginUnverifiedAccount verifies that a freshly registered account
// cannot log in before verifying its email.
func TestLoginUnverifiedAccount(t *testing.T) {
	skipIfNotRunning(t)

	email := registerAccount(t, "unverified")

	status, data := httpPost(t, baseURL()+"/api/v1/auth/login", map[string]interface{}{
		"email":    email,
		"password": "TestPass123",
	})
	if status != 403 {
		t.Fatalf("expected status 403 for unverified login, got %d; body: %v", status, data)
	}
}

// TestLoginUnknownEmail verifies that login with an unregistered email returns 404.
func TestLoginUnknownEmail(t *testing.T) {
	skipIfNotRunning(t)

	status, data := httpPost(t, baseURL()+"/api/v1/auth/login", map[string]interface{}{
		"email":    uniqueEmail("ghost"),
		"password": "TestPass123",
	})
	if status != 404 {
		t.Fatalf("expected status 404 for unknown email, got %d; body: %v", status, data)
	}
}

// TestVerifyEmailBogusToken verifies that an unknown verification token returns 404.
func TestVerifyEmailBogusToken(t *testing.T) {
	skipIfNotRunning(t)

	status, data := httpPost(t, baseURL()+"/api/v1/auth/verify-email/definitely-not-a-real-token", nil)
	if status != 404 {
		t.Fatalf("expected status 404 for bogus verification token, got %d; body: %v", status, data)
	}
}

// TestResendVerification verifies that a registered account can request a
// fresh verification email.
func TestResendVerification(t *testing.T) {
	skipIfNotRunning(t)

	email := registerAccount(t, "resend")

	status, data := httpPost(t, baseURL()+"/api/v1/auth/resend-verification-email", map[string]interface{}{
		"email": email,
	})
	if status != 200 {
		t.Fatalf("expected status 200 for resend, got %d; body: %v", status, data)
	}
}

// TestForgotPassword verifies that a password reset can be requested and that
// the raw reset token never leaks into the response body.
func TestForgotPassword(t *testing.T) {
	skipIfNotRunning(t)

	email := registerAccount(t, "forgot")

	status, data := httpPost(t, baseURL()+"/api/v1/auth/forgot-password", map[string]interface{}{
		"email": email,
	})
	requireStatus(t, status, 200)

	if tok := extractField(data, "data.resetToken"); tok != nil {
		t.Fatalf("reset token must never appear in a response body, got %v", tok)
	}
}

// TestChangePasswordBogusToken verifies that a password change with an
// unknown reset token returns 404.
func TestChangePasswordBogusToken(t *testing.T) {
	skipIfNotRunning(t)

	email := registerAccount(t, "chpw")

	status, data := httpPatch(t, baseURL()+"/api/v1/auth/change-password", map[string]interface{}{
		"email":       email,
		"resetToken":  "definitely-not-a-real-token",
		"newPassword": "FreshPass456",
	})
	if status != 404 {
		t.Fatalf("expected status 404 for bogus reset token, got %d; body: %v", status, data)
	}
}

// TestProfileRequiresAuth verifies that the profile endpoint rejects
// unauthenticated and garbage-token requests.
func TestProfileRequiresAuth(t *testing.T) {
	skipIfNotRunning(t)

	status, _ := httpGet(t, baseURL()+"/api/v1/accounts/me")
	requireStatus(t, status, 401)

	status2, _ := httpGetWithAuth(t, baseURL()+"/api/v1/accounts/me", strings.Repeat("x", 64))
	requireStatus(t, status2, 401)
}
