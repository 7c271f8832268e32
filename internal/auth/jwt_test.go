package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewIssuer("test-secret", 24*time.Hour)

	tokenString, err := issuer.Issue("acc-123", "driver@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := issuer.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "acc-123", claims.AccountID)
	assert.Equal(t, "driver@example.com", claims.Email)
	assert.Equal(t, "acc-123", claims.Subject)
	assert.Equal(t, "account-service", claims.Issuer)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestIssuer_Verify_WrongSecret(t *testing.T) {
	issuer := NewIssuer("secret-a", time.Hour)
	other := NewIssuer("secret-b", time.Hour)

	tokenString, err := issuer.Issue("acc-123", "driver@example.com")
	require.NoError(t, err)

	_, err = other.Verify(tokenString)
	assert.Error(t, err)
}

func TestIssuer_Verify_Expired(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Minute)

	tokenString, err := issuer.Issue("acc-123", "driver@example.com")
	require.NoError(t, err)

	_, err = issuer.Verify(tokenString)
	assert.Error(t, err)
}

func TestIssuer_Verify_Garbage(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	_, err := issuer.Verify("not.a.jwt")
	assert.Error(t, err)
}
