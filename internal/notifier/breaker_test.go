package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSender fails every send and counts how often it was called.
type countingSender struct {
	calls int
	err   error
}

func (s *countingSender) Name() string { return "counting" }

func (s *countingSender) Send(_ context.Context, _ *Email) error {
	s.calls++
	return s.err
}

func testEmail() *Email {
	return &Email{To: "ada@example.com", Subject: "hello", HTML: "<p>hi</p>"}
}

func TestBreakerSender_PassesThroughSuccess(t *testing.T) {
	inner := &countingSender{}
	sender := NewBreakerSender(inner, testLogger())

	require.NoError(t, sender.Send(context.Background(), testEmail()))
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", sender.Name())
}

func TestBreakerSender_PassesThroughFailure(t *testing.T) {
	inner := &countingSender{err: errors.New("smtp: connection refused")}
	sender := NewBreakerSender(inner, testLogger())

	err := sender.Send(context.Background(), testEmail())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestBreakerSender_OpensAfterRepeatedFailures(t *testing.T) {
	inner := &countingSender{err: errors.New("smtp: connection refused")}
	sender := NewBreakerSender(inner, testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.Error(t, sender.Send(ctx, testEmail()))
	}
	assert.Equal(t, 3, inner.calls)

	// The breaker is now open: sends are rejected without reaching the sender.
	err := sender.Send(ctx, testEmail())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, 3, inner.calls)
}
