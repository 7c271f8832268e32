package notifier

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

var breakerState = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "email_sender_breaker_state",
		Help: "Current state of the email sender circuit breaker (0=closed, 1=half-open, 2=open)",
	},
	[]string{"sender"},
)

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// BreakerSender wraps a Sender with a circuit breaker so a dead mail host
// rejects sends fast instead of making every notification wait out the
// SMTP timeout. Rejected sends surface as errors and follow the normal
// consumer retry path.
type BreakerSender struct {
	sender  Sender
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerSender wraps the given sender. The breaker trips when at least
// 3 of the last sends within a minute have a 60% failure rate, and probes
// again after 30 seconds.
func NewBreakerSender(sender Sender, logger *slog.Logger) *BreakerSender {
	settings := gobreaker.Settings{
		Name:        sender.Name(),
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 3 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("email sender breaker state change",
				slog.String("sender", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	breakerState.WithLabelValues(sender.Name()).Set(0)

	return &BreakerSender{
		sender:  sender,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

func (s *BreakerSender) Name() string {
	return s.sender.Name()
}

// Send delivers the email through the circuit breaker. While the breaker
// is open it returns gobreaker.ErrOpenState without touching the mail host.
func (s *BreakerSender) Send(ctx context.Context, email *Email) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.sender.Send(ctx, email)
	})
	return err
}
