// Package circuitbreaker wraps sony/gobreaker for calls to services the till
// can live without, such as the event broker.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

var (
	// ErrOpen is returned without calling the function while the breaker is open
	ErrOpen = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned when a half-open breaker is already probing
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

type Settings struct {
	Name string
	// MaxFailures consecutive failures open the breaker
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
}

func DefaultSettings(name string) Settings {
	return Settings{
		Name:        name,
		MaxFailures: 5,
		OpenTimeout: 30 * time.Second,
	}
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker[struct{}]
}

func New(s Settings, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFailures := max(s.MaxFailures, 1)

	return &Breaker{
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        s.Name,
			MaxRequests: 1,
			Timeout:     s.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= maxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

// Do runs fn unless the breaker is open.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}

// IsOpen reports whether err came from the breaker rather than the call.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen) || errors.Is(err, ErrTooManyRequests)
}
