package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while the breaker is open and calls are rejected without
// reaching the provider.
var ErrUnavailable = errors.New("language model temporarily unavailable")

// BreakerConfig configures the circuit breaker around a Client
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker once MinRequests were seen
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used in production
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "llm",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerClient wraps a Client so that a failing provider is short-circuited
// instead of being called for every request.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker
}

var _ Client = (*BreakerClient)(nil)

// NewBreakerClient wraps next with a circuit breaker
func NewBreakerClient(next Client, config BreakerConfig, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// A caller giving up or a refused prompt is not a provider failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, ErrBlocked)
		},
	})
	return &BreakerClient{next: next, cb: cb}
}

// State reports the breaker state (closed, half-open or open)
func (b *BreakerClient) State() string {
	return b.cb.State().String()
}

func (b *BreakerClient) execute(fn func() (string, error)) (string, error) {
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrUnavailable
	}
	if err != nil {
		return "", err
	}
	text, _ := out.(string)
	return text, nil
}

// GenerateContent calls the wrapped client through the breaker
func (b *BreakerClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute(func() (string, error) {
		return b.next.GenerateContent(ctx, prompt, tier)
	})
}

// GenerateJSON calls the wrapped client through the breaker
func (b *BreakerClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return b.execute(func() (string, error) {
		return b.next.GenerateJSON(ctx, prompt, tier)
	})
}

// GetModel returns the wrapped client's model name for tier
func (b *BreakerClient) GetModel(tier ModelTier) string {
	return b.next.GetModel(tier)
}

// Close closes the wrapped client
func (b *BreakerClient) Close() error {
	return b.next.Close()
}
