package resilient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"housing_recommender/internal/config"
	"housing_recommender/internal/lib/metrics"
	"housing_recommender/internal/repository"

	gobreaker "github.com/sony/gobreaker/v2"
)

// Breaker — circuit breaker вокруг обращений к хранилищу.
// Пока БД недоступна, запросы отклоняются сразу, а рекомендации деградируют до пустой выдачи.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreaker создаёт breaker. При cfg.Enabled=false возвращает nil: обёртки тогда вызывают репозиторий напрямую.
func NewBreaker(name string, cfg config.BreakerConfig, log *slog.Logger) *Breaker {
	if !cfg.Enabled {
		return nil
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: isSuccessful,
	}

	return &Breaker{
		name: name,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

func (b *Breaker) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// State возвращает текущее состояние breaker (для nil — closed).
func (b *Breaker) State() gobreaker.State {
	if b == nil {
		return gobreaker.StateClosed
	}
	return b.cb.State()
}

// isSuccessful — "не найдено" и отмена запроса клиентом не говорят о проблемах с БД.
func isSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, repository.ErrListingNotFound) ||
		errors.Is(err, context.Canceled)
}

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	res, err := b.cb.Execute(func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRejections.WithLabelValues(b.name).Inc()
			err = fmt.Errorf("breaker %s: %w", b.name, err)
		}
		var zero T
		return zero, err
	}

	return res.(T), nil
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
