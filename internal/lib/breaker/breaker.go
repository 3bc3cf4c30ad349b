// Package breaker оборачивает вызовы внешних систем в предохранитель gobreaker.
package breaker

import (
	"errors"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"github.com/magabrotheeeer/prorated-billing/internal/config"
	"github.com/magabrotheeeer/prorated-billing/internal/metrics"
)

// New создаёт предохранитель. Ошибки из ignore считаются успешными вызовами:
// например, "не найдено" - ответ работающей системы, а не сбой.
func New(name string, cfg config.CircuitBreaker, log *slog.Logger, ignore ...error) *gobreaker.CircuitBreaker[any] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			for _, target := range ignore {
				if errors.Is(err, target) {
					return true
				}
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
		},
	}

	return gobreaker.NewCircuitBreaker[any](settings)
}

// Execute выполняет fn через предохранитель cb и возвращает типизированный результат.
func Execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// IsOpen сообщает, что вызов отклонён предохранителем, не дойдя до внешней системы.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
