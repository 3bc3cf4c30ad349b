// Package services отдаёт каталог тарифных планов с кешированием в Redis.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/prorated-billing/internal/lib/sl"
	"github.com/magabrotheeeer/prorated-billing/internal/models"
)

const catalogKey = "plans:catalog"

// Backend источник планов.
type Backend interface {
	ListPlans(ctx context.Context) ([]models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// PlanService возвращает каталог планов, отсортированный по цене.
type PlanService struct {
	backend Backend
	cache   Cache
	ttl     time.Duration
	log     *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(backend Backend, cache Cache, ttl time.Duration, log *slog.Logger) *PlanService {
	return &PlanService{
		backend: backend,
		cache:   cache,
		ttl:     ttl,
		log:     log,
	}
}

// List возвращает планы из кеша или из CMS. Недоступность кеша не ошибка.
func (s *PlanService) List(ctx context.Context) ([]models.Plan, error) {
	const op = "services.plans.List"
	log := s.log.With(slog.String("op", op))

	var plans []models.Plan
	found, err := s.cache.Get(ctx, catalogKey, &plans)
	if err != nil {
		log.Warn("failed to read plans from cache", sl.Err(err))
	}
	if found {
		return plans, nil
	}

	plans, err = s.backend.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.Set(ctx, catalogKey, plans, s.ttl); err != nil {
		log.Warn("failed to cache plans", slog.String("key", catalogKey), sl.Err(err))
	}
	return plans, nil
}

// Invalidate сбрасывает кеш каталога, например после смены цен в CMS.
func (s *PlanService) Invalidate(ctx context.Context) error {
	return s.cache.Invalidate(ctx, catalogKey)
}
