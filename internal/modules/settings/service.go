package settings

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/modules/pricing"
	"github.com/BhargavEnigma/FreshVegApp-sub000/internal/shared/apperr"
)

type Service struct {
	repo   *Repo
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
}

func NewService(db *gorm.DB, cache Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   NewRepo(db),
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Totals resolves the money settings used by checkout. Missing keys fall
// back to defaults; unreadable, negative or non-finite values fail with
// INVALID_TOTAL.
func (s *Service) Totals(ctx context.Context) (pricing.TotalsConfig, error) {
	if s.cache != nil {
		cfg, ok, err := s.cache.GetTotals(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "settings cache read failed", "err", err)
		} else if ok {
			return cfg, nil
		}
	}

	raw, err := s.repo.GetMany(ctx, KeyDeliveryFeePaise, KeyFreeDeliveryThresholdPaise, KeyGSTRateBps)
	if err != nil {
		return pricing.TotalsConfig{}, apperr.Wrap(err)
	}

	def := pricing.DefaultTotalsConfig()
	cfg := pricing.TotalsConfig{}
	if cfg.DeliveryFeePaise, err = s.resolve(ctx, raw, KeyDeliveryFeePaise, def.DeliveryFeePaise); err != nil {
		return pricing.TotalsConfig{}, err
	}
	if cfg.FreeDeliveryThresholdPaise, err = s.resolve(ctx, raw, KeyFreeDeliveryThresholdPaise, def.FreeDeliveryThresholdPaise); err != nil {
		return pricing.TotalsConfig{}, err
	}
	if cfg.GSTRateBps, err = s.resolve(ctx, raw, KeyGSTRateBps, def.GSTRateBps); err != nil {
		return pricing.TotalsConfig{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetTotals(ctx, cfg); err != nil {
			s.logger.WarnContext(ctx, "settings cache write failed", "err", err)
		}
	}
	return cfg, nil
}

func (s *Service) resolve(ctx context.Context, raw map[string]datatypes.JSON, key string, def int64) (int64, error) {
	b, ok := raw[key]
	if !ok {
		return def, nil
	}
	v, found, err := Decode(b)
	if err != nil {
		s.logger.ErrorContext(ctx, "setting value unreadable", "key", key, "err", err)
		return 0, pricing.ErrInvalidTotal.WithCause(err)
	}
	if !found {
		return def, nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		s.logger.ErrorContext(ctx, "setting value out of range", "key", key, "value", v)
		return 0, pricing.ErrInvalidTotal
	}
	return int64(math.Round(v)), nil
}

// Put writes a setting. Admin tooling owns settings; this is for seeding.
func (s *Service) Put(ctx context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := s.repo.Upsert(ctx, key, b, s.now()); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "settings cache invalidate failed", "err", err)
		}
	}
	return nil
}
