package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"cs2-giveaway-backend/internal/common/cache"
	"cs2-giveaway-backend/internal/common/config"
	"cs2-giveaway-backend/internal/common/logger"
)

const (
	cacheKeyUSDRUB  = "rates:usd_rub"
	displayCurrency = "RUB"
)

// fallbackRate is used when both the rate endpoint and the cache are
// unavailable. Stale prices beat no prices on the search screen.
var fallbackRate = decimal.NewFromInt(90)

// RateService provides the USD to display-currency rate, refreshed
// periodically and cached in Redis so every search does not hit the rate
// endpoint.
type RateService struct {
	httpClient *http.Client
	cache      *cache.CacheService
	ratesURL   string
	ttl        time.Duration
}

func NewRateService(cacheService *cache.CacheService, cfg *config.Config) *RateService {
	ttl := time.Duration(cfg.Market.RateRefreshSec) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RateService{
		httpClient: &http.Client{Timeout: time.Duration(cfg.Market.RequestTimeoutSec) * time.Second},
		cache:      cacheService,
		ratesURL:   cfg.Market.RatesURL,
		ttl:        ttl,
	}
}

// USDToRUB returns the current conversion rate. Never fails: a broken rate
// source degrades to the fallback rate with a warning.
func (s *RateService) USDToRUB(ctx context.Context) decimal.Decimal {
	var cached string
	if err := s.cache.Get(ctx, cacheKeyUSDRUB, &cached); err == nil {
		if rate, err := decimal.NewFromString(cached); err == nil {
			return rate
		}
	}

	rate, err := s.fetchRate(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Rate fetch failed, using fallback rate")
		return fallbackRate
	}

	if err := s.cache.Set(ctx, cacheKeyUSDRUB, rate.String(), s.ttl); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache exchange rate")
	}

	return rate
}

func (s *RateService) fetchRate(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ratesURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rates endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse rates: %w", err)
	}

	rate, ok := payload.Rates[displayCurrency]
	if !ok || rate <= 0 {
		return decimal.Zero, fmt.Errorf("no %s rate in response", displayCurrency)
	}

	return decimal.NewFromFloat(rate), nil
}
