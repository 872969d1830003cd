package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"cs2-giveaway-backend/internal/common/cache"
	"cs2-giveaway-backend/internal/common/config"
)

func newTestRateService(ratesURL string) *RateService {
	cfg := &config.Config{}
	cfg.Market.RatesURL = ratesURL
	cfg.Market.RateRefreshSec = 60
	cfg.Market.RequestTimeoutSec = 5
	return NewRateService(cache.NewCacheService(deadRedis()), cfg)
}

func TestUSDToRUBFetchesRate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rates": {"RUB": 95.5, "EUR": 0.92}}`))
	}))
	defer server.Close()

	rate := newTestRateService(server.URL).USDToRUB(context.Background())
	assert.True(t, decimal.NewFromFloat(95.5).Equal(rate), "got %s", rate)
}

func TestUSDToRUBFallback(t *testing.T) {
	t.Run("endpoint unreachable", func(t *testing.T) {
		rate := newTestRateService("http://127.0.0.1:1/rates").USDToRUB(context.Background())
		assert.True(t, fallbackRate.Equal(rate), "got %s", rate)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		rate := newTestRateService(server.URL).USDToRUB(context.Background())
		assert.True(t, fallbackRate.Equal(rate))
	})

	t.Run("missing display currency", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates": {"EUR": 0.92}}`))
		}))
		defer server.Close()

		rate := newTestRateService(server.URL).USDToRUB(context.Background())
		assert.True(t, fallbackRate.Equal(rate))
	})

	t.Run("non-positive rate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates": {"RUB": 0}}`))
		}))
		defer server.Close()

		rate := newTestRateService(server.URL).USDToRUB(context.Background())
		assert.True(t, fallbackRate.Equal(rate))
	})
}
