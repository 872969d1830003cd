package config

import (
	"github.com/caarlos0/env/v10"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Telegram struct {
		// Empty token switches the subscription gate into fail-open mode.
		BotToken  string   `env:"BOT_TOKEN"`
		ChannelID string   `env:"TG_CHANNEL_ID" envDefault:"-1003782690455"`
		AdminIDs  []string `env:"ADMIN_IDS" envSeparator:","`
	}

	Market struct {
		APIKey string `env:"MARKET_API_KEY"`
		// Relay endpoint the search call is routed through; the marketplace
		// has no CORS headers, so the Mini App talks to it via this proxy.
		RelayBaseURL string `env:"MARKET_RELAY_URL" envDefault:"https://market.csgo.com"`
		// Rate source for the USD->RUB display conversion.
		RatesURL          string `env:"RATES_URL" envDefault:"https://api.exchangerate-api.com/v4/latest/USD"`
		RateRefreshSec    int    `env:"RATE_REFRESH_SEC" envDefault:"3600"`
		RequestTimeoutSec int    `env:"MARKET_TIMEOUT_SEC" envDefault:"10"`
	}

	Giveaway struct {
		// Interval of the authoritative expiration sweep.
		SweepIntervalSec int `env:"GIVEAWAY_SWEEP_INTERVAL_SEC" envDefault:"1"`
		// Fallback winner when a giveaway ends without participants.
		OrganizerID string `env:"ORGANIZER_ID" envDefault:""`
	}
}

func Load() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}

// IsAdmin reports whether the given user ID is in the configured admin list.
func (c *Config) IsAdmin(userID string) bool {
	for _, id := range c.Telegram.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
