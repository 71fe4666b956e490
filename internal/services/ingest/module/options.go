package module

import (
	"time"

	"sdexindex/internal/adapters/ingest/horizon"
	"sdexindex/internal/platform/config"
)

// Options holds configuration for the ingest driver and its Horizon client
type Options struct {
	PollInterval     time.Duration
	PageLimit        int
	MaxPages         int
	RPS              float64
	MaxRetries       int
	RetryInitial     time.Duration
	RetryMax         time.Duration
	MaxElapsed       time.Duration
	PageTimeout      time.Duration
	DBTimeout        time.Duration
	StatementTimeout time.Duration
	AssetCache       int
	Lease            bool

	Horizon horizon.Options
}

// FromConfig reads SDEX_INDEXER_* and SDEX_HORIZON_* from cfg
func FromConfig(cfg config.Conf) Options {
	ix := cfg.Prefix("SDEX_INDEXER_")
	hz := cfg.Prefix("SDEX_HORIZON_")
	return Options{
		PollInterval:     ix.MayDuration("POLL_INTERVAL", 2*time.Second),
		PageLimit:        ix.MayInt("HORIZON_LIMIT", horizon.MaxLimit),
		MaxPages:         ix.MayInt("MAX_PAGES", 50),
		RPS:              ix.MayFloat64("RPS", 5),
		MaxRetries:       ix.MayInt("MAX_RETRIES", 5),
		RetryInitial:     ix.MayDuration("RETRY_INITIAL", 500*time.Millisecond),
		RetryMax:         ix.MayDuration("RETRY_MAX", 30*time.Second),
		MaxElapsed:       ix.MayDuration("MAX_ELAPSED", time.Minute),
		PageTimeout:      ix.MayDuration("PAGE_TIMEOUT", 0),
		DBTimeout:        ix.MayDuration("DB_TIMEOUT", 30*time.Second),
		StatementTimeout: ix.MayDuration("STATEMENT_TIMEOUT", 15*time.Second),
		AssetCache:       ix.MayInt("ASSET_CACHE", 4096),
		Lease:            ix.MayBool("LEASE", true),

		Horizon: horizon.Options{
			BaseURL:   hz.MayString("URL", "https://horizon.stellar.org"),
			UserAgent: hz.MayString("USER_AGENT", ""),
			Timeout:   hz.MayDuration("TIMEOUT", 15*time.Second),
		},
	}
}
