package store

import (
	"time"

	"sdexindex/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName is reported to postgres as application_name and to clickhouse as the client role
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds boot pings, default 8
	ConnectRetries uint64
	// PingTimeout bounds each boot ping, default 3s
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// Tag is reported in client info, usually the build version
	Tag string
}

// ConfigFrom reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* under root
// the postgres URL falls back to DATABASE_URL; clickhouse stays off unless ENABLED is set
func ConfigFrom(root config.Conf, app, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:     true,
			URL:         root.FirstString("", "SERVICE_PGSQL_DBURL", "DATABASE_URL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 0),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: CHConfig{
			Enabled: ch.MayBool("ENABLED", false),
			URL:     ch.MayString("DBURL", ""),
			Tag:     tag,
		},
	}
}
