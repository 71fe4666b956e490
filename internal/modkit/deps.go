package modkit

import (
	"sdexindex/internal/modkit/repokit"
	"sdexindex/internal/platform/config"
	"sdexindex/internal/platform/logger"
	"sdexindex/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// CH is nil when ClickHouse is disabled, modules must check it
type Deps struct {
	Log *logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore builds Deps over an opened store
func FromStore(st *store.Store, cfg config.Conf) Deps {
	l := st.Log
	return Deps{Log: &l, Cfg: cfg, PG: st.PG, CH: st.CH}
}

// Logger returns Log or a component logger named after the module
func (d Deps) Logger(name string) *logger.Logger {
	if d.Log != nil {
		l := d.Log.With().Str("module", name).Logger()
		return &l
	}
	return logger.Named(name)
}
