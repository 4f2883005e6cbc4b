// Package obs centralizes structured logging for the engine and CLI,
// grounded in the ecosystem convention (go.uber.org/zap) that the broader
// retrieval pack uses for this role (e.g. TEENet-io-prime-service,
// prysmaticlabs-prysm) rather than the teacher's bare fmt.Fprintf status
// lines. Only session-level and tuning events are logged; the EratSmall/
// Medium/Big hot loops never touch a logger.
package obs

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once   sync.Once
	logger *zap.Logger
)

// L returns the process-wide logger, building a sane production logger
// (JSON off, console-friendly) on first use.
func L() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		built, err := cfg.Build()
		if err != nil {
			logger = zap.NewNop()
			return
		}
		logger = built
	})
	return logger
}

// SetLogger overrides the process-wide logger, used by the CLI's -q/--quiet
// flag to swap in a no-op logger.
func SetLogger(l *zap.Logger) {
	once.Do(func() {})
	logger = l
}

// Sync flushes buffered log entries; call before process exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
