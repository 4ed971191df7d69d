// Package logging builds the zap handles the rest of the module
// accepts explicitly. There is no package-level logger: construct
// one here and pass it to whatever needs it.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a production logger at the given level. Accepted
// levels are zap's: debug, info, warn, error, dpanic, panic, fatal.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

// Nop returns a logger that discards everything. It is the default
// wherever a logger handle is optional.
func Nop() *zap.Logger {
	return zap.NewNop()
}
