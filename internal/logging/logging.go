// Package logging builds the run's logr.Logger on top of zap.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the log level and encoding.
type Options struct {
	Level  string // error, info or debug
	Format string // console or json
	Output io.Writer
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "error":
		return zapcore.ErrorLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	default:
		return zapcore.ErrorLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// New builds a logger writing to opts.Output (stderr when nil).
func New(opts Options) (logr.Logger, error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return logr.Discard(), err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch opts.Format {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return logr.Discard(), fmt.Errorf("unknown log format %q", opts.Format)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ws := zapcore.Lock(zapcore.AddSync(out))
	zl := zap.New(zapcore.NewCore(enc, ws, zap.NewAtomicLevelAt(lvl)))
	return zapr.NewLogger(zl), nil
}

// WithRun tags every entry of the run with a fresh run id.
func WithRun(log logr.Logger) (logr.Logger, string) {
	id := uuid.NewString()
	return log.WithValues("run", id), id
}
