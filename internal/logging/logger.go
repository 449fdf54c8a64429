// Package logging builds the operator-facing diagnostic logger. Diagnostics
// go to stderr (or any writer) so they never mix with the picker's redraws.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options tunes the logger returned by New.
type Options struct {
	// Debug lowers the level to debug so per-root scan lines and phase
	// timings are shown.
	Debug bool
	// JSON switches the encoder from console to JSON lines.
	JSON bool
}

// New creates a logger writing to w. A nil writer means stderr.
func New(w io.Writer, opts Options) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(newEncoder(opts.JSON), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core)
}

func newEncoder(json bool) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if json {
		return zapcore.NewJSONEncoder(encoderCfg)
	}
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderCfg)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
