// Package logger wires zap behind a logr.Logger and carries it through
// context.Context.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

const (
	TimeStampKey = "timestamp"
	MessageKey   = "message"
	VersionKey   = "version"
	CommitKey    = "commit"
)

// Options configures Setup.
type Options struct {
	// Verbose lowers the minimum level to debug and enables logr V(1).
	Verbose bool
	// Output receives JSON log lines. Nil means stderr.
	Output io.Writer
	// Version and Commit are attached to every line when set.
	Version string
	Commit  string
}

var (
	mu sync.Mutex

	globalZapLogger  *zap.Logger
	globalLogrLogger *logr.Logger

	defaultNoopLogger = logr.Discard()
)

// Setup builds the global logger, replacing any previous one. The TUI calls it
// with a file (or io.Discard) so log lines never land on the terminal it draws.
func Setup(opts Options) *logr.Logger {
	mu.Lock()
	defer mu.Unlock()

	if globalZapLogger != nil {
		_ = globalZapLogger.Sync()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var fields []zapcore.Field
	if opts.Version != "" {
		fields = append(fields, zap.String(VersionKey, opts.Version))
	}
	if opts.Commit != "" {
		fields = append(fields, zap.String(CommitKey, opts.Commit))
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(out)),
		zap.NewAtomicLevelAt(level),
	).With(fields)

	globalZapLogger = zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
	)

	gl := zapr.NewLogger(globalZapLogger)
	globalLogrLogger = &gl
	return globalLogrLogger
}

// WithLogger returns a context carrying log.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the context logger, else the global logger, else a
// no-op logger.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	return Global()
}

// Global returns the logger built by the last Setup, or a no-op logger.
func Global() *logr.Logger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogrLogger != nil {
		return globalLogrLogger
	}
	return &defaultNoopLogger
}

// Sync flushes buffered entries. Call it before exit.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if globalZapLogger == nil {
		return
	}
	if err := globalZapLogger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync logger: %v\n", err)
	}
}

// isIgnorableSyncError matches the errors fsync returns for pipes and TTYs.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}
