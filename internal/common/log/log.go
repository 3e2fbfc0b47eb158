// Package log is a thin wrapper over zap with context-aware helpers.
// Handlers and services always log through this package so request
// scoped fields (request id, transaction id) travel with the context.
package log

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxFieldsKey struct{}

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init builds the process-wide logger. level accepts zap level names
// ("debug", "info", ...); anything unparseable falls back to info.
func Init(appName, level string) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stdout),
		lvl,
	)

	mu.Lock()
	logger = zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	).Named(appName)
	mu.Unlock()
}

// InitForTest swaps in a no-op logger so test output stays quiet.
func InitForTest() {
	mu.Lock()
	logger = zap.NewNop()
	mu.Unlock()
}

// Base returns the underlying zap logger, e.g. for the newrelic adapter.
func Base() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// WithFields returns a context carrying extra fields that every log call
// made with that context will include.
func WithFields(ctx context.Context, fields ...zap.Field) context.Context {
	existing, _ := ctx.Value(ctxFieldsKey{}).([]zap.Field)
	merged := make([]zap.Field, 0, len(existing)+len(fields))
	merged = append(merged, existing...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxFieldsKey{}, merged)
}

func fromCtx(ctx context.Context) *zap.Logger {
	l := Base()
	if ctx == nil {
		return l
	}
	if fields, ok := ctx.Value(ctxFieldsKey{}).([]zap.Field); ok {
		l = l.With(fields...)
	}
	return l
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	fromCtx(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	fromCtx(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	fromCtx(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	fromCtx(ctx).Error(msg, fields...)
}

func Debugf(ctx context.Context, format string, args ...any) {
	fromCtx(ctx).Sugar().Debugf(format, args...)
}

func Infof(ctx context.Context, format string, args ...any) {
	fromCtx(ctx).Sugar().Infof(format, args...)
}

func Warnf(ctx context.Context, format string, args ...any) {
	fromCtx(ctx).Sugar().Warnf(format, args...)
}

func Errorf(ctx context.Context, format string, args ...any) {
	fromCtx(ctx).Sugar().Errorf(format, args...)
}

func Fatalf(ctx context.Context, format string, args ...any) {
	fromCtx(ctx).Sugar().Fatalf(format, args...)
}

func Sync() {
	_ = Base().Sync()
}
