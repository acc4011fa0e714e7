package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu           sync.RWMutex
	globalLogger = zap.NewNop()
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Options controls how the global logger is built.
type Options struct {
	Level    string
	Encoding string // "json" (default) or "console"
	Service  string // attached to every entry when set
}

// Init configures the global logger with JSON output at the given level.
func Init(level string) error {
	return InitWithOptions(Options{Level: level})
}

// InitWithOptions builds the global logger. An empty level means info.
func InitWithOptions(opts Options) error {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(opts.Encoding), "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if service := strings.TrimSpace(opts.Service); service != "" {
		cfg.InitialFields = map[string]any{"service": service}
	}

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("logger: build: %w", err)
	}

	mu.Lock()
	defer mu.Unlock()
	globalLogger = built
	globalLevel = cfg.Level
	return nil
}

// SetLevel changes the level of the logger built by InitWithOptions without rebuilding it.
func SetLevel(level string) error {
	parsed, err := parseLevel(level)
	if err != nil {
		return err
	}

	mu.RLock()
	defer mu.RUnlock()
	globalLevel.SetLevel(parsed)
	return nil
}

func parseLevel(raw string) (zapcore.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("logger: %w", err)
	}
	return level, nil
}

// Replace swaps the global logger, typically with an observer in tests. nil installs a no-op
// logger.
func Replace(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mu.Lock()
	defer mu.Unlock()
	globalLogger = logger
}

// Logger returns the global logger.
func Logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// Sync flushes buffered entries.
func Sync() error {
	return Logger().Sync()
}

// WithModule returns a child logger tagged with the module name.
func WithModule(module string) *zap.Logger {
	return Logger().With(zap.String("module", module))
}
