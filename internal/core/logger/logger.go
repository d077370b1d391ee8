// Package logger provides logging utilities for the application.
package logger

import (
	"log"
	"log/slog"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// logger is the root logger. Named loggers derive from it and apply their own level filter.
var logger = zap.NewNop()

// Environment represents the application environment type.
type Environment string

const (
	// EnvironmentDevelopment represents the development environment.
	EnvironmentDevelopment Environment = "development"
	// EnvironmentProduction represents the production environment.
	EnvironmentProduction Environment = "production"
)

// LogLevel represents the logging level type.
type LogLevel string

const (
	// LogLevelDebug represents the debug logging level.
	LogLevelDebug LogLevel = "debug"
	// Info represents the info logging level.
	Info LogLevel = "info"
	// Warn represents the warn logging level.
	Warn LogLevel = "warn"
	// Error represents the error logging level.
	Error LogLevel = "error"
)

// InitLogger initializes the root logger for the given environment.
// logLevel is the global default, levels holds per-logger overrides such as {"core.db": "debug"}.
func InitLogger(environment Environment, logLevel LogLevel, levels map[string]string) {
	var cfg zap.Config

	if environment == EnvironmentDevelopment {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	// 根 logger 放行所有级别，具体过滤交给 Named 返回的 levelFilterCore
	cfg.Level.SetLevel(zapcore.DebugLevel)

	built, err := cfg.Build()
	if err != nil {
		log.Printf("Failed to initialize zap logger: %v", err)
		os.Exit(1)
	}
	logger = built

	InitLevelConfig(levels, getZapLevel(string(logLevel)))

	// Redirect standard log to zap
	zap.RedirectStdLog(Named("std"))

	// Redirect slog to zap (used by testcontainers and migrate internals)
	slog.SetDefault(slog.New(zapslog.NewHandler(Named("slog").Core())))
}

// Named returns a child logger whose level is resolved from the hierarchical level config.
// The level is looked up on every entry, so ReloadLevels takes effect on existing loggers.
func Named(name string) *zap.Logger {
	return logger.Named(name).WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &levelFilterCore{Core: core, name: name}
	}))
}

// ReloadLevels replaces the global level and the per-logger overrides at runtime.
func ReloadLevels(logLevel LogLevel, levels map[string]string) {
	InitLevelConfig(levels, getZapLevel(string(logLevel)))
	Named("core.logger").Info("log levels reloaded",
		zap.String("level", string(logLevel)),
		zap.Any("levels", levels),
	)
}

// Sync flushes any buffered entries of the root logger.
func Sync() {
	_ = logger.Sync()
}

func getZapLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
