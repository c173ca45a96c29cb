// Package logging builds the zap loggers shared by the client and the reference server.
package logging

import (
	"os"
	"strings"

	"github.com/ethanbaker/wikiai/pkg/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged
type Options struct {
	Level string // debug, info, warn, error
	File  string // optional rotated JSON log file
	JSON  bool   // JSON console output instead of the development encoder
	Quiet bool   // drop the console core entirely (interactive UIs)
}

// OptionsFromConfig reads LOG_LEVEL, LOG_FILE, LOG_JSON and LOG_QUIET
func OptionsFromConfig(cfg *utils.Config) Options {
	return Options{
		Level: cfg.GetWithDefault("LOG_LEVEL", "info"),
		File:  cfg.Get("LOG_FILE"),
		JSON:  cfg.GetBool("LOG_JSON"),
		Quiet: cfg.GetBool("LOG_QUIET"),
	}
}

// New creates a logger teeing a console core with an optional rotated file core
func New(opts Options) *zap.Logger {
	level := ParseLevel(opts.Level)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	var cores []zapcore.Core

	if !opts.Quiet {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		if opts.JSON {
			consoleEncoder = jsonEncoder
		}
		cores = append(cores, zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stderr), level))
	}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(jsonEncoder, zapcore.AddSync(rotator), level))
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// ParseLevel maps a level name to a zap level, defaulting to info
func ParseLevel(name string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// OrNop returns the logger, or a no-op logger when it is nil
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
