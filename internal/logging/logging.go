// Package logging builds the zap logger used by every command.
//
// Console output goes to stderr in console or JSON encoding. When a file is
// configured, records are also written as JSON to a lumberjack-rotated file.
// Every logger carries a run_id so lines from one invocation can be grouped.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction. Zero values mean info level, console
// encoding, stderr output and no file.
type Options struct {
	Level      string // debug, info, warn or error
	Debug      bool   // forces debug level
	Format     string // "console" or "json"
	File       string // optional path for rotated JSON logs
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Output     io.Writer // console destination, stderr when nil
}

// New returns a logger and a sync func to defer.
func New(opts Options) (*zap.Logger, func()) {
	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = zapcore.DebugLevel
	}
	enabler := zap.NewAtomicLevelAt(level)

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEnc zapcore.Encoder
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		consoleEnc = zapcore.NewJSONEncoder(encCfg)
	} else {
		devCfg := encCfg
		devCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		consoleEnc = zapcore.NewConsoleEncoder(devCfg)
	}
	cores := []zapcore.Core{zapcore.NewCore(consoleEnc, zapcore.AddSync(out), enabler)}

	var rotator *lj.Logger
	if strings.TrimSpace(opts.File) != "" {
		rotator = &lj.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), enabler))
	}

	logger := zap.New(zapcore.NewTee(cores...)).With(
		zap.String("app", "marketmap"),
		zap.String("run_id", uuid.NewString()),
	)

	return logger, func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
}

// ParseLevel converts a level name to a zap level, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
