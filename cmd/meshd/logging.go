package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/zhengfish/cloudvpn/pkg/config"
)

// newLogger builds the daemon's zap.Logger from the configured encoding,
// level and output path, the same production-config-plus-overrides shape
// the teacher's CLI uses for its node logger.
func newLogger(cfg config.Logger) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
	}

	encoding := "console"
	if cfg.LogEncoding != "" {
		encoding = cfg.LogEncoding
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.Encoding = encoding
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if term.IsTerminal(int(os.Stdout.Fd())) {
		cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cc.EncoderConfig.EncodeTime = zapcore.EpochTimeEncoder
	}
	if cfg.LogPath != "" {
		cc.OutputPaths = []string{cfg.LogPath}
	}

	return cc.Build()
}
