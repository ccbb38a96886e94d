package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the console logger. Info and below go to stdout, errors
// to stderr; --quiet keeps only errors, --verbose enables debug output.
func newLogger(verbose, quiet bool) *zap.Logger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(ec)

	low := zapcore.InfoLevel
	if verbose {
		low = zapcore.DebugLevel
	}

	highPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	lowPriority := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return low <= lvl && lvl < zapcore.ErrorLevel
	})

	stdoutCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lowPriority)
	if quiet {
		stdoutCore = zapcore.NewNopCore()
	}
	stderrCore := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), highPriority)

	return zap.New(zapcore.NewTee(stdoutCore, stderrCore))
}
