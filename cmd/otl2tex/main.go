package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/otlkit/go-otl2tex/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, args, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Printf("otl2tex %s\n", Version)
		os.Exit(ExitSuccess)
	}

	logger := newLogger(flags.verbose, flags.quiet)
	defer func() { _ = logger.Sync() }()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, fmtArgs ...interface{}) {
		logger.Debug(fmt.Sprintf(format, fmtArgs...))
	}))

	cfg := config.DefaultConfig()
	if flags.config != "" {
		cfg, err = config.LoadConfig(flags.config)
		if err != nil {
			logger.Error("loading config", zap.Error(err))
			os.Exit(exitCodeFor(err))
		}
	}

	if err := runConvert(context.Background(), args, flags, cfg, logger); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
