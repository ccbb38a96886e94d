package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	otl2tex "github.com/otlkit/go-otl2tex"
	"github.com/otlkit/go-otl2tex/internal/config"
	"github.com/otlkit/go-otl2tex/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput          = errors.New("no input specified")
	ErrInvalidExtension = errors.New("file must have .otl extension")
	ErrReadOutline      = errors.New("failed to read outline file")
	ErrWriteTeX         = errors.New("failed to write tex file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	File     FileToConvert
	Err      error
	Duration time.Duration
}

// runConvert converts every positional argument, concurrently across files.
// Each file gets its own Converter so include paths resolve relative to that
// file's directory; the library itself is pure, nothing is shared between
// runs. Per-file failures are aggregated, not short-circuited.
func runConvert(ctx context.Context, args []string, flags *cliFlags, cfg *config.Config, logger *zap.Logger) error {
	files, err := resolveFiles(args, flags, cfg)
	if err != nil {
		return err
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		i, file := i, file
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := convertFile(ctx, file, flags, cfg)
			results[i] = ConversionResult{File: file, Err: err, Duration: time.Since(start)}
		}()
	}
	wg.Wait()

	var combined error
	for _, res := range results {
		if res.Err != nil {
			logger.Error("conversion failed",
				zap.String("input", res.File.InputPath),
				zap.Error(res.Err))
			combined = multierr.Append(combined, fmt.Errorf("%s: %w", res.File.InputPath, res.Err))
			continue
		}
		logger.Info("created",
			zap.String("output", res.File.OutputPath),
			zap.Duration("took", res.Duration))
	}
	return combined
}

// resolveFiles validates the inputs and derives the output path for each.
func resolveFiles(args []string, flags *cliFlags, cfg *config.Config) ([]FileToConvert, error) {
	if len(args) == 0 {
		return nil, ErrNoInput
	}

	outDir := flags.outputDir
	if outDir == "" {
		outDir = cfg.Output.DefaultDir
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, dirPermissions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteTeX, err)
		}
	}

	files := make([]FileToConvert, 0, len(args))
	for _, input := range args {
		if filepath.Ext(input) != otl2tex.OutlineExt {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(input))
		}
		if !filepath.IsAbs(input) && cfg.Input.DefaultDir != "" && !fileutil.FileExists(input) {
			input = filepath.Join(cfg.Input.DefaultDir, input)
		}

		output := fileutil.ReplaceExt(input, ".tex")
		if outDir != "" {
			output = filepath.Join(outDir, filepath.Base(output))
		}
		files = append(files, FileToConvert{InputPath: input, OutputPath: output})
	}
	return files, nil
}

// convertFile runs the library pipeline for one outline file.
func convertFile(ctx context.Context, file FileToConvert, flags *cliFlags, cfg *config.Config) error {
	content, err := os.ReadFile(file.InputPath) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadOutline, err)
	}

	conv, err := buildConverter(file, flags, cfg)
	if err != nil {
		return err
	}

	result, err := conv.Convert(ctx, otl2tex.Input{
		Outline:    string(content),
		SourceName: filepath.Base(file.InputPath),
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(file.OutputPath, []byte(result.Document), filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteTeX, err)
	}
	return nil
}

// buildConverter assembles the library converter from flags and config.
// Flags win over config, config over library defaults.
func buildConverter(file FileToConvert, flags *cliFlags, cfg *config.Config) (*otl2tex.Converter, error) {
	opts := []otl2tex.Option{
		otl2tex.WithFileReader(otl2tex.DirFileReader{Base: filepath.Dir(file.InputPath)}),
	}

	if len(cfg.Styles) > 0 {
		table := otl2tex.DefaultStyleTable()
		for _, s := range cfg.Styles {
			table[s.ID] = otl2tex.Style{ID: s.ID, Before: s.Before, After: s.After, Begin: s.Begin, End: s.End}
		}
		opts = append(opts, otl2tex.WithStyleTable(table))
	}

	if format := firstNonEmpty(flags.format, cfg.Format.Code); format != "" {
		opts = append(opts, otl2tex.WithFormat(format))
	}
	if dateFormat := firstNonEmpty(flags.dateFormat, cfg.Banner.DateFormat); dateFormat != "" {
		opts = append(opts, otl2tex.WithDateFormat(dateFormat))
	}

	if flags.showPreliminary {
		opts = append(opts, otl2tex.WithShowPreliminary())
	}
	if flags.noEscape {
		opts = append(opts, otl2tex.WithoutEscaping())
	}

	if !flags.noRuby && !cfg.Ruby.Disabled {
		interpreter := firstNonEmpty(flags.ruby, cfg.Ruby.Interpreter)
		opts = append(opts, otl2tex.WithEvaluator(NewRubyEvaluator(interpreter)))
	}

	return otl2tex.NewConverter(opts...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
