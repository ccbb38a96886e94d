package otl2tex

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func fixedClock() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestConverter(t *testing.T, opts ...Option) *Converter {
	t.Helper()
	conv, err := NewConverter(opts...)
	if err != nil {
		t.Fatalf("NewConverter error: %v", err)
	}
	conv.now = fixedClock
	return conv
}

func TestConvertAssemblesDocument(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithFormat("SN"))
	result, err := conv.Convert(context.Background(), Input{
		Outline:    "Title\n\tbody text",
		SourceName: "notes.otl",
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	want := "% Generated by otl2tex from notes.otl on 2025-06-01. DO NOT EDIT.\n" +
		"\\documentclass{article}\n" +
		"\\usepackage{hyperref}\n" +
		"\\begin{document}\n" +
		"\\section{Title} % notes.otl:1\n" +
		"  body text % notes.otl:2\n" +
		"\\end{document}\n"
	if result.Document != want {
		t.Errorf("got:\n%s\nwant:\n%s", result.Document, want)
	}

	if !strings.HasPrefix(result.Body, "\\section{Title}") {
		t.Errorf("Body = %q, want rendered body without header", result.Body)
	}
}

func TestConvertCollectsPreamble(t *testing.T) {
	t.Parallel()

	outline := "!documentclass[12pt]{book}\n" +
		"!preamble \\usepackage{graphicx}\n" +
		"Top\n" +
		"\t!preamble \\usepackage{amsmath}\n"

	conv := newTestConverter(t)
	result, err := conv.Convert(context.Background(), Input{Outline: outline})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}

	doc := result.Document
	if !strings.Contains(doc, "\\documentclass[12pt]{book}\n") {
		t.Errorf("documentclass args not applied:\n%s", doc)
	}

	// Preamble lines appear in document order, before \begin{document}.
	graphicx := strings.Index(doc, "\\usepackage{graphicx}")
	amsmath := strings.Index(doc, "\\usepackage{amsmath}")
	begin := strings.Index(doc, "\\begin{document}")
	if graphicx == -1 || amsmath == -1 || graphicx > amsmath || amsmath > begin {
		t.Errorf("preamble lines missing or out of order:\n%s", doc)
	}

	// The directives themselves do not render in the body.
	if strings.Contains(result.Body, "preamble") || strings.Contains(result.Body, "documentclass") {
		t.Errorf("preamble directives leaked into body:\n%s", result.Body)
	}
}

func TestConvertDefaultsSourceName(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t)
	result, err := conv.Convert(context.Background(), Input{Outline: "line"})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Body, "% outline:1") {
		t.Errorf("default source name missing: %q", result.Body)
	}
}

func TestConvertInputFormatOverride(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithFormat("N"))
	result, err := conv.Convert(context.Background(), Input{
		Outline: "Heading",
		Format:  "S",
	})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Body, "\\section{Heading}") {
		t.Errorf("per-input format not applied: %q", result.Body)
	}
}

func TestConvertErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Input
		wantErr error
	}{
		{name: "empty outline", input: Input{Outline: ""}, wantErr: ErrEmptyOutline},
		{name: "whitespace outline", input: Input{Outline: "  \n\t\n"}, wantErr: ErrEmptyOutline},
		{name: "bad format code", input: Input{Outline: "x", Format: "Z"}, wantErr: ErrUnknownStyle},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := newTestConverter(t)
			_, err := conv.Convert(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convert error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewConverterValidatesOptions(t *testing.T) {
	t.Parallel()

	if _, err := NewConverter(WithFormat("ZZ")); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("bad default format: error = %v, want ErrUnknownStyle", err)
	}
	if _, err := NewConverter(WithDateFormat("[unclosed")); err == nil {
		t.Error("bad date format accepted")
	}
}

func TestConvertCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := newTestConverter(t)
	_, err := conv.Convert(ctx, Input{Outline: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Convert error = %v, want context.Canceled", err)
	}
}

func TestConvertBannerDateFormat(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithDateFormat("long"))
	result, err := conv.Convert(context.Background(), Input{Outline: "x"})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Document, "June 1, 2025") {
		t.Errorf("banner date not formatted with preset:\n%s", result.Document)
	}
}

func TestConvertShowPreliminaryOption(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithFormat("N"), WithShowPreliminary())
	result, err := conv.Convert(context.Background(), Input{Outline: "!preliminary draft text"})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Body, "draft text") || strings.Contains(result.Body, "% draft text") {
		t.Errorf("preliminary line not rendered as content: %q", result.Body)
	}
}

func TestConvertWithoutEscapingOption(t *testing.T) {
	t.Parallel()

	conv := newTestConverter(t, WithFormat("N"))
	result, err := conv.Convert(context.Background(), Input{Outline: "50% off"})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Body, `50\% off`) {
		t.Errorf("escaping not applied by default: %q", result.Body)
	}

	conv = newTestConverter(t, WithFormat("N"), WithoutEscaping())
	result, err = conv.Convert(context.Background(), Input{Outline: "50% off"})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Body, "50% off") || strings.Contains(result.Body, `\%`) {
		t.Errorf("escaping not disabled: %q", result.Body)
	}
}

func TestConvertCustomStyleTable(t *testing.T) {
	t.Parallel()

	table := DefaultStyleTable()
	table["Q"] = Style{ID: "Q", Before: `\begin{quote}`, After: `\end{quote}`}

	conv := newTestConverter(t, WithStyleTable(table), WithFormat("Q"))
	result, err := conv.Convert(context.Background(), Input{Outline: "quoted"})
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(result.Body, `\begin{quote}quoted\end{quote}`) {
		t.Errorf("custom style not applied: %q", result.Body)
	}
}
