package otl2tex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/otlkit/go-otl2tex/internal/dateutil"
)

// DefaultFormat is the style code applied when neither the converter nor the
// input specifies one: sections for the first three depths, plain lines below.
const DefaultFormat = "SSSN"

// DefaultDateFormat is the banner date format (dateutil token syntax).
const DefaultDateFormat = "YYYY-MM-DD"

// Patterns for the pre-render preamble scan.
var (
	documentclassPattern = regexp.MustCompile(`(?i)^!documentclass\s*(\S.*)?$`)
	preambleLinePattern  = regexp.MustCompile(`(?i)^!preamble\s+(\S.*)$`)
)

// FileReader abstracts file access for !include, so tests can render
// inclusions without touching the filesystem.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// DirFileReader reads files from the OS filesystem, resolving relative paths
// against Base when one is set. The zero value resolves against the process
// working directory.
type DirFileReader struct {
	Base string
}

func (d DirFileReader) ReadFile(path string) ([]byte, error) {
	if d.Base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(d.Base, path)
	}
	return os.ReadFile(path) // #nosec G304 -- include paths come from the author's own document
}

// Input is one conversion request.
type Input struct {
	Outline    string // outline document content
	SourceName string // label used in source annotations (defaults to "outline")
	Format     string // style code override for this document (empty = converter default)
}

// Result holds the conversion output. Body is the rendered document body
// without header and footer, kept for debugging.
type Result struct {
	Document string
	Body     string
}

// Converter turns outline documents into complete LaTeX documents.
// Create with NewConverter; a Converter is pure and safe to reuse across
// inputs (each Convert call runs with fresh render state).
type Converter struct {
	table           StyleTable
	format          string
	dateFormat      string
	eval            Evaluator
	files           FileReader
	showPreliminary bool
	noEscape        bool
	now             func() time.Time
}

// Option customizes a Converter.
type Option func(*Converter)

// WithStyleTable replaces the default style table.
func WithStyleTable(table StyleTable) Option {
	return func(c *Converter) { c.table = table }
}

// WithFormat sets the default style code.
func WithFormat(code string) Option {
	return func(c *Converter) { c.format = code }
}

// WithEvaluator injects the script-evaluation capability used by !ruby.
func WithEvaluator(eval Evaluator) Option {
	return func(c *Converter) { c.eval = eval }
}

// WithFileReader injects the file access used by !include.
func WithFileReader(files FileReader) Option {
	return func(c *Converter) { c.files = files }
}

// WithDateFormat sets the banner date format (dateutil token syntax).
func WithDateFormat(format string) Option {
	return func(c *Converter) { c.dateFormat = format }
}

// WithShowPreliminary renders !preliminary lines as content from the start,
// as if every document began with !showPreliminary.
func WithShowPreliminary() Option {
	return func(c *Converter) { c.showPreliminary = true }
}

// WithoutEscaping disables character escaping from the start, as if every
// document began with !escape 0.
func WithoutEscaping() Option {
	return func(c *Converter) { c.noEscape = true }
}

// NewConverter creates a Converter with default configuration. Returns an
// error if the default style code or the banner date format is unusable.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		table:      DefaultStyleTable(),
		format:     DefaultFormat,
		dateFormat: DefaultDateFormat,
		eval:       noEvaluator{},
		files:      DirFileReader{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if _, err := ParseStyleCode(c.table, c.format); err != nil {
		return nil, err
	}
	if _, err := dateutil.ParseDateFormat(c.dateFormat); err != nil {
		return nil, err
	}
	return c, nil
}

// Convert runs the full pipeline: parse the outline, collect preamble
// directives, render the body, and assemble the document around it.
func (c *Converter) Convert(ctx context.Context, input Input) (*Result, error) {
	if strings.TrimSpace(input.Outline) == "" {
		return nil, ErrEmptyOutline
	}

	name := input.SourceName
	if name == "" {
		name = "outline"
	}
	format := input.Format
	if format == "" {
		format = c.format
	}

	forest, err := ParseOutlineString(input.Outline, name)
	if err != nil {
		return nil, err
	}

	stack, err := ParseStyleCode(c.table, format)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	class, preamble := collectPreamble(forest)

	renderer := &Renderer{
		Table:           c.table,
		Files:           c.files,
		Eval:            c.eval,
		ShowPreliminary: c.showPreliminary,
		NoEscape:        c.noEscape,
	}
	body, err := renderer.RenderForest(forest, stack)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	doc := c.assemble(name, class, preamble, body)
	return &Result{Document: doc, Body: body}, nil
}

// collectPreamble walks the whole tree gathering !documentclass arguments
// and !preamble lines in document order. The last !documentclass wins.
func collectPreamble(nodes []*Node) (class string, preamble []string) {
	for _, n := range nodes {
		if !n.Placeholder {
			if m := documentclassPattern.FindStringSubmatch(n.Value); m != nil {
				if m[1] != "" {
					class = m[1]
				}
			} else if m := preambleLinePattern.FindStringSubmatch(n.Value); m != nil {
				preamble = append(preamble, m[1])
			}
		}
		childClass, childPreamble := collectPreamble(n.Children)
		if childClass != "" {
			class = childClass
		}
		preamble = append(preamble, childPreamble...)
	}
	return class, preamble
}

// assemble wraps the rendered body with the banner, documentclass line,
// preamble, and the document environment.
func (c *Converter) assemble(name, class string, preamble []string, body string) string {
	goFormat, err := dateutil.ParseDateFormat(c.dateFormat)
	if err != nil {
		// Validated in NewConverter; fall back rather than fail the run.
		goFormat = "2006-01-02"
	}
	date := c.now().Format(goFormat)

	if class == "" {
		class = "{article}"
	}

	var out strings.Builder
	fmt.Fprintf(&out, "%% Generated by otl2tex from %s on %s. DO NOT EDIT.\n", name, date)
	writeLine(&out, `\documentclass`+class)
	writeLine(&out, `\usepackage{hyperref}`)
	for _, line := range preamble {
		writeLine(&out, line)
	}
	writeLine(&out, `\begin{document}`)
	out.WriteString(body)
	writeLine(&out, `\end{document}`)
	return out.String()
}
