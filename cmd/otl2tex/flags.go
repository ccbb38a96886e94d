package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all flags for the otl2tex command.
type cliFlags struct {
	config          string
	format          string
	outputDir       string
	ruby            string
	noRuby          bool
	dateFormat      string
	showPreliminary bool
	noEscape        bool
	verbose         bool
	quiet           bool
	version         bool
}

// parseFlags parses command-line arguments. It returns the flags, the
// positional arguments (outline files), and any parse error.
func parseFlags(args []string) (*cliFlags, []string, error) {
	flags := &cliFlags{}

	fs := flag.NewFlagSet("otl2tex", flag.ContinueOnError)
	fs.StringVarP(&flags.config, "config", "c", "", "config file name or path")
	fs.StringVarP(&flags.format, "format", "f", "", "default style code (e.g. SSN)")
	fs.StringVarP(&flags.outputDir, "output-dir", "o", "", "directory for generated .tex files (default: next to input)")
	fs.StringVar(&flags.ruby, "ruby", "", "ruby interpreter for !ruby directives (default: ruby from PATH)")
	fs.BoolVar(&flags.noRuby, "no-ruby", false, "disable !ruby evaluation (directives render diagnostics)")
	fs.StringVar(&flags.dateFormat, "date-format", "", "banner date format (tokens or preset: iso, european, us, long)")
	fs.BoolVar(&flags.showPreliminary, "show-preliminary", false, "render !preliminary lines as content")
	fs.BoolVar(&flags.noEscape, "no-escape", false, "disable character escaping")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose output")
	fs.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress non-error output")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: otl2tex [flags] file.otl [file.otl ...]\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}
