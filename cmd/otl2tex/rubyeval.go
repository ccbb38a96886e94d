package main

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/otlkit/go-otl2tex/internal/fileutil"
)

// ErrRubyEval indicates a failed !ruby script evaluation.
var ErrRubyEval = errors.New("ruby evaluation failed")

// DefaultInterpreter is used when no interpreter is configured.
const DefaultInterpreter = "ruby"

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...) // #nosec G204 -- interpreter comes from config, args from our temp file

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// RubyEvaluator implements the library's Evaluator capability by running the
// flattened directive lines as a ruby script and splicing its stdout back
// into the document.
type RubyEvaluator struct {
	Interpreter string
	Runner      CommandRunner
}

// NewRubyEvaluator creates a RubyEvaluator with a real command runner.
func NewRubyEvaluator(interpreter string) *RubyEvaluator {
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}
	return &RubyEvaluator{Interpreter: interpreter, Runner: &ExecRunner{}}
}

// Evaluate writes the lines to a temp script and runs the interpreter on it.
// verbose enables ruby's warnings (-w). The returned lines are the script's
// stdout split on newlines; stderr is folded into the error on failure so
// the renderer's diagnostic block can show it.
func (e *RubyEvaluator) Evaluate(lines []string, verbose bool) ([]string, error) {
	script := strings.Join(lines, "\n") + "\n"

	path, cleanup, err := fileutil.WriteTempFile(script, "rb")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRubyEval, err)
	}
	defer cleanup()

	args := []string{}
	if verbose {
		args = append(args, "-w")
	}
	args = append(args, path)

	stdout, stderr, err := e.Runner.Run(e.Interpreter, args...)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s", ErrRubyEval, msg)
	}

	stdout = strings.TrimRight(stdout, "\n")
	if stdout == "" {
		return nil, nil
	}
	return strings.Split(stdout, "\n"), nil
}
