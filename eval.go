package otl2tex

// Evaluator is the injected script-evaluation capability behind the !ruby
// directive. Implementations receive the flattened subtree lines and return
// the lines to splice into the output. The library makes no assumption about
// how the lines are executed; the CLI supplies a ruby subprocess, tests
// supply fakes.
//
// A failing evaluation must return an error; the renderer converts it into
// an inline diagnostic block instead of aborting the run.
type Evaluator interface {
	Evaluate(lines []string, verbose bool) ([]string, error)
}

// noEvaluator is the default when no capability was injected. Every call
// fails, which routes !ruby directives to the diagnostic path.
type noEvaluator struct{}

func (noEvaluator) Evaluate([]string, bool) ([]string, error) {
	return nil, ErrNoEvaluator
}
