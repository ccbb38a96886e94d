package otl2tex

import (
	"fmt"
	"regexp"
	"strings"
)

// OutlineExt is the extension marking files that !include parses as outlines.
// Anything else is copied to the output verbatim.
const OutlineExt = ".otl"

// Precompiled directive and URL patterns, matched in dispatch order.
var (
	bareURLPattern = regexp.MustCompile(`^(?:ftp|http|https)://\S+$`)

	includePattern  = regexp.MustCompile(`(?i)^!include(-)?\s+(\S.*)$`)
	verbatimPattern = regexp.MustCompile(`(?i)^!verbatim\b ?(.*)$`)
	preamblePattern = regexp.MustCompile(`(?i)^!(?:documentclass|preamble)\b`)
	showPrelPattern = regexp.MustCompile(`(?i)^!showpreliminary\s*$`)
	commentPattern  = regexp.MustCompile(`(?i)^!comment\b ?(.*)$`)
	prelimPattern   = regexp.MustCompile(`(?i)^!preliminary\b ?(.*)$`)
	escapePattern   = regexp.MustCompile(`(?i)^!escape\s+(\S+)\s*$`)
	formatPattern   = regexp.MustCompile(`(?i)^!(tmp)?format\s+(\S+)\s*$`)
	rubyPattern     = regexp.MustCompile(`(?i)^!ruby(-verbose)?\b ?(.*)$`)
)

// Renderer walks a parsed forest and produces the LaTeX body. The zero value
// is not usable; construct through Converter or fill every field.
type Renderer struct {
	Table StyleTable
	Files FileReader
	Eval  Evaluator

	// ShowPreliminary starts the render as if !showPreliminary had already
	// been seen; NoEscape starts it as if !escape 0 had.
	ShowPreliminary bool
	NoEscape        bool
}

// renderContext carries the state shared by reference across one whole
// render: the include-once registry, the show-preliminary flag, and the
// pending temporary-format restoration point. Keeping it explicit (rather
// than process-global) keeps renders re-entrant.
type renderContext struct {
	included        map[string]bool
	showPreliminary bool

	// tmpRestore remembers the stack in effect before a !tmpformat switch.
	// The first qualifying line after the switch renders in the temporary
	// style; the second closes the temporary run and restores this stack.
	tmpRestore *StyleStack
	tmpUsed    bool
}

func newRenderContext() *renderContext {
	return &renderContext{included: map[string]bool{}}
}

// renderState is the per-sibling-list mutable state of one renderNodes call.
type renderState struct {
	depth   int
	stack   StyleStack
	escape  bool
	runOpen bool // Begin marker emitted at this depth, End pending
	inMath  bool // math-mode state threaded across sibling lines
}

// dispatchResult reports what a directive handler did with a node.
type dispatchResult int

const (
	dispatchNone      dispatchResult = iota // not a directive: generic path
	dispatchHandled                         // directive consumed the node
	dispatchRewritten                       // value rewritten: generic path, no re-dispatch
)

// RenderForest renders a forest starting at depth 0 with the given stack,
// returning the produced markup.
func (r *Renderer) RenderForest(forest []*Node, stack StyleStack) (string, error) {
	var out strings.Builder
	ctx := newRenderContext()
	ctx.showPreliminary = r.ShowPreliminary
	if _, _, err := r.renderNodes(&out, forest, 0, stack, !r.NoEscape, ctx); err != nil {
		return "", err
	}
	return out.String(), nil
}

// renderNodes renders one sibling list. It returns the possibly updated
// stack and escaping flag so that directives encountered inside the list (or
// deeper) remain in effect for subsequent siblings of the caller.
func (r *Renderer) renderNodes(out *strings.Builder, nodes []*Node, depth int, stack StyleStack, escape bool, ctx *renderContext) (StyleStack, bool, error) {
	st := &renderState{depth: depth, stack: stack, escape: escape}

	for i, node := range nodes {
		foldURL(node)

		res, err := r.dispatch(out, node, st, ctx)
		if err != nil {
			return st.stack, st.escape, err
		}
		if res == dispatchHandled {
			continue
		}

		var next *Node
		if i+1 < len(nodes) {
			next = nodes[i+1]
		}
		if err := r.renderPlain(out, node, next, st, ctx); err != nil {
			return st.stack, st.escape, err
		}
	}

	r.closeRun(out, st)
	return st.stack, st.escape, nil
}

// foldURL absorbs a sole bare-URL child into its parent as a hyperlink.
// One-level lookahead only: the child must itself be childless.
func foldURL(node *Node) {
	if len(node.Children) == 0 {
		return
	}
	first := node.Children[0]
	if first.Placeholder || len(first.Children) > 0 {
		return
	}
	if !bareURLPattern.MatchString(first.Value) {
		return
	}
	node.Link = first.Value
	node.Children = node.Children[1:]
}

// dispatch matches a node value against the directive table in priority
// order. Unrecognized !-prefixed values fall through to the generic path and
// render as literal text; directive-name validation is deliberately absent.
func (r *Renderer) dispatch(out *strings.Builder, node *Node, st *renderState, ctx *renderContext) (dispatchResult, error) {
	if node.Placeholder || !strings.HasPrefix(node.Value, "!") {
		return dispatchNone, nil
	}

	if m := includePattern.FindStringSubmatch(node.Value); m != nil {
		return dispatchHandled, r.include(out, node, m[1] == "-", strings.Fields(m[2]), st, ctx)
	}
	if m := verbatimPattern.FindStringSubmatch(node.Value); m != nil {
		r.verbatim(out, node, m[1])
		return dispatchHandled, nil
	}
	if preamblePattern.MatchString(node.Value) {
		// Preamble and documentclass lines are collected before rendering
		// begins; nothing to do during the tree walk.
		return dispatchHandled, nil
	}
	if showPrelPattern.MatchString(node.Value) {
		ctx.showPreliminary = true
		return dispatchHandled, nil
	}
	if m := commentPattern.FindStringSubmatch(node.Value); m != nil {
		writeLine(out, indent(st.depth)+"% "+m[1])
		return dispatchHandled, nil
	}
	if m := prelimPattern.FindStringSubmatch(node.Value); m != nil {
		if !ctx.showPreliminary {
			writeLine(out, indent(st.depth)+"% "+m[1])
			return dispatchHandled, nil
		}
		node.Value = m[1]
		return dispatchRewritten, nil
	}
	if m := escapePattern.FindStringSubmatch(node.Value); m != nil {
		st.escape = m[1] == "1" || strings.EqualFold(m[1], "true")
		return dispatchHandled, nil
	}
	if m := formatPattern.FindStringSubmatch(node.Value); m != nil {
		return dispatchHandled, r.format(out, strings.EqualFold(m[1], "tmp"), m[2], st, ctx)
	}
	if m := rubyPattern.FindStringSubmatch(node.Value); m != nil {
		r.ruby(out, node, m[1] != "", m[2])
		return dispatchHandled, nil
	}

	return dispatchNone, nil
}

// include processes one !include[-] directive. Outline files are parsed and
// rendered in place at the current depth and stack, so inclusion is
// transparent to nesting and styling; anything else is copied verbatim.
// The registry is shared across the whole run: a path skipped here may have
// been included by a sibling branch rendered earlier.
func (r *Renderer) include(out *strings.Builder, node *Node, once bool, paths []string, st *renderState, ctx *renderContext) error {
	writeLine(out, indent(st.depth)+"% "+node.Value)

	for _, path := range paths {
		if once && ctx.included[path] {
			continue
		}
		ctx.included[path] = true

		data, err := r.Files.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrIncludeRead, path, err)
		}

		if strings.HasSuffix(path, OutlineExt) {
			forest, err := ParseOutlineString(string(data), path)
			if err != nil {
				return err
			}
			st.stack, st.escape, err = r.renderNodes(out, forest, st.depth, st.stack, st.escape, ctx)
			if err != nil {
				return err
			}
			continue
		}

		text := strings.TrimRight(string(data), "\n")
		if text != "" {
			writeLine(out, text)
		}
	}
	return nil
}

// verbatim emits the trailing text and each direct child's raw value with no
// escaping, no style wrapping, and no recursion into grandchildren.
func (r *Renderer) verbatim(out *strings.Builder, node *Node, trailing string) {
	if trailing != "" {
		writeLine(out, trailing)
	}
	for _, child := range node.Children {
		if child.Placeholder {
			continue
		}
		writeLine(out, child.Value)
	}
}

// format handles !format and !tmpformat: close the open run at this depth,
// then swap in a stack updated from the new code suffix. A temporary switch
// remembers the pre-switch stack unless a restoration is already pending.
func (r *Renderer) format(out *strings.Builder, tmp bool, code string, st *renderState, ctx *renderContext) error {
	r.closeRun(out, st)

	prev := st.stack
	next, err := st.stack.Update(r.Table, st.depth, code)
	if err != nil {
		return err
	}
	st.stack = next

	if tmp && ctx.tmpRestore == nil {
		ctx.tmpRestore = &prev
		ctx.tmpUsed = false
	}
	return nil
}

// ruby flattens the node's subtree into lines, hands them to the injected
// evaluator, and splices the returned lines into the output verbatim. An
// evaluator failure becomes an inline diagnostic block; it never aborts the
// run.
func (r *Renderer) ruby(out *strings.Builder, node *Node, verbose bool, inline string) {
	var lines []string
	if inline != "" {
		lines = append(lines, inline)
	}
	lines = flattenValues(node.Children, lines)

	eval := r.Eval
	if eval == nil {
		eval = noEvaluator{}
	}
	result, err := eval.Evaluate(lines, verbose)
	if err != nil {
		writeLine(out, `\begin{verbatim}`)
		writeLine(out, "! script evaluation failed: "+err.Error())
		for _, line := range lines {
			writeLine(out, line)
		}
		writeLine(out, `\end{verbatim}`)
		return
	}
	for _, line := range result {
		writeLine(out, line)
	}
}

// flattenValues appends the values of a subtree depth-first, skipping
// placeholders but still descending through them.
func flattenValues(nodes []*Node, acc []string) []string {
	for _, n := range nodes {
		if !n.Placeholder {
			acc = append(acc, n.Value)
		}
		acc = flattenValues(n.Children, acc)
	}
	return acc
}

// renderPlain is the generic (non-directive) rendering path.
func (r *Renderer) renderPlain(out *strings.Builder, node, next *Node, st *renderState, ctx *renderContext) error {
	if node.Placeholder {
		// The tree builder bridged an indentation jump here and nothing
		// ever supplied content: the outline skipped or doubled a level.
		return fmt.Errorf("%w: %s", ErrEmptyNode, node.Source)
	}

	value := node.Value
	isCont := strings.HasPrefix(value, " ")
	if isCont {
		value = value[1:]
	}
	nextCont := next != nil && !next.Placeholder && strings.HasPrefix(next.Value, " ")

	// Temporary-format bookkeeping: the first qualifying (non-continuation)
	// line after the switch uses the temporary style, the second restores
	// the remembered stack before it renders.
	if !isCont && ctx.tmpRestore != nil {
		if !ctx.tmpUsed {
			ctx.tmpUsed = true
		} else {
			r.closeRun(out, st)
			st.stack = *ctx.tmpRestore
			ctx.tmpRestore = nil
			ctx.tmpUsed = false
		}
	}

	style := st.stack.At(st.depth)
	if style.Begin != "" && !st.runOpen {
		writeLine(out, indent(st.depth)+style.Begin+annotate(node.Source))
		st.runOpen = true
	}

	text := value
	if st.escape {
		text, st.inMath = Escape(text, st.inMath)
	}
	if node.Link != "" {
		text = fmt.Sprintf(`\href{%s}{%s}`, node.Link, text)
	}

	before := style.Before
	if isCont {
		before = strings.Repeat(" ", len(style.Before))
	}
	after := ""
	if !nextCont {
		after = style.After
	}
	writeLine(out, indent(st.depth)+before+text+after+annotate(node.Source))

	if len(node.Children) > 0 {
		var err error
		st.stack, st.escape, err = r.renderNodes(out, node.Children, st.depth+1, st.stack, st.escape, ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// closeRun emits the End marker of the style open at the current depth, if a
// run is open and the style declares one.
func (r *Renderer) closeRun(out *strings.Builder, st *renderState) {
	if !st.runOpen {
		return
	}
	if end := st.stack.At(st.depth).End; end != "" {
		writeLine(out, indent(st.depth)+end)
	}
	st.runOpen = false
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

// annotate builds the trailing source-label comment. Nodes constructed
// without a source (in tests, typically) get no annotation.
func annotate(source string) string {
	if source == "" {
		return ""
	}
	return " % " + source
}

func writeLine(out *strings.Builder, line string) {
	out.WriteString(line)
	out.WriteByte('\n')
}
