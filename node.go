package otl2tex

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Node is one element of the parsed outline tree. A node owns its children
// exclusively; the parsed document is a pure forest of such nodes.
//
// Placeholder nodes carry no value. The tree builder inserts them when the
// source jumps more than one indentation level at once, so that a parent
// exists at every intermediate depth.
type Node struct {
	Value       string
	Placeholder bool
	Children    []*Node
	Source      string // origin label, "file:line"

	// Link is set by URL folding during rendering when a sole child line
	// holding a bare URL is absorbed into this node.
	Link string
}

// ParseOutline reads an outline document and returns its forest of root
// nodes. name is used to build per-node source labels.
//
// Depth is measured by counting tab characters: tabs are removed from the
// line and the number removed is the indentation depth. Trailing whitespace
// is stripped first; lines that are blank after stripping are skipped and do
// not affect indentation tracking. Depth bookkeeping is relative, so only
// deltas between consecutive lines matter.
func ParseOutline(r io.Reader, name string) ([]*Node, error) {
	root := &Node{Placeholder: true}
	path := []*Node{root}
	depth := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" {
			continue
		}

		content := strings.ReplaceAll(line, "\t", "")
		d := len(line) - len(content)
		source := fmt.Sprintf("%s:%d", name, lineNo)

		// Descend one level at a time. When the source jumps k>1 levels,
		// every intermediate level without an explicit parent line gets a
		// placeholder child to anchor the deeper nodes.
		for d > depth {
			top := path[len(path)-1]
			if len(top.Children) == 0 {
				top.Children = append(top.Children, &Node{Placeholder: true, Source: source})
			}
			path = append(path, top.Children[len(top.Children)-1])
			depth++
		}
		for d < depth {
			path = path[:len(path)-1]
			depth--
		}

		top := path[len(path)-1]
		top.Children = append(top.Children, &Node{Value: content, Source: source})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading outline %s: %w", name, err)
	}

	return root.Children, nil
}

// ParseOutlineString is a convenience wrapper over ParseOutline for in-memory
// documents. CRLF line endings are handled by the scanner.
func ParseOutlineString(content, name string) ([]*Node, error) {
	return ParseOutline(strings.NewReader(content), name)
}
