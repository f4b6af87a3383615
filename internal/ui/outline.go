package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/wordsync/internal/model"
	"github.com/Makepad-fr/wordsync/internal/outline"
)

const maxTitleWidth = 80

// Shorten cuts s to at most width terminal cells, ending in "..." when cut.
func Shorten(s string, width int) string {
	return ansi.Truncate(s, width, "...")
}

// OutlineLines renders the tree depth-first, indented by outline level.
func OutlineLines(t *outline.Tree) []string {
	var out []string
	for n := range outline.DepthFirstNodes(t) {
		out = append(out, NodeLine(n))
	}
	if len(out) == 0 {
		return []string{C(Current().Muted, "no headings")}
	}
	return out
}

// NodeLine is one outline row: indent, binding marker, id, title, type.
func NodeLine(n *outline.Node) string {
	th := Current()
	indent := strings.Repeat("  ", max(n.OutlineLevel-1, 0))
	title := Shorten(n.Title, maxTitleWidth)
	switch {
	case n.Item != nil:
		return fmt.Sprintf("%s%s %s %s %s", indent,
			C(th.Success, th.Bound), C(th.Accent, fmt.Sprintf("#%d", n.ID)), title,
			C(th.Muted, "("+itemType(n.Item)+")"))
	case n.ID != 0:
		return fmt.Sprintf("%s%s %s %s", indent,
			C(th.Pending, th.Bound), C(th.Error, fmt.Sprintf("#%d?", n.ID)), title)
	}
	return fmt.Sprintf("%s%s %s", indent, C(th.Muted, th.Unbound), title)
}

// OutlineStats counts nodes with a resolved work item against all nodes.
func OutlineStats(t *outline.Tree) (bound, total int) {
	for n := range outline.DepthFirstNodes(t) {
		total++
		if n.Item != nil {
			bound++
		}
	}
	return
}

func itemType(it model.WorkItem) string {
	if !it.Contains(model.FieldType) {
		return "?"
	}
	return fmt.Sprint(it.Value(model.FieldType))
}
