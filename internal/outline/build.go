package outline

import "github.com/Makepad-fr/wordsync/internal/model"

// Heading is a flat heading as read from a document.
type Heading struct {
	Level int
	Text  string
	ID    int // bound work item id, 0 if unbound
	Item  model.WorkItem
}

// Build nests headings by level: each heading goes under the closest
// earlier heading with a lower level, or becomes a root.
func Build(headings []Heading) *Tree {
	t := &Tree{}
	var stack []*Node
	for _, h := range headings {
		level := max(h.Level, 0)
		n := &Node{Title: h.Text, ID: h.ID, Item: h.Item, OutlineLevel: level}
		for len(stack) > 0 && stack[len(stack)-1].OutlineLevel >= level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			t.Add(n)
		} else {
			stack[len(stack)-1].Add(n)
		}
		stack = append(stack, n)
	}
	return t
}
