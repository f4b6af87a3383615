package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/wordsync/internal/outline"
)

// BrowseResult is what the user picked before leaving the browser.
type BrowseResult struct {
	Selected  []*outline.Node // in outline order
	Serialize bool            // user asked to serialize the selection
}

// nodeItem adapts an outline node to bubbles/list.Item.
type nodeItem struct {
	idx  int
	node *outline.Node
}

func (i nodeItem) FilterValue() string { return i.node.Title }

// Custom delegate to control how nodes render (single line)
type nodeDelegate struct {
	picked map[int]bool
}

func (d nodeDelegate) Height() int                               { return 1 }
func (d nodeDelegate) Spacing() int                              { return 0 }
func (d nodeDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d nodeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(nodeItem)
	if !ok {
		return
	}
	mark := "  "
	if d.picked[it.idx] {
		mark = successStyle.Render("✔ ")
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+mark+NodeLine(it.node))
}

type browseModel struct {
	list      list.Model
	nodes     []*outline.Node
	picked    map[int]bool
	serialize bool
}

var (
	pickBind      = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select"))
	serializeBind = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "serialize"))
)

func newBrowseModel(t *outline.Tree, name string) browseModel {
	var (
		nodes []*outline.Node
		items []list.Item
	)
	for n := range outline.DepthFirstNodes(t) {
		items = append(items, nodeItem{idx: len(nodes), node: n})
		nodes = append(nodes, n)
	}
	picked := map[int]bool{}

	l := list.New(items, nodeDelegate{picked: picked}, 0, 0)
	bound, total := OutlineStats(t)
	l.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render(name),
		successStyle.Render("●"), bound,
		pendingStyle.Render("○"), total-bound,
		accentStyle.Render("Total"), total,
	)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("heading", "headings")
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{pickBind, serializeBind} }
	l.AdditionalFullHelpKeys = func() []key.Binding { return []key.Binding{pickBind, serializeBind} }

	return browseModel{list: l, nodes: nodes, picked: picked}
}

// Browse runs the interactive outline view until the user quits.
func Browse(t *outline.Tree, name string) (BrowseResult, error) {
	p := tea.NewProgram(newBrowseModel(t, name), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return BrowseResult{}, err
	}
	fm, ok := final.(browseModel)
	if !ok {
		return BrowseResult{}, nil
	}
	return fm.result(), nil
}

func (m browseModel) result() BrowseResult {
	r := BrowseResult{Serialize: m.serialize}
	for i, n := range m.nodes {
		if m.picked[i] {
			r.Selected = append(r.Selected, n)
		}
	}
	return r
}

// Update and View implement Bubble Tea's Model on browseModel
func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := panelStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		// keys belong to the filter input while it is open
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "esc":
			// with a filter applied, esc clears it instead
			if m.list.FilterState() == list.Unfiltered {
				return m, tea.Quit
			}
		case " ":
			if it, ok := m.list.SelectedItem().(nodeItem); ok && it.node.Item != nil {
				m.picked[it.idx] = !m.picked[it.idx]
			}
			return m, nil
		case "s":
			m.serialize = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	return panelStyle.Render(m.list.View())
}
