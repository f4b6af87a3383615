package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/Makepad-fr/wordsync/internal/config"
	"github.com/Makepad-fr/wordsync/internal/docx"
	"github.com/Makepad-fr/wordsync/internal/model"
	"github.com/Makepad-fr/wordsync/internal/outline"
	"github.com/Makepad-fr/wordsync/internal/store/jsonstore"
	"github.com/Makepad-fr/wordsync/internal/ui"
	"github.com/Makepad-fr/wordsync/internal/wire"
)

// Options carry what root flags and config resolved.
type Options struct {
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer // serialized XML goes here; os.Stdout when nil
}

type runner struct {
	cfg    *config.Config
	log    *zap.Logger
	out    io.Writer
	store  *jsonstore.Store
	browse func(*outline.Tree, string) (ui.BrowseResult, error)
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	r, err := newRunner(opt)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	cmd, a := args[0], args[1:]
	r.log.Debug("dispatch", zap.String("cmd", cmd), zap.Strings("args", a))

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0

	case "ls":
		return r.doList()

	case "outline", "browse", "import":
		if len(a) != 1 {
			ui.Fail("usage: wordsync " + cmd + " <file.docx>")
			return 2
		}
		switch cmd {
		case "outline":
			return r.doOutline(ctx, a[0])
		case "browse":
			return r.doBrowse(ctx, a[0])
		}
		return r.doImport(ctx, a[0])

	case "serialize":
		if len(a) == 0 {
			ui.Fail("usage: wordsync serialize <id> [field...]")
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail("serialize: not a number: " + a[0])
			return 2
		}
		return r.doSerialize(id, a[1:])
	}

	ui.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(os.Stderr)
	PrintHelp()
	return 2
}

func newRunner(opt Options) (*runner, error) {
	cfg := opt.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	out := opt.Out
	if out == nil {
		out = os.Stdout
	}
	st, err := jsonstore.New(cfg.DataFile)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	return &runner{cfg: cfg, log: log, out: out, store: st, browse: ui.Browse}, nil
}

func PrintHelp() {
	fmt.Printf(`wordsync - keep a Word outline in step with work items

Usage:
  wordsync [--config file] [--verbose] [--no-color] <subcommand> [args]

Subcommands:
  outline <file.docx>         Print the heading tree and its work item bindings
  browse <file.docx>          Browse the outline (space selects, s serializes)
  import <file.docx>          Create work items for headings not yet in the store
  ls                          List stored work items
  serialize <id> [field...]   Print the XML fragment for a stored work item

Headings written as "[1234] Title" are bound to work item 1234.

Examples:
  wordsync outline spec.docx
  wordsync import spec.docx
  wordsync serialize 12 System.Title System.State
`)
}

// -------------- subcommand impls ----------------

// loadOutline reads the document and binds headings to stored records,
// by "[id]" prefix first and by exact title otherwise.
func (r *runner) loadOutline(ctx context.Context, path string) (*outline.Tree, []*model.Record, error) {
	headings, err := docx.ReadHeadings(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := r.store.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load: %w", err)
	}
	byID := make(map[int]*model.Record, len(items))
	byTitle := make(map[string]*model.Record, len(items))
	for _, it := range items {
		byID[it.ID()] = it
		if _, dup := byTitle[it.Title()]; !dup {
			byTitle[it.Title()] = it
		}
	}
	for i := range headings {
		h := &headings[i]
		if h.ID == 0 {
			// unmarked headings match a stored record by title
			if rec, ok := byTitle[h.Text]; ok {
				h.ID, h.Item = rec.ID(), rec
			}
			continue
		}
		if rec, ok := byID[h.ID]; ok {
			h.Item = rec
		}
	}
	r.log.Debug("outline loaded",
		zap.String("path", path),
		zap.Int("headings", len(headings)),
		zap.Int("records", len(items)))
	return outline.Build(headings), items, nil
}

func (r *runner) doOutline(ctx context.Context, path string) int {
	t, _, err := r.loadOutline(ctx, path)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	bound, total := ui.OutlineStats(t)
	th := ui.Current()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(th.Title, filepath.Base(path)),
		ui.C(th.Success, th.Bound), bound,
		ui.C(th.Pending, th.Unbound), total-bound,
		ui.C(th.Accent, "Total"), total,
	)

	lines := []string{header, ui.C(th.Muted, ui.ProgressBar(bound, total, 28)), ""}
	lines = append(lines, ui.OutlineLines(t)...)
	if bound < total {
		lines = append(lines, "", ui.C(th.Muted, "Tip: bind the rest with `wordsync import "+filepath.Base(path)+"`"))
	}
	ui.Panel(lines)
	return 0
}

func (r *runner) doBrowse(ctx context.Context, path string) int {
	t, _, err := r.loadOutline(ctx, path)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	res, err := r.browse(t, filepath.Base(path))
	if err != nil {
		ui.Fail("tui: " + err.Error())
		return 1
	}
	if !res.Serialize {
		return 0
	}
	if len(res.Selected) == 0 {
		ui.Fail("nothing selected")
		return 0
	}
	for _, n := range res.Selected {
		if err := r.writeSerialized(n.Item); err != nil {
			ui.Fail(err.Error())
			return 1
		}
	}
	return 0
}

func (r *runner) doImport(ctx context.Context, path string) int {
	t, items, err := r.loadOutline(ctx, path)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	made := map[int]*model.Record{}
	next := jsonstore.NextID(items)
	for n := range outline.DepthFirstNodes(t) {
		next = max(next, n.ID+1)
	}
	for n := range outline.DepthFirstNodes(t) {
		if n.Item != nil {
			continue
		}
		if rec, ok := made[n.ID]; ok && n.ID != 0 {
			n.Item = rec
			continue
		}
		id := n.ID
		if id == 0 {
			id = next
			next++
		}
		rec := model.NewRecord(id, r.cfg.TypeFor(n.OutlineLevel), n.Title)
		rec.Set(model.FieldState, "New")
		items = append(items, rec)
		n.ID, n.Item = id, rec
		made[id] = rec
		r.log.Debug("work item created",
			zap.Int("id", id),
			zap.String("type", rec.Type()),
			zap.Int("level", n.OutlineLevel))
	}
	created := len(made)
	if created == 0 {
		ui.OK("nothing to import")
		return 0
	}
	if err := r.store.Save(items); err != nil {
		ui.Fail("save: " + err.Error())
		return 1
	}
	r.log.Info("import finished", zap.String("path", path), zap.Int("created", created))
	ui.OK(fmt.Sprintf("imported %d work items", created))
	return 0
}

func (r *runner) doList() int {
	items, err := r.store.Load()
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	th := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", ui.C(th.Title, "Work items"), ui.C(th.Accent, "Total"), len(items)),
		"",
	}
	if len(items) == 0 {
		lines = append(lines, ui.C(th.Muted, "no items"))
	}
	for _, it := range items {
		title := ui.Shorten(it.Title(), 80)
		lines = append(lines, fmt.Sprintf("%s %s %s",
			ui.C(th.Accent, fmt.Sprintf("%5d", it.ID())),
			ui.C(th.Muted, fmt.Sprintf("%-12s", it.Type())),
			title))
	}
	ui.Panel(lines)
	return 0
}

func (r *runner) doSerialize(id int, fields []string) int {
	rec, err := r.store.Get(id)
	if errors.Is(err, jsonstore.ErrNotFound) {
		ui.Fail(fmt.Sprintf("no work item %d", id))
		ui.Hint("run `wordsync ls` to see stored ids")
		return 2
	}
	if err != nil {
		ui.Fail("load: " + err.Error())
		return 1
	}
	if err := r.writeSerialized(rec, fields...); err != nil {
		ui.Fail(err.Error())
		return 1
	}
	return 0
}

func (r *runner) writeSerialized(item model.WorkItem, fields ...string) error {
	if len(fields) == 0 {
		fields = r.cfg.Fields
	}
	s, err := wire.Serialize(item, fields...)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	if _, err := s.WriteTo(r.out); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	r.log.Debug("work item serialized", zap.Int("fields", len(s.Fields)))
	return nil
}
