package cli

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/wordsync/internal/config"
	"github.com/Makepad-fr/wordsync/internal/model"
	"github.com/Makepad-fr/wordsync/internal/outline"
	"github.com/Makepad-fr/wordsync/internal/ui"
)

const outlineXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>[5] Checkout</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading2"/></w:pPr><w:r><w:t>Payment</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading3"/></w:pPr><w:r><w:t>[40] Card tokens</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Reporting</w:t></w:r></w:p>
</w:body>
</w:document>`

type fixture struct {
	opt  Options
	out  *bytes.Buffer
	docx string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	path := filepath.Join(dir, "plan.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	fw, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(outlineXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.DataFile = filepath.Join(dir, "workitems.json")
	out := &bytes.Buffer{}
	return &fixture{opt: Options{Config: cfg, Out: out}, out: out, docx: path}
}

func (f *fixture) runner(t *testing.T) *runner {
	t.Helper()
	r, err := newRunner(f.opt)
	require.NoError(t, err)
	return r
}

func TestRunUsage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	assert.Equal(t, 2, Run(ctx, nil, f.opt))
	assert.Equal(t, 2, Run(ctx, []string{"bogus"}, f.opt))
	assert.Equal(t, 2, Run(ctx, []string{"outline"}, f.opt))
	assert.Equal(t, 2, Run(ctx, []string{"serialize"}, f.opt))
	assert.Equal(t, 2, Run(ctx, []string{"serialize", "x"}, f.opt))
	assert.Equal(t, 0, Run(ctx, []string{"help"}, f.opt))
}

func TestImportThenSerialize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.Equal(t, 0, Run(ctx, []string{"import", f.docx}, f.opt))

	r := f.runner(t)
	items, err := r.store.Load()
	require.NoError(t, err)
	require.Len(t, items, 4)

	got := map[int]string{}
	for _, it := range items {
		got[it.ID()] = it.Type() + "/" + it.Title()
	}
	// explicit ids are kept; new ones continue after the highest id seen
	assert.Equal(t, map[int]string{
		5:  "Epic/Checkout",
		41: "Feature/Payment",
		40: "User Story/Card tokens",
		42: "Epic/Reporting",
	}, got)

	// everything is bound now
	assert.Equal(t, 0, Run(ctx, []string{"import", f.docx}, f.opt))
	items, err = r.store.Load()
	require.NoError(t, err)
	assert.Len(t, items, 4)

	require.Equal(t, 0, Run(ctx, []string{"serialize", "40", model.FieldTitle, "No.Such.Field"}, f.opt))
	assert.Equal(t, `<WorkItem>
  <Fields>
    <Field name="System.Id">40</Field>
    <Field name="System.WorkItemType">User Story</Field>
    <Field name="System.Title">Card tokens</Field>
  </Fields>
</WorkItem>
`, f.out.String())

	f.out.Reset()
	require.Equal(t, 0, Run(ctx, []string{"serialize", "5"}, f.opt))
	assert.Contains(t, f.out.String(), `<Field name="System.State">New</Field>`)

	assert.Equal(t, 2, Run(ctx, []string{"serialize", "999"}, f.opt))
	assert.Equal(t, 0, Run(ctx, []string{"ls"}, f.opt))
	assert.Equal(t, 0, Run(ctx, []string{"outline", f.docx}, f.opt))
}

func TestOutlineMissingFile(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 1, Run(context.Background(), []string{"outline", filepath.Join(t.TempDir(), "none.docx")}, f.opt))
}

func TestBrowseSerializesSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.Equal(t, 0, Run(ctx, []string{"import", f.docx}, f.opt))

	r := f.runner(t)
	var seen *outline.Tree
	r.browse = func(t *outline.Tree, name string) (ui.BrowseResult, error) {
		seen = t
		var picked []*outline.Node
		for n := range outline.DepthFirstNodes(t) {
			if n.ID == 5 {
				picked = append(picked, n)
			}
		}
		return ui.BrowseResult{Selected: picked, Serialize: true}, nil
	}
	require.Equal(t, 0, r.doBrowse(ctx, f.docx))
	require.NotNil(t, seen)
	assert.Equal(t, 4, seen.Len())
	assert.Contains(t, f.out.String(), `<Field name="System.Id">5</Field>`)
	assert.Contains(t, f.out.String(), `<Field name="System.Title">Checkout</Field>`)

	r.browse = func(*outline.Tree, string) (ui.BrowseResult, error) {
		return ui.BrowseResult{}, errors.New("no tty")
	}
	assert.Equal(t, 1, r.doBrowse(ctx, f.docx))
}
