package jsonstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/wordsync/internal/model"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", DefaultFileName))
	require.NoError(t, err)
	return s
}

func TestLoadMissingFile(t *testing.T) {
	items, err := newStore(t).Load()
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSaveLoadKeepsOrderAndText(t *testing.T) {
	s := newStore(t)
	rec := model.NewRecord(42, "Bug", "Crash")
	rec.Set("Custom.Estimate", 12345678901234567)
	rec.Set(model.FieldState, "Active")
	require.NoError(t, s.Save([]*model.Record{rec}))

	items, err := s.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, []string{model.FieldID, model.FieldType, model.FieldTitle, "Custom.Estimate", model.FieldState}, got.FieldNames())
	assert.Equal(t, 42, got.ID())
	assert.Equal(t, json.Number("12345678901234567"), got.Value("Custom.Estimate"))
}

func TestGet(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save([]*model.Record{
		model.NewRecord(1, "Epic", "One"),
		model.NewRecord(2, "Task", "Two"),
	}))

	got, err := s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, "Two", got.Title())
	assert.Equal(t, "Task", got.Type())

	items, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, NextID(items))

	_, err = s.Get(99)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadCorrupt(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("{"), 0o644))
	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json unmarshal")
}

func TestLoadSkipsNullEntries(t *testing.T) {
	s := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	body := `[null, {"fields": [{"ref": "System.Id", "value": 4}, {"ref": "System.WorkItemType", "value": "Bug"}]}, null]`
	require.NoError(t, os.WriteFile(s.Path(), []byte(body), 0o644))

	items, err := s.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].ID())
	assert.Equal(t, 5, NextID(items))

	_, err = s.Get(7)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNextIDEmpty(t *testing.T) {
	assert.Equal(t, 1, NextID(nil))
}
