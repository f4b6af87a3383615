package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/Makepad-fr/wordsync/internal/model"
)

// JSON-backed work item store. Single file, human-readable, portable.
// No locking; fine for a local single-user CLI.

const DefaultFileName = "workitems.json"

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("work item not found")

type Store struct {
	path string
}

// New returns a store backed by path, or DefaultFileName in the working
// directory when path is empty.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Load reads every record. A missing file is an empty store. Numbers stay
// json.Number so their text survives a round trip.
func (s *Store) Load() ([]*model.Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*model.Record{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var items []*model.Record
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	// a null entry carries no work item
	return slices.DeleteFunc(items, func(it *model.Record) bool { return it == nil }), nil
}

func (s *Store) Save(items []*model.Record) error {
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *Store) Get(id int) (*model.Record, error) {
	items, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.ID() == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%d: %w", id, ErrNotFound)
}

// NextID returns one past the highest id in items.
func NextID(items []*model.Record) int {
	next := 1
	for _, it := range items {
		if id := it.ID(); id >= next {
			next = id + 1
		}
	}
	return next
}
