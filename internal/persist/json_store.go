package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// JSONStore keeps one JSON file per snapshot in a directory.
type JSONStore struct {
	dir   string
	mutex sync.RWMutex
}

// NewJSONStore creates the directory if needed.
func NewJSONStore(dir string) (*JSONStore, error) {
	if dir == "" {
		dir = "snapshots"
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	return &JSONStore{dir: dir}, nil
}

func (js *JSONStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return filepath.Join(js.dir, name+".json"), nil
}

// Save writes the snapshot, replacing any previous one of the same name.
func (js *JSONStore) Save(_ context.Context, snap *Snapshot) error {
	path, err := js.path(snap.Name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	js.mutex.Lock()
	defer js.mutex.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot by name.
func (js *JSONStore) Load(_ context.Context, name string) (*Snapshot, error) {
	path, err := js.path(name)
	if err != nil {
		return nil, err
	}

	js.mutex.RLock()
	defer js.mutex.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return &snap, nil
}

// List returns the stored snapshot names in lexical order.
func (js *JSONStore) List(_ context.Context) ([]string, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	entries, err := os.ReadDir(js.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a snapshot.
func (js *JSONStore) Delete(_ context.Context, name string) error {
	path, err := js.path(name)
	if err != nil {
		return err
	}

	js.mutex.Lock()
	defer js.mutex.Unlock()

	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close is a no-op for the JSON store.
func (js *JSONStore) Close() error {
	return nil
}
