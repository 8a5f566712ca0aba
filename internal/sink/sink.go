// Package sink persists rendered changelog documents.
package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Dir writes documents as files inside a directory.
type Dir struct {
	Path string
}

// NewDir returns a sink writing into path ("" means the working directory).
func NewDir(path string) *Dir {
	if path == "" {
		path = "."
	}
	return &Dir{Path: path}
}

// Write creates or overwrites <Path>/<name>. Names must be plain file names.
func (d *Dir) Write(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid document name %q", name)
	}

	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(d.Path, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Memory keeps documents in memory, for previews and tests.
type Memory struct {
	mu   sync.Mutex
	docs map[string]string
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]string)}
}

// Write stores content under name, replacing any earlier document.
func (m *Memory) Write(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[name] = content
	return nil
}

// Get returns the document stored under name.
func (m *Memory) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[name]
	return doc, ok
}

// Names returns the stored document names, sorted.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.docs))
	for name := range m.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
