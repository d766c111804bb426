package matcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/helpline-labs/refdesk/internal/domain"
)

// AliasTable maps known misspellings and abbreviations to canonical
// entity names. Lookups read an immutable snapshot; Reload swaps the
// whole map atomically (copy-on-reload), so lookups never race with
// reloads.
type AliasTable struct {
	path    string
	entries atomic.Pointer[map[string]string]
}

// LoadAliases reads an alias dictionary from a YAML file mapping
// misspelling -> canonical name. An empty path yields an empty table.
func LoadAliases(path string) (*AliasTable, error) {
	t := &AliasTable{path: path}
	empty := map[string]string{}
	t.entries.Store(&empty)

	if path == "" {
		return t, nil
	}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Canonical returns the canonical name for s and whether s is a known
// alias. Matching is case-insensitive.
func (t *AliasTable) Canonical(s string) (string, bool) {
	m := *t.entries.Load()
	v, ok := m[strings.ToLower(strings.TrimSpace(s))]
	return v, ok
}

// Len returns the number of aliases in the current snapshot.
func (t *AliasTable) Len() int {
	return len(*t.entries.Load())
}

// Reload re-reads the alias file and atomically replaces the snapshot.
// On error the previous snapshot stays in place.
func (t *AliasTable) Reload() error {
	if t.path == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(t.path))
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", domain.ErrAliasFile, t.path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrAliasFile, t.path, err)
	}

	m := make(map[string]string, len(raw))
	for k, v := range raw {
		m[strings.ToLower(strings.TrimSpace(k))] = v
	}

	t.entries.Store(&m)
	return nil
}

// Watch reloads the table whenever the alias file changes on disk.
// Blocks until ctx is done; intended to run in its own goroutine.
func (t *AliasTable) Watch(ctx context.Context, logger *zap.Logger) error {
	if t.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory: editors replace files via rename, which
	// drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(t.path), err)
	}

	target := filepath.Clean(t.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := t.Reload(); err != nil {
				logger.Warn("Alias reload failed", zap.String("path", t.path), zap.Error(err))
				continue
			}
			logger.Info("Alias dictionary reloaded",
				zap.String("path", t.path),
				zap.Int("aliases", t.Len()),
			)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Alias watcher error", zap.Error(err))
		}
	}
}
