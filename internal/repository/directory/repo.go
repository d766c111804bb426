// Package directory stores the known-entity roster as Redis hashes,
// one hash per tenant scope.
package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/helpline-labs/refdesk/internal/domain"
	domdir "github.com/helpline-labs/refdesk/internal/domain/directory"
)

var keyPrefix = domain.KeyPrefix + "dir:"

// store is the consumer interface for directory operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/resolve.Directory.
type Repo struct {
	store store
}

// New creates a directory repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// List returns directory entries, restricted to one tenant scope when
// scope is non-empty. Entries come back sorted by name then id so
// downstream matching is deterministic.
func (r *Repo) List(ctx context.Context, scope string) ([]domdir.Entry, error) {
	var entries []domdir.Entry

	if scope != "" {
		scoped, err := r.listScope(ctx, scope)
		if err != nil {
			return nil, err
		}
		entries = scoped
	} else {
		keys, err := r.store.Scan(ctx, keyPrefix+"*")
		if err != nil {
			return nil, fmt.Errorf("scan directory keys: %w", err)
		}
		for _, key := range keys {
			scoped, err := r.listScope(ctx, strings.TrimPrefix(key, keyPrefix))
			if err != nil {
				return nil, err
			}
			entries = append(entries, scoped...)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name() != entries[j].Name() {
			return entries[i].Name() < entries[j].Name()
		}
		return entries[i].ID() < entries[j].ID()
	})

	return entries, nil
}

// Put upserts entries into the scope's hash.
func (r *Repo) Put(ctx context.Context, scope string, entries []domdir.Entry) error {
	if scope == "" {
		return fmt.Errorf("scope is required")
	}
	if len(entries) == 0 {
		return nil
	}

	fields := make(map[string]string, len(entries))
	for _, e := range entries {
		fields[e.ID()] = e.Name()
	}

	if err := r.store.HSet(ctx, keyPrefix+scope, fields); err != nil {
		return fmt.Errorf("put directory %s: %w", scope, err)
	}
	return nil
}

func (r *Repo) listScope(ctx context.Context, scope string) ([]domdir.Entry, error) {
	fields, err := r.store.HGetAll(ctx, keyPrefix+scope)
	if err != nil {
		return nil, fmt.Errorf("list directory %s: %w", scope, err)
	}

	entries := make([]domdir.Entry, 0, len(fields))
	for id, name := range fields {
		if id == "" || name == "" {
			continue
		}
		entries = append(entries, domdir.New(name, id, scope))
	}
	return entries, nil
}
