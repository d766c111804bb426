// Package evidence retrieves documentation fragments via FT.SEARCH,
// fanning out to BM25 and KNN backends and merging the results.
package evidence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/helpline-labs/refdesk/internal/db"
	"github.com/helpline-labs/refdesk/internal/domain"
	domev "github.com/helpline-labs/refdesk/internal/domain/evidence"
	"github.com/helpline-labs/refdesk/internal/domain/intent"
)

// store is the consumer interface for evidence retrieval (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// embedder turns query text into a vector for KNN search.
type embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Config holds retrieval settings.
type Config struct {
	IndexName string
	TopK      int
	VectorDim int
}

// Repo implements usecase/resolve.Retriever.
type Repo struct {
	store    store
	embedder embedder
	cfg      Config
	logger   *zap.Logger
}

// New creates an evidence repository.
func New(s store, e embedder, cfg Config, logger *zap.Logger) *Repo {
	return &Repo{store: s, embedder: e, cfg: cfg, logger: logger}
}

// Fetch runs BM25 and KNN searches concurrently and merges their results
// into a single bundle ordered by descending relevance. A failed backend
// marks the bundle degraded but never fails the fetch; when both backends
// fail the bundle comes back empty and degraded.
func (r *Repo) Fetch(ctx context.Context, scope string, in *intent.Intent) (domev.Bundle, error) {
	text := queryText(in)
	if text == "" {
		return domev.NewBundle(nil, false), nil
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		degraded   bool
		bySource   = map[string]domev.Item{}
		mergeBatch = func(items []domev.Item) {
			mu.Lock()
			defer mu.Unlock()
			for _, it := range items {
				if prev, ok := bySource[it.SourceID()]; !ok || it.Relevance() > prev.Relevance() {
					bySource[it.SourceID()] = it
				}
			}
		}
		markDegraded = func() {
			mu.Lock()
			degraded = true
			mu.Unlock()
		}
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		items, err := r.fetchBM25(ctx, scope, text)
		if err != nil {
			r.logger.Warn("BM25 retrieval failed", zap.String("scope", scope), zap.Error(err))
			markDegraded()
			return
		}
		mergeBatch(items)
	}()

	go func() {
		defer wg.Done()
		items, err := r.fetchKNN(ctx, scope, text)
		if err != nil {
			r.logger.Warn("KNN retrieval failed", zap.String("scope", scope), zap.Error(err))
			markDegraded()
			return
		}
		mergeBatch(items)
	}()

	wg.Wait()

	merged := make([]domev.Item, 0, len(bySource))
	for _, it := range bySource {
		merged = append(merged, it)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Relevance() != merged[j].Relevance() {
			return merged[i].Relevance() > merged[j].Relevance()
		}
		return merged[i].SourceID() < merged[j].SourceID()
	})

	return domev.NewBundle(merged, degraded), nil
}

// EnsureIndex creates the evidence FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.cfg.IndexName)
	if err != nil {
		return fmt.Errorf("probe index %s: %w", r.cfg.IndexName, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.cfg.IndexName,
		Prefixes: []string{evidenceKeyPrefix},
		Fields: []db.IndexField{
			{Name: "org", Type: db.IndexFieldTag},
			{Name: "source", Type: db.IndexFieldTag},
			{Name: "content", Type: db.IndexFieldText},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDistance: db.DistanceCosine,
				VectorDim:      r.cfg.VectorDim,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", r.cfg.IndexName, err)
	}
	return nil
}

var evidenceKeyPrefix = domain.KeyPrefix + "ev:"

func (r *Repo) fetchBM25(ctx context.Context, scope, text string) ([]domev.Item, error) {
	sr, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    r.cfg.IndexName,
		Query:        text,
		TopK:         r.cfg.TopK,
		Scope:        scope,
		ReturnFields: []string{"org", "source", "content"},
	})
	if err != nil {
		return nil, fmt.Errorf("bm25: %w", err)
	}
	return r.collect(sr, scope, normalizeBM25), nil
}

func (r *Repo) fetchKNN(ctx context.Context, scope, text string) ([]domev.Item, error) {
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.cfg.IndexName,
		Vector:       vec,
		K:            r.cfg.TopK,
		Scope:        scope,
		ReturnFields: []string{"org", "source", "content", "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn: %w", err)
	}
	return r.collect(sr, scope, func(s float64) float64 { return s }), nil
}

// collect converts raw search entries to evidence items. Entries without
// a source identifier are discarded; an answer can never cite them.
// Entries tagged with a different tenant are discarded as well.
func (r *Repo) collect(sr *db.SearchResult, scope string, normalize func(float64) float64) []domev.Item {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	items := make([]domev.Item, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		source := entry.Fields["source"]
		if source == "" {
			r.logger.Warn("Dropping unsourced evidence", zap.String("key", entry.Key))
			continue
		}

		org := entry.Fields["org"]
		if scope != "" && org != scope {
			continue
		}

		items = append(items, domev.New(source, entry.Fields["content"], normalize(entry.Score), org))
	}
	return items
}

// normalizeBM25 maps an unbounded BM25 score into [0,1).
func normalizeBM25(s float64) float64 {
	if s <= 0 {
		return 0
	}
	return s / (s + 1)
}

// queryText assembles the search text from the parsed intent, preferring
// the residual free text, then the target name, then the entity type hint.
func queryText(in *intent.Intent) string {
	if in == nil {
		return ""
	}

	parts := make([]string, 0, 2)
	if res := strings.TrimSpace(in.Residual()); res != "" {
		parts = append(parts, res)
	}
	if target := strings.TrimSpace(in.TargetName()); target != "" {
		parts = append(parts, target)
	}
	if len(parts) == 0 {
		if et := in.EntityType(); et != "" {
			parts = append(parts, et)
		}
	}
	return strings.Join(parts, " ")
}
