// Package corpus persists papers and their embedding vectors in Redis hashes
// and answers KNN queries over the FT vector index built on top of them.
package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/resurch-labs/resurch/internal/db"
	"github.com/resurch-labs/resurch/internal/domain"
	"github.com/resurch-labs/resurch/internal/index"
)

// store is the consumer interface for corpus operations (ISP).
type store interface {
	db.HashStore
	db.KVStore
	db.IndexManager
	db.Searcher
}

// Repo owns the paper corpus: metadata, vectors, the FT index and the pinned
// model identity.
type Repo struct {
	store store
	dim   int
	hnsw  HNSWConfig
}

// HNSWConfig tunes the FT vector index when the HNSW algorithm is selected.
// Zero values keep the FLAT (exact) algorithm.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// New creates a corpus repository for vectors of the given dimension.
func New(s store, dim int) *Repo {
	return &Repo{store: s, dim: dim}
}

// WithHNSW switches the index to HNSW with the given parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the FT vector index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:     indexName(),
		Prefixes: []string{paperKeyPrefix()},
		Vector: db.VectorField{
			Name:     fieldVector,
			Algo:     db.VectorFlat,
			Dim:      r.dim,
			Distance: db.DistanceCosine,
		},
	}
	if r.hnsw.M > 0 {
		def.Vector.Algo = db.VectorHNSW
		def.Vector.M = r.hnsw.M
		def.Vector.EFConstruct = r.hnsw.EFConstruct
	}

	err := r.store.CreateIndex(ctx, def)
	if errors.Is(err, db.ErrIndexExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// UpsertMetadata stores a paper without touching its vector field. Used by
// the loader fetch stage before embedding.
func (r *Repo) UpsertMetadata(ctx context.Context, paper domain.Paper) error {
	if paper.ID == "" {
		return fmt.Errorf("paper id is required: %w", domain.ErrInvalidArgument)
	}
	if err := r.store.HSet(ctx, paperKey(paper.ID), paperToFields(paper)); err != nil {
		return fmt.Errorf("upsert metadata %s: %w", paper.ID, err)
	}
	return nil
}

// Upsert stores a paper together with its embedding vector.
func (r *Repo) Upsert(ctx context.Context, paper domain.Paper, vector domain.Vector) error {
	return r.UpsertBatch(ctx, []domain.Paper{paper}, []domain.Vector{vector})
}

// UpsertBatch stores multiple papers with vectors in one pipelined round-trip.
func (r *Repo) UpsertBatch(ctx context.Context, papers []domain.Paper, vectors []domain.Vector) error {
	if len(papers) != len(vectors) {
		return fmt.Errorf("upsert batch: %d papers but %d vectors", len(papers), len(vectors))
	}

	items := make([]db.HashSetItem, 0, len(papers))
	for i, p := range papers {
		if p.ID == "" {
			return fmt.Errorf("paper %d: id is required: %w", i, domain.ErrInvalidArgument)
		}
		if len(vectors[i]) != r.dim {
			return fmt.Errorf("paper %s: got dimension %d, want %d: %w",
				p.ID, len(vectors[i]), r.dim, domain.ErrVectorDimMismatch)
		}
		fields := paperToFields(p)
		fields[fieldVector] = vectorToBytes(vectors[i])
		items = append(items, db.HashSetItem{Key: paperKey(p.ID), Fields: fields})
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// GetVector returns the stored vector for one paper id.
// Returns domain.ErrNotFound when the paper or its vector is missing.
func (r *Repo) GetVector(ctx context.Context, id string) (domain.Vector, error) {
	fields, err := r.store.HGetAll(ctx, paperKey(id))
	if err != nil {
		return nil, fmt.Errorf("get vector %s: %w", id, err)
	}
	raw, ok := fields[fieldVector]
	if !ok {
		return nil, fmt.Errorf("vector for %s: %w", id, domain.ErrNotFound)
	}
	vec, err := bytesToVector(raw)
	if err != nil {
		return nil, fmt.Errorf("vector for %s: %w", id, err)
	}
	return vec, nil
}

// GetVectors returns the stored vectors for the given ids. Ids that do not
// resolve to a stored vector are omitted from the result, not errors.
func (r *Repo) GetVectors(ctx context.Context, ids []string) (map[string]domain.Vector, error) {
	if len(ids) == 0 {
		return map[string]domain.Vector{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = paperKey(id)
	}

	all, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get vectors: %w", err)
	}

	out := make(map[string]domain.Vector, len(ids))
	for i, fields := range all {
		raw, ok := fields[fieldVector]
		if !ok {
			continue
		}
		vec, err := bytesToVector(raw)
		if err != nil {
			return nil, fmt.Errorf("vector for %s: %w", ids[i], err)
		}
		out[ids[i]] = vec
	}
	return out, nil
}

// GetPapers hydrates paper metadata for the given ids, preserving input
// order and skipping ids with no stored paper.
func (r *Repo) GetPapers(ctx context.Context, ids []string) ([]domain.Paper, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = paperKey(id)
	}

	all, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get papers: %w", err)
	}

	papers := make([]domain.Paper, 0, len(ids))
	for i, fields := range all {
		if len(fields) == 0 {
			continue
		}
		papers = append(papers, fieldsToPaper(ids[i], fields))
	}
	return papers, nil
}

// SearchKNN returns the k nearest papers to the query vector, sorted by
// non-increasing similarity.
func (r *Repo) SearchKNN(ctx context.Context, vector domain.Vector, k int) ([]index.Hit, error) {
	if len(vector) != r.dim {
		return nil, fmt.Errorf("search: got dimension %d, want %d: %w",
			len(vector), r.dim, domain.ErrVectorDimMismatch)
	}
	if k <= 0 {
		return nil, nil
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    indexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{fieldTitle},
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w: %w", domain.ErrIndexQueryFailed, err)
	}

	hits := make([]index.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, index.Hit{
			ID:    paperIDFromKey(entry.Key),
			Score: entry.Score,
		})
	}
	return hits, nil
}

// MissingVectorIDs scans the corpus for papers that have metadata but no
// vector yet. Used by the loader embed stage.
func (r *Repo) MissingVectorIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, paperKeyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan papers: %w", err)
	}

	var missing []string
	for _, key := range keys {
		fields, err := r.store.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if _, ok := fields[fieldVector]; !ok {
			missing = append(missing, paperIDFromKey(key))
		}
	}
	return missing, nil
}

// ModelMeta returns the model identity the corpus was embedded with.
// Returns domain.ErrNotFound for a fresh corpus.
func (r *Repo) ModelMeta(ctx context.Context) (domain.VectorConfig, error) {
	data, err := r.store.Get(ctx, modelMetaKey())
	if errors.Is(err, db.ErrKeyNotFound) {
		return domain.VectorConfig{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.VectorConfig{}, fmt.Errorf("get model meta: %w", err)
	}

	var cfg domain.VectorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.VectorConfig{}, fmt.Errorf("parse model meta: %w", err)
	}
	return cfg, nil
}

// SetModelMeta pins the model identity for the corpus.
func (r *Repo) SetModelMeta(ctx context.Context, cfg domain.VectorConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal model meta: %w", err)
	}
	if err := r.store.Set(ctx, modelMetaKey(), data); err != nil {
		return fmt.Errorf("set model meta: %w", err)
	}
	return nil
}

// AssertModel verifies that the configured model matches the corpus metadata.
// A fresh corpus (no metadata) pins the configured model instead.
func (r *Repo) AssertModel(ctx context.Context, cfg domain.VectorConfig) error {
	stored, err := r.ModelMeta(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return r.SetModelMeta(ctx, cfg)
	}
	if err != nil {
		return err
	}

	if stored.Model != cfg.Model || stored.Dimensions != cfg.Dimensions {
		return fmt.Errorf(
			"corpus embedded with %s (dim %d), configured %s (dim %d): %w",
			stored.Model, stored.Dimensions, cfg.Model, cfg.Dimensions,
			domain.ErrModelMismatch,
		)
	}
	return nil
}
