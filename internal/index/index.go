package index

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"corpusprep/internal/embedding"
)

// Errors surfaced to callers. Build and Search wrap these with detail, so
// match with errors.Is.
var (
	ErrNotBuilt          = errors.New("index not built")
	ErrAlreadyBuilt      = errors.New("index already built")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)

// Item is one (id, text) pair handed to Build.
type Item struct {
	ID   string
	Text string
}

// Entry is a stored (id, vector) pair, reported in insertion order.
type Entry struct {
	ID     string
	Vector []float64
}

// Result is one ranked search hit. Distance is squared Euclidean; smaller is
// closer.
type Result struct {
	ID       string
	Distance float64
}

// VectorIndex stores item embeddings and answers nearest-neighbor queries by
// brute force. An instance is built exactly once and then queried any number
// of times; callers needing a fresh corpus construct a new instance. Build
// takes the write lock and Search the read lock, so readers never observe a
// partially built index.
type VectorIndex struct {
	mu       sync.RWMutex
	embedder embedding.Embedder
	logger   *log.Logger
	dim      int
	ids      []string
	vectors  [][]float64
	built    bool
}

// New creates an unbuilt index over the given embedding provider.
func New(embedder embedding.Embedder, logger *log.Logger) *VectorIndex {
	return &VectorIndex{embedder: embedder, logger: logger}
}

// Build embeds every item text in one batched call and stores the vectors in
// insertion order. The index dimension is fixed by the first vector; a
// disagreeing vector fails the whole call with ErrDimensionMismatch and
// leaves the index unbuilt. A second call on a built instance fails with
// ErrAlreadyBuilt.
func (ix *VectorIndex) Build(items []Item) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.built {
		return ErrAlreadyBuilt
	}
	if len(items) == 0 {
		ix.built = true
		return nil
	}
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Text
	}
	vectors, err := ix.embedder.EmbedBatch(texts)
	if err != nil {
		return fmt.Errorf("index: embedding %d items: %w", len(items), err)
	}
	if len(vectors) != len(items) {
		return fmt.Errorf("index: embedder returned %d vectors for %d items", len(vectors), len(items))
	}
	dim := len(vectors[0])
	ids := make([]string, len(items))
	for i, it := range items {
		if len(vectors[i]) != dim {
			return fmt.Errorf("index: item %s has dimension %d, want %d: %w",
				it.ID, len(vectors[i]), dim, ErrDimensionMismatch)
		}
		ids[i] = it.ID
	}
	ix.dim = dim
	ix.ids = ids
	ix.vectors = vectors
	ix.built = true
	if ix.logger != nil {
		ix.logger.Printf("index: built with %d entries, dimension %d", len(ids), dim)
	}
	return nil
}

// Built reports whether a Build call has completed successfully.
func (ix *VectorIndex) Built() bool {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.built
}

// Entries returns the stored (id, vector) pairs in insertion order.
func (ix *VectorIndex) Entries() []Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]Entry, len(ix.ids))
	for i := range ix.ids {
		out[i] = Entry{ID: ix.ids[i], Vector: ix.vectors[i]}
	}
	return out
}

// Search embeds the query text and returns the min(k, stored) closest
// entries by squared Euclidean distance, ascending. Equal distances keep
// insertion order. Fails with ErrNotBuilt before a successful Build.
func (ix *VectorIndex) Search(query string, k int) ([]Result, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if !ix.built {
		return nil, ErrNotBuilt
	}
	if k <= 0 || len(ix.ids) == 0 {
		return nil, nil
	}
	vec, err := ix.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("index: embedding query: %w", err)
	}
	if len(vec) != ix.dim {
		return nil, fmt.Errorf("index: query has dimension %d, want %d: %w",
			len(vec), ix.dim, ErrDimensionMismatch)
	}
	results := make([]Result, len(ix.ids))
	for i := range ix.ids {
		results[i] = Result{ID: ix.ids[i], Distance: squaredEuclidean(vec, ix.vectors[i])}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Distance < results[j].Distance })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func squaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
