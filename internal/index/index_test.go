package index

import (
	"errors"
	"testing"
)

// mapEmbedder embeds by table lookup so tests control every vector.
type mapEmbedder struct {
	byText map[string][]float64
	err    error
}

func (m *mapEmbedder) Name() string { return "map" }

func (m *mapEmbedder) Prepare(_ []string) error { return nil }

func (m *mapEmbedder) Dimension() int { return 0 }

func (m *mapEmbedder) Embed(text string) ([]float64, error) {
	if m.err != nil {
		return nil, m.err
	}
	vec, ok := m.byText[text]
	if !ok {
		return nil, errors.New("no vector for " + text)
	}
	return vec, nil
}

func (m *mapEmbedder) EmbedBatch(texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func TestSearchBeforeBuild(t *testing.T) {
	ix := New(&mapEmbedder{}, nil)
	if _, err := ix.Search("anything", 1); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Search before Build: err = %v, want ErrNotBuilt", err)
	}
	if ix.Built() {
		t.Error("Built() = true before Build")
	}
}

func TestBuildTwice(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{"a": {1, 0}}}
	ix := New(emb, nil)
	if err := ix.Build([]Item{{ID: "a", Text: "a"}}); err != nil {
		t.Fatalf("first Build() error: %v", err)
	}
	if err := ix.Build([]Item{{ID: "a", Text: "a"}}); !errors.Is(err, ErrAlreadyBuilt) {
		t.Errorf("second Build(): err = %v, want ErrAlreadyBuilt", err)
	}
}

func TestBuildDimensionMismatchLeavesUnbuilt(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{
		"a": {1, 0},
		"b": {1, 0, 0},
	}}
	ix := New(emb, nil)

	err := ix.Build([]Item{{ID: "a", Text: "a"}, {ID: "b", Text: "b"}})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("Build(): err = %v, want ErrDimensionMismatch", err)
	}
	if ix.Built() {
		t.Error("Built() = true after failed Build")
	}
	if _, err := ix.Search("a", 1); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("Search after failed Build: err = %v, want ErrNotBuilt", err)
	}

	// A failed build leaves no partial state, so a corrected retry succeeds.
	if err := ix.Build([]Item{{ID: "a", Text: "a"}}); err != nil {
		t.Fatalf("retry Build() error: %v", err)
	}
}

func TestBuildEmbeddingFailurePropagates(t *testing.T) {
	emb := &mapEmbedder{err: errors.New("backend unreachable")}
	ix := New(emb, nil)
	if err := ix.Build([]Item{{ID: "a", Text: "a"}}); err == nil {
		t.Fatal("expected error when the embedding provider is unavailable")
	}
	if ix.Built() {
		t.Error("Built() = true after failed Build")
	}
}

func TestSearchNearestNeighbor(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{
		"near": {1, 0},
		"far":  {10, 0},
		"q":    {2, 0},
	}}
	ix := New(emb, nil)
	if err := ix.Build([]Item{{ID: "far", Text: "far"}, {ID: "near", Text: "near"}}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	got, err := ix.Search("q", 1)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "near" {
		t.Fatalf("Search(k=1) = %v, want single hit %q", got, "near")
	}
	if got[0].Distance != 1 {
		t.Errorf("distance = %v, want 1 (squared Euclidean)", got[0].Distance)
	}
}

func TestSearchKLargerThanStored(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{
		"near": {1, 0},
		"far":  {10, 0},
		"q":    {0, 0},
	}}
	ix := New(emb, nil)
	if err := ix.Build([]Item{{ID: "far", Text: "far"}, {ID: "near", Text: "near"}}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	got, err := ix.Search("q", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search(k=10) returned %d results, want all 2", len(got))
	}
	if got[0].ID != "near" || got[1].ID != "far" {
		t.Errorf("order = [%s %s], want ascending by distance [near far]", got[0].ID, got[1].ID)
	}
	if got[0].Distance > got[1].Distance {
		t.Errorf("distances not ascending: %v > %v", got[0].Distance, got[1].Distance)
	}
	if got[0].ID == got[1].ID {
		t.Error("duplicate ids in results")
	}
}

func TestSearchTiesKeepInsertionOrder(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{
		"same": {3, 4},
		"q":    {0, 0},
	}}
	ix := New(emb, nil)
	items := []Item{
		{ID: "first", Text: "same"},
		{ID: "second", Text: "same"},
		{ID: "third", Text: "same"},
	}
	if err := ix.Build(items); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	got, err := ix.Search("q", 3)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ID != want {
			t.Fatalf("tie order = %v, want insertion order [first second third]", got)
		}
	}
}

func TestSearchQueryDimensionMismatch(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{
		"a": {1, 0},
		"q": {1, 0, 0},
	}}
	ix := New(emb, nil)
	if err := ix.Build([]Item{{ID: "a", Text: "a"}}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if _, err := ix.Search("q", 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Search(): err = %v, want ErrDimensionMismatch", err)
	}
}

func TestEntriesInsertionOrder(t *testing.T) {
	emb := &mapEmbedder{byText: map[string][]float64{
		"a": {1, 0},
		"b": {0, 1},
	}}
	ix := New(emb, nil)
	if err := ix.Build([]Item{{ID: "b", Text: "b"}, {ID: "a", Text: "a"}}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	entries := ix.Entries()
	if len(entries) != 2 || entries[0].ID != "b" || entries[1].ID != "a" {
		t.Errorf("Entries() = %v, want insertion order [b a]", entries)
	}
}
