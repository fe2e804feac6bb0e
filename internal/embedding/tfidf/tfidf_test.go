package tfidf

import (
	"math"
	"reflect"
	"testing"
)

func TestEmbedBeforePrepareFails(t *testing.T) {
	e := NewEmbedder()
	if _, err := e.Embed("anything"); err == nil {
		t.Fatal("expected error from Embed before Prepare")
	}
	if e.Dimension() != 0 {
		t.Errorf("Dimension() = %d before Prepare, want 0", e.Dimension())
	}
}

func TestPrepareEmptyCorpusFails(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare(nil); err == nil {
		t.Fatal("expected error from Prepare with empty corpus")
	}
}

func TestPrepareAndEmbed(t *testing.T) {
	e := NewEmbedder()
	corpus := []string{
		"cats chase mice",
		"dogs chase cats",
		"markets crashed yesterday",
	}
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if e.Dimension() <= 0 {
		t.Fatalf("Dimension() = %d after Prepare, want > 0", e.Dimension())
	}

	vec, err := e.Embed("cats chase mice")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(vec) != e.Dimension() {
		t.Errorf("len(vec) = %d, want %d", len(vec), e.Dimension())
	}
	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-9 {
		t.Errorf("embedding norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestEmbedDeterministic(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"one two three", "three four five"}); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	first, err := e.Embed("two three four")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	second, err := e.Embed("two three four")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Embed() is not deterministic for identical input")
	}
}

func TestEmbedUnknownTokensIsZeroVector(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"alpha beta", "beta gamma"}); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	vec, err := e.Embed("zzz qqq")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	for i, v := range vec {
		if v != 0 {
			t.Fatalf("vec[%d] = %v, want zero vector for unknown tokens", i, v)
		}
	}
}

func TestEmbedBatch(t *testing.T) {
	e := NewEmbedder()
	if err := e.Prepare([]string{"red green blue", "green blue yellow"}); err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	texts := []string{"red green", "blue yellow", "green"}
	vecs, err := e.EmbedBatch(texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("len(vecs) = %d, want %d", len(vecs), len(texts))
	}
	for i, vec := range vecs {
		single, err := e.Embed(texts[i])
		if err != nil {
			t.Fatalf("Embed() error: %v", err)
		}
		if !reflect.DeepEqual(vec, single) {
			t.Errorf("EmbedBatch()[%d] differs from Embed()", i)
		}
	}
}
