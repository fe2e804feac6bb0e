package segmenter

import (
	"errors"
	"log"
	"math"
	"strings"

	"corpusprep/internal/domain"
	"corpusprep/internal/embedding"
)

var errVectorCount = errors.New("embedder returned wrong vector count")

// DefaultThreshold is the adjacent-similarity threshold used when the
// configuration does not set one.
const DefaultThreshold = 0.45

// Builder cuts a document's sentence sequence into semantically coherent
// segments. A boundary is placed wherever the cosine similarity between two
// adjacent sentence embeddings drops below the threshold, so the number of
// segments is always one more than the number of below-threshold pairs.
type Builder struct {
	embedder  embedding.Embedder
	threshold float64
	logger    *log.Logger
}

// NewBuilder creates a segment builder. A zero threshold selects
// DefaultThreshold.
func NewBuilder(embedder embedding.Embedder, threshold float64, logger *log.Logger) *Builder {
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	return &Builder{embedder: embedder, threshold: threshold, logger: logger}
}

// Segment splits doc into ordered segments whose sentence ranges tile the
// sentence sequence exactly: no gap, no overlap, no reordering. Sentences
// are embedded in one batched call per document. If that call fails the
// whole document is returned as a single segment; the failure is logged and
// never propagated.
func (b *Builder) Segment(doc domain.Document, sentences []string) []domain.Segment {
	if len(sentences) == 0 {
		return nil
	}
	if len(sentences) == 1 {
		return []domain.Segment{{DocumentID: doc.ID, Ordinal: 0, Text: sentences[0], Start: 0, End: 1}}
	}
	vectors, err := b.embedder.EmbedBatch(sentences)
	if err == nil && len(vectors) != len(sentences) {
		err = errVectorCount
	}
	if err != nil {
		if b.logger != nil {
			b.logger.Printf("segmenter: embedding failed for document %s, falling back to one segment: %v", doc.ID, err)
		}
		return []domain.Segment{{
			DocumentID: doc.ID,
			Ordinal:    0,
			Text:       doc.Content,
			Start:      0,
			End:        len(sentences),
		}}
	}
	return b.split(doc.ID, sentences, vectors)
}

func (b *Builder) split(docID string, sentences []string, vectors [][]float64) []domain.Segment {
	var segments []domain.Segment
	start := 0
	for i := 0; i+1 < len(sentences); i++ {
		sim, ok := cosine(vectors[i], vectors[i+1])
		// An undefined similarity (zero-norm vector) forces a boundary.
		if !ok || sim < b.threshold {
			segments = append(segments, newSegment(docID, len(segments), sentences, start, i+1))
			start = i + 1
		}
	}
	return append(segments, newSegment(docID, len(segments), sentences, start, len(sentences)))
}

func newSegment(docID string, ordinal int, sentences []string, start, end int) domain.Segment {
	return domain.Segment{
		DocumentID: docID,
		Ordinal:    ordinal,
		Text:       strings.Join(sentences[start:end], ". "),
		Start:      start,
		End:        end,
	}
}

// cosine reports the cosine similarity of a and b. ok is false when the
// lengths differ or either vector has zero norm.
func cosine(a, b []float64) (sim float64, ok bool) {
	if len(a) != len(b) {
		return 0, false
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}
