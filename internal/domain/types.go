package domain

// Document is a single raw text file loaded into the pipeline.
// It is immutable once ingested.
type Document struct {
	ID      string
	Path    string
	Content string
}

// Segment is a contiguous run of sentences treated as one retrieval unit.
// Start and End delimit the half-open sentence range [Start, End) within the
// source document's sentence sequence.
type Segment struct {
	DocumentID string
	Ordinal    int
	Text       string
	Start      int
	End        int
}

// ChunkRecord is the persisted form of a segment handed to downstream
// storage. Embedding is attached only when vector persistence is requested.
type ChunkRecord struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	SourceDocument string    `json:"source_document"`
	Ordinal        int       `json:"ordinal"`
	Embedding      []float64 `json:"embedding,omitempty"`
}

// SearchResult pairs a chunk record with its distance to the query vector.
// Smaller distance means closer.
type SearchResult struct {
	Record   ChunkRecord
	Distance float64
}
