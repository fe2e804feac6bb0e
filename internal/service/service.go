package service

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"corpusprep/internal/domain"
	"corpusprep/internal/embedding"
	"corpusprep/internal/index"
	"corpusprep/internal/segmenter"
	"corpusprep/internal/splitter"
)

// Validator is an external schema gate over chunk records. A negative
// verdict drops the record and the pipeline continues.
type Validator interface {
	Validate(record domain.ChunkRecord) (pass bool, message string)
}

// Options tunes service behavior beyond its collaborators.
type Options struct {
	TopK              int
	IncludeEmbeddings bool
	Validator         Validator
}

// Service composes the sentence splitter, segment builder and vector index
// into the corpus preparation pipeline: documents in, chunk records and a
// queryable index out.
type Service struct {
	splitter  *splitter.Sentence
	segmenter *segmenter.Builder
	embedder  embedding.Embedder
	index     *index.VectorIndex
	logger    *log.Logger
	opts      Options
	records   []domain.ChunkRecord
	byID      map[string]domain.ChunkRecord
}

// Stats summarizes one ingest run.
type Stats struct {
	Documents int
	Sentences int
	Segments  int
	Dimension int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d documents, %d sentences, %d segments (dimension %d)",
		s.Documents, s.Sentences, s.Segments, s.Dimension)
}

// New creates the pipeline service.
func New(sp *splitter.Sentence, sb *segmenter.Builder, emb embedding.Embedder, ix *index.VectorIndex, logger *log.Logger, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 10
	}
	return &Service{
		splitter:  sp,
		segmenter: sb,
		embedder:  emb,
		index:     ix,
		logger:    logger,
		opts:      opts,
		byID:      make(map[string]domain.ChunkRecord),
	}
}

// IngestDocuments loads .txt files from the given paths or globs, segments
// each document, and builds the vector index over the flat ordered segment
// list. An embedding provider that cannot serve the index build at all fails
// the whole run; per-document embedding failures degrade inside the
// segmenter instead.
func (s *Service) IngestDocuments(paths []string) (Stats, error) {
	docs, err := loadDocuments(paths)
	if err != nil {
		return Stats{}, err
	}
	if len(docs) == 0 {
		return Stats{}, fmt.Errorf("no .txt documents found")
	}

	stats := Stats{Documents: len(docs)}
	sentencesByDoc := make([][]string, len(docs))
	var corpus []string
	for i, doc := range docs {
		sentencesByDoc[i] = s.splitter.Split(doc.Content)
		stats.Sentences += len(sentencesByDoc[i])
		corpus = append(corpus, sentencesByDoc[i]...)
	}
	if len(corpus) > 0 {
		if err := s.embedder.Prepare(corpus); err != nil {
			return Stats{}, fmt.Errorf("preparing embedder: %w", err)
		}
	}

	var items []index.Item
	s.records = nil
	s.byID = make(map[string]domain.ChunkRecord)
	for i, doc := range docs {
		for _, seg := range s.segmenter.Segment(doc, sentencesByDoc[i]) {
			record := domain.ChunkRecord{
				ID:             uuid.NewString(),
				Text:           seg.Text,
				SourceDocument: seg.DocumentID,
				Ordinal:        seg.Ordinal,
			}
			if s.opts.Validator != nil {
				if pass, msg := s.opts.Validator.Validate(record); !pass {
					if s.logger != nil {
						s.logger.Printf("service: dropping record %s (doc %s, ordinal %d): %s",
							record.ID, record.SourceDocument, record.Ordinal, msg)
					}
					continue
				}
			}
			s.records = append(s.records, record)
			items = append(items, index.Item{ID: record.ID, Text: record.Text})
		}
	}
	stats.Segments = len(s.records)

	if err := s.index.Build(items); err != nil {
		return Stats{}, fmt.Errorf("building index: %w", err)
	}
	if s.opts.IncludeEmbeddings {
		for i, entry := range s.index.Entries() {
			s.records[i].Embedding = entry.Vector
		}
	}
	for _, r := range s.records {
		s.byID[r.ID] = r
	}
	stats.Dimension = s.embedder.Dimension()
	if s.logger != nil {
		s.logger.Printf("service: ingested %s", stats)
	}
	return stats, nil
}

// Query embeds the query text and returns the closest chunk records,
// ascending by distance. Queries before a successful ingest fail with
// index.ErrNotBuilt.
func (s *Service) Query(query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = s.opts.TopK
	}
	hits, err := s.index.Search(query, topK)
	if err != nil {
		return nil, err
	}
	out := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		record, ok := s.byID[hit.ID]
		if !ok {
			continue
		}
		out = append(out, domain.SearchResult{Record: record, Distance: hit.Distance})
	}
	return out, nil
}

// Records returns the chunk records of the last ingest in pipeline order.
func (s *Service) Records() []domain.ChunkRecord {
	return s.records
}

// WriteRecords writes the chunk records as JSON lines, one record per line,
// in pipeline order.
func (s *Service) WriteRecords(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	for _, r := range s.records {
		if err := enc.Encode(r); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// loadDocuments resolves paths and globs to .txt files and reads them. The
// document ID is a short content-independent hash of the path, stable across
// runs.
func loadDocuments(paths []string) ([]domain.Document, error) {
	var docs []domain.Document
	for _, p := range paths {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		// Index loop: a directory match appends its *.txt entries to the
		// worklist.
		for i := 0; i < len(matches); i++ {
			m := matches[i]
			if info, err := os.Stat(m); err == nil && info.IsDir() {
				inDir, _ := filepath.Glob(filepath.Join(m, "*.txt"))
				matches = append(matches, inDir...)
				continue
			}
			if !strings.HasSuffix(strings.ToLower(m), ".txt") {
				continue
			}
			data, err := os.ReadFile(m)
			if err != nil {
				return nil, err
			}
			docs = append(docs, domain.Document{ID: hashString(m), Path: m, Content: string(data)})
		}
	}
	return docs, nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
