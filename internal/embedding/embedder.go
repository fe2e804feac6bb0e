package embedding

// Embedder converts free text into fixed-dimension numeric vectors.
// Implementations must be deterministic for identical text and model version.
// Some implementations require a preparation phase over the corpus before
// they can embed.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
	EmbedBatch(texts []string) ([][]float64, error)
}
