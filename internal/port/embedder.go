package port

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// EmbeddingCache stores embeddings keyed by model and item text so a
// rebuild only embeds texts that changed.
type EmbeddingCache interface {
	GetEmbeddings(model string, texts []string) (map[string][]float32, error)
	PutEmbeddings(model string, vectors map[string][]float32) error
}
