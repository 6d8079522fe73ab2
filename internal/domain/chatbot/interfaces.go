package chatbot

import "context"

// ReferenceSource loads the reference table. A missing table is an empty
// table, not an error.
type ReferenceSource interface {
	Load(ctx context.Context) ([]ReferenceRow, error)
}

// Encoder turns text into an embedding vector.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// SemanticIndex finds the reference row closest to an embedding.
type SemanticIndex interface {
	Nearest(ctx context.Context, vector []float32) (ReferenceRow, bool, error)
}

// Semantic bundles an encoder with a precomputed index. Both must already be
// in memory when handed to the service.
type Semantic struct {
	Encoder Encoder
	Index   SemanticIndex
}
