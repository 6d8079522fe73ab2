// Package semindex holds precomputed embeddings of the reference table and
// answers nearest-row lookups for the chatbot's semantic tier.
package semindex

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
)

// Entry is one reference row with its precomputed embedding.
type Entry struct {
	chatbot.ReferenceRow
	Embedding []float32 `json:"embedding"`
}

// MemoryIndex is an immutable in-process index searched by cosine similarity.
type MemoryIndex struct {
	entries []Entry
	norms   []float64
}

var _ chatbot.SemanticIndex = (*MemoryIndex)(nil)

// NewMemoryIndex copies entries into an index.
func NewMemoryIndex(entries []Entry) *MemoryIndex {
	idx := &MemoryIndex{
		entries: make([]Entry, len(entries)),
		norms:   make([]float64, len(entries)),
	}
	for i, e := range entries {
		e.Embedding = append([]float32(nil), e.Embedding...)
		idx.entries[i] = e
		idx.norms[i] = norm(e.Embedding)
	}
	return idx
}

// LoadMemoryIndex reads a JSON array of entries from path.
func LoadMemoryIndex(path string) (*MemoryIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read semantic index: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode semantic index: %w", err)
	}
	return NewMemoryIndex(entries), nil
}

// Len reports the number of indexed rows.
func (m *MemoryIndex) Len() int {
	return len(m.entries)
}

// Nearest returns the row with the highest cosine similarity. Entries whose
// dimension differs from vector are skipped.
func (m *MemoryIndex) Nearest(_ context.Context, vector []float32) (chatbot.ReferenceRow, bool, error) {
	qnorm := norm(vector)
	if qnorm == 0 {
		return chatbot.ReferenceRow{}, false, nil
	}
	best, bestScore := -1, math.Inf(-1)
	for i, e := range m.entries {
		if len(e.Embedding) != len(vector) || m.norms[i] == 0 {
			continue
		}
		score := dot(vector, e.Embedding) / (qnorm * m.norms[i])
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return chatbot.ReferenceRow{}, false, nil
	}
	return m.entries[best].ReferenceRow, true, nil
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	return math.Sqrt(dot(v, v))
}
