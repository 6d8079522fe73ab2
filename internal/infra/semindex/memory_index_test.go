package semindex

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
)

func TestNearestUsesCosineSimilarity(t *testing.T) {
	idx := NewMemoryIndex([]Entry{
		{ReferenceRow: chatbot.ReferenceRow{Species: "Tulip"}, Embedding: []float32{10, 0}},
		{ReferenceRow: chatbot.ReferenceRow{Species: "Lotus"}, Embedding: []float32{0.1, 0.1}},
	})

	// Euclidean distance would pick Lotus; the angle favours Tulip.
	row, ok, err := idx.Nearest(context.Background(), []float32{1, 0.2})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Tulip", row.Species)
}

func TestNearestSkipsMismatchedDimensions(t *testing.T) {
	idx := NewMemoryIndex([]Entry{
		{ReferenceRow: chatbot.ReferenceRow{Species: "Orchid"}, Embedding: []float32{1, 0, 0}},
	})
	_, ok, err := idx.Nearest(context.Background(), []float32{1, 0})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNearestEmptyIndexOrZeroVector(t *testing.T) {
	_, ok, err := NewMemoryIndex(nil).Nearest(context.Background(), []float32{1})
	require.NoError(t, err)
	require.False(t, ok)

	idx := NewMemoryIndex([]Entry{{Embedding: []float32{1}}})
	_, ok, err = idx.Nearest(context.Background(), []float32{0})
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLoadMemoryIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	body := `[{"species":"Cherry Blossom","country":"Japan","bloom_start":"March","bloom_end":"April","notes":"","embedding":[0.5,0.5]}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	idx, err := LoadMemoryIndex(path)
	require.NoError(t, err)
	require.Equal(t, 1, idx.Len())

	row, ok, err := idx.Nearest(context.Background(), []float32{1, 1})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Japan", row.Country)
	require.Equal(t, "March", row.BloomStart)
}

func TestLoadMemoryIndexMissingFile(t *testing.T) {
	_, err := LoadMemoryIndex(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
