package semindex

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
)

// PostgresIndex searches bloom_reference_embeddings with pgvector cosine distance.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

var _ chatbot.SemanticIndex = (*PostgresIndex)(nil)

// NewPostgresIndex constructs the index.
func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

// Nearest returns the closest row.
func (p *PostgresIndex) Nearest(ctx context.Context, vector []float32) (chatbot.ReferenceRow, bool, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT species, country, bloom_start, bloom_end, COALESCE(notes, '')
		FROM bloom_reference_embeddings
		ORDER BY embedding <=> $1
		LIMIT 1
	`, pgvector.NewVector(vector))
	if err != nil {
		return chatbot.ReferenceRow{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return chatbot.ReferenceRow{}, false, rows.Err()
	}
	var row chatbot.ReferenceRow
	if err := rows.Scan(&row.Species, &row.Country, &row.BloomStart, &row.BloomEnd, &row.Notes); err != nil {
		return chatbot.ReferenceRow{}, false, err
	}
	return row, true, rows.Err()
}
