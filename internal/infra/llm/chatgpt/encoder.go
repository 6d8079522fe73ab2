package chatgpt

import (
	"context"
	"errors"
	"strings"

	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
)

// Encoder adapts the embeddings endpoint to the chatbot's semantic tier.
type Encoder struct {
	client *Client
	model  string
}

var _ chatbot.Encoder = (*Encoder)(nil)

// NewEncoder binds a client to an embedding model.
func NewEncoder(client *Client, model string) *Encoder {
	return &Encoder{client: client, model: model}
}

// Encode embeds a single question.
func (e *Encoder) Encode(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("cannot embed empty text")
	}
	resp, err := e.client.CreateEmbedding(ctx, EmbeddingRequest{Model: e.model, Input: []string{text}})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, errors.New("embedding response contained no vectors")
	}
	return resp.Data[0].Embedding, nil
}
