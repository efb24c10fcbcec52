package embedding

import (
	"context"

	"github.com/kaiwa-dev/kaiwa/provider"
)

// Embedding wraps the provider's embedding endpoint.
type Embedding struct {
	provider provider.Provider
}

// EmbedVec pairs a document id with its vector.
type EmbedVec struct {
	DocID string
	Vec   []float32
}

func NewEmbedding(provider provider.Provider) *Embedding {
	return &Embedding{provider: provider}
}

func (e Embedding) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.provider.CreateEmbedding(ctx, texts)
}

func (e Embedding) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.provider.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, nil
	}
	return vecs[0], nil
}
