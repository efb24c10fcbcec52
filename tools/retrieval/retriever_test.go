package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/kaiwa-dev/kaiwa/provider"
	"github.com/kaiwa-dev/kaiwa/tools/embedding"
)

// mapEmbedder returns fixed vectors per text so similarity order is known.
type mapEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (m mapEmbedder) Complete(ctx context.Context, messages []provider.Message) (string, error) {
	return "", errors.New("not a completion provider")
}

func (m mapEmbedder) CompleteJSON(ctx context.Context, messages []provider.Message) (string, error) {
	return "", errors.New("not a completion provider")
}

func (m mapEmbedder) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := m.vectors[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func TestRetriever_BuildAndRetrieve(t *testing.T) {
	emb := embedding.NewEmbedding(mapEmbedder{vectors: map[string][]float32{
		"猫について": {1, 0, 0},
		"犬について": {0.7, 0.7, 0},
		"株価の話":  {0, 1, 0},
		"猫とは":   {1, 0.1, 0},
	}})
	r := NewRetriever(emb, 2, false)

	idx, err := r.Build(context.Background(), []string{"猫について", "犬について", "株価の話"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("index len = %d", idx.Len())
	}

	hits, err := r.Retrieve(context.Background(), idx, "猫とは")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected top-2, got %d", len(hits))
	}
	if hits[0].Text != "猫について" {
		t.Errorf("top hit = %q", hits[0].Text)
	}
	if hits[1].Text != "犬について" {
		t.Errorf("second hit = %q", hits[1].Text)
	}
}

func TestRetriever_EmptyIndexRetrievesNothing(t *testing.T) {
	emb := embedding.NewEmbedding(mapEmbedder{})
	r := NewRetriever(emb, 3, false)

	idx, err := r.Build(context.Background(), nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	hits, err := r.Retrieve(context.Background(), idx, "何か")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if hits != nil {
		t.Errorf("expected no hits, got %v", hits)
	}
}

func TestRetriever_NilIndexRetrievesNothing(t *testing.T) {
	emb := embedding.NewEmbedding(mapEmbedder{})
	r := NewRetriever(emb, 3, false)
	hits, err := r.Retrieve(context.Background(), nil, "何か")
	if err != nil || hits != nil {
		t.Errorf("got %v, %v; want nil, nil", hits, err)
	}
}

func TestRetriever_EmbedFailurePropagates(t *testing.T) {
	emb := embedding.NewEmbedding(mapEmbedder{err: errors.New("embedding service down")})
	r := NewRetriever(emb, 3, false)
	if _, err := r.Build(context.Background(), []string{"text"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestRetriever_DocIDsAreStableContentHashes(t *testing.T) {
	emb := embedding.NewEmbedding(mapEmbedder{})
	r := NewRetriever(emb, 3, false)

	a, err := r.Build(context.Background(), []string{"same text"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, err := r.Build(context.Background(), []string{"same text"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ha := a.VectorSearch([]float32{0, 0, 1}, 1)
	hb := b.VectorSearch([]float32{0, 0, 1}, 1)
	if len(ha) != 1 || len(hb) != 1 || ha[0].DocID != hb[0].DocID {
		t.Error("same content should map to the same doc id")
	}
}

func TestRetriever_HybridFusesKeywordMatches(t *testing.T) {
	emb := embedding.NewEmbedding(mapEmbedder{vectors: map[string][]float32{
		"tokyo weather is sunny today": {1, 0, 0},
		"stock prices fell sharply":    {0, 1, 0},
		"tokyo weather":                {1, 0, 0},
	}})
	r := NewRetriever(emb, 2, true)

	idx, err := r.Build(context.Background(), []string{"tokyo weather is sunny today", "stock prices fell sharply"})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	hits, err := r.Retrieve(context.Background(), idx, "tokyo weather")
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("expected hits")
	}
	if hits[0].Text != "tokyo weather is sunny today" {
		t.Errorf("top hit = %q", hits[0].Text)
	}
}
