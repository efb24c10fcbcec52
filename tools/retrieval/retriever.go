package retrieval

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/kaiwa-dev/kaiwa/tools/embedding"
)

// Retriever embeds chunks, builds an index over them and answers top-k
// similarity queries.
type Retriever struct {
	emb    *embedding.Embedding
	topK   int
	hybrid bool
}

func NewRetriever(emb *embedding.Embedding, topK int, hybrid bool) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{emb: emb, topK: topK, hybrid: hybrid}
}

// Build embeds every chunk in one batch and indexes the results. A nil or
// empty chunk list yields an empty index, which retrieves nothing.
func (r *Retriever) Build(ctx context.Context, chunks []string) (*Index, error) {
	idx, err := NewIndex(r.hybrid)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if len(chunks) == 0 {
		return idx, nil
	}
	vecs, err := r.emb.EmbedMany(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vecs) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vecs))
	}
	for i, text := range chunks {
		docID := fmt.Sprintf("%s#%03d", sha1Hex(text), i)
		if err := idx.Add(docID, text, vecs[i]); err != nil {
			return nil, fmt.Errorf("index chunk: %w", err)
		}
	}
	return idx, nil
}

// Retrieve returns the top-k chunks most similar to query, ranked descending.
// With hybrid search enabled, vector and BM25 rankings are fused.
func (r *Retriever) Retrieve(ctx context.Context, idx *Index, query string) ([]Hit, error) {
	if idx == nil || idx.Len() == 0 {
		return nil, nil
	}
	qvec, err := r.emb.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	vector := idx.VectorSearch(qvec, r.topK)
	if !r.hybrid {
		return vector, nil
	}
	keyword, err := idx.Bm25Search(query, r.topK)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}
	return FuseRRF(vector, keyword, r.topK), nil
}

func sha1Hex(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}
