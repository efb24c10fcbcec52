// Package retrieval provides an in-memory similarity index over embedded
// chunks, with optional BM25 keyword search fused by reciprocal rank.
package retrieval

import (
	"math"
	"sort"
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/kaiwa-dev/kaiwa/tools/embedding"
)

const rrfK = 60 // reciprocal-rank-fusion constant

// Hit is a retrieved chunk with its relevance score.
type Hit struct {
	DocID string
	Text  string
	Score float64
	Rank  int
}

// Index holds embedded chunks for one request. Vectors are kept in memory;
// the corpora here are small (one combined document or a handful of pages).
type Index struct {
	bleve   bleve.Index // nil unless hybrid search is enabled
	texts   map[string]string
	vectors []embedding.EmbedVec
	mu      sync.RWMutex
}

func NewIndex(hybrid bool) (*Index, error) {
	idx := &Index{texts: make(map[string]string)}
	if hybrid {
		b, err := bleve.NewMemOnly(bleve.NewIndexMapping())
		if err != nil {
			return nil, err
		}
		idx.bleve = b
	}
	return idx, nil
}

func (x *Index) Add(docID, text string, vec []float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.texts[docID] = text
	x.vectors = append(x.vectors, embedding.EmbedVec{DocID: docID, Vec: vec})
	if x.bleve != nil {
		return x.bleve.Index(docID, map[string]string{"text": text})
	}
	return nil
}

func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// VectorSearch returns the k chunks most similar to q by cosine similarity,
// ranked descending. An empty index yields no hits.
func (x *Index) VectorSearch(q []float32, k int) []Hit {
	x.mu.RLock()
	defer x.mu.RUnlock()
	type scored struct {
		id    string
		score float64
	}
	scoreds := make([]scored, 0, len(x.vectors))
	for _, v := range x.vectors {
		scoreds = append(scoreds, scored{id: v.DocID, score: cosine(q, v.Vec)})
	}
	sort.SliceStable(scoreds, func(i, j int) bool { return scoreds[i].score > scoreds[j].score })
	var out []Hit
	for i, sc := range scoreds {
		if i >= k {
			break
		}
		out = append(out, Hit{DocID: sc.id, Text: x.texts[sc.id], Score: sc.score, Rank: i + 1})
	}
	return out
}

// Bm25Search returns the k best keyword matches from the bleve index.
func (x *Index) Bm25Search(q string, k int) ([]Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.bleve == nil {
		return nil, nil
	}
	query := bleve.NewQueryStringQuery(q)
	searchReq := bleve.NewSearchRequestOptions(query, k*3, 0, false)
	res, err := x.bleve.Search(searchReq)
	if err != nil {
		return nil, err
	}
	var out []Hit
	for i, hit := range res.Hits {
		out = append(out, Hit{DocID: hit.ID, Text: x.texts[hit.ID], Score: hit.Score, Rank: i + 1})
		if len(out) >= k {
			break
		}
	}
	return out, nil
}

// FuseRRF merges two ranked lists by reciprocal-rank fusion, keeping the top k.
func FuseRRF(a, b []Hit, k int) []Hit {
	type agg struct {
		item  Hit
		score float64
	}
	m := map[string]*agg{}
	add := func(list []Hit) {
		for _, h := range list {
			x, ok := m[h.DocID]
			if !ok {
				m[h.DocID] = &agg{item: h}
				x = m[h.DocID]
			}
			x.score += 1.0 / float64(rrfK+h.Rank)
		}
	}
	add(a)
	add(b)
	items := make([]*agg, 0, len(m))
	for _, v := range m {
		items = append(items, v)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })
	if k > len(items) {
		k = len(items)
	}
	out := make([]Hit, 0, k)
	for i := 0; i < k; i++ {
		h := items[i].item
		h.Score = items[i].score
		h.Rank = i + 1
		out = append(out, h)
	}
	return out
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ai := float64(a[i])
		bi := float64(b[i])
		dot += ai * bi
		na += ai * ai
		nb += bi * bi
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
