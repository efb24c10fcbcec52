package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kaiwa-dev/kaiwa/provider"
	"github.com/kaiwa-dev/kaiwa/tools/chunk"
	"github.com/kaiwa-dev/kaiwa/tools/ingest"
	"github.com/kaiwa-dev/kaiwa/tools/retrieval"
)

const (
	noGroundingReply  = "参照できる文書が見つかりませんでした。文書を添付してから、もう一度お試しください。"
	noRelevantDocInfo = "申し訳ありませんが、文書の中に関連する情報が見つかりませんでした。"
)

const qaPromptTemplate = "質問: %s\n\n背景情報:\n%s\n\n回答:"

const contextualizePromptTemplate = `<document>
%s
</document>
ドキュメント全体の中に配置したいチャンクは次のとおりです。
<chunk>
%s
</chunk>
このチャンクを文書全体の中に位置づけるための簡潔なコンテキストを記述してください。`

// contextualizeDocLimit bounds how much of the document is shown per
// contextualization call.
const contextualizeDocLimit = 4000

// DocQA answers questions grounded in the combined uploaded document.
type DocQA struct {
	llm          provider.Provider
	retriever    *retrieval.Retriever
	chunkSize    int
	chunkOverlap int
	contextual   bool
	logger       *log.Logger
}

func NewDocQA(llm provider.Provider, retriever *retrieval.Retriever, chunkSize, chunkOverlap int, contextual bool, logger *log.Logger) *DocQA {
	if logger == nil {
		logger = log.New(log.Writer(), "[DOCQA] ", log.LstdFlags)
	}
	return &DocQA{
		llm:          llm,
		retriever:    retriever,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		contextual:   contextual,
		logger:       logger,
	}
}

// Answer retrieves the chunks most similar to the query and asks the model
// for a grounded reply. A missing or empty document short-circuits with a
// fixed reply instead of invoking the model on an empty context.
func (q *DocQA) Answer(ctx context.Context, doc *ingest.Combined, query string) (string, error) {
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return noGroundingReply, nil
	}

	chunks := chunk.Split(doc.Text, q.chunkSize, q.chunkOverlap)
	if q.contextual {
		chunks = q.contextualize(ctx, doc.Text, chunks)
	}

	idx, err := q.retriever.Build(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("build index: %w", err)
	}
	hits, err := q.retriever.Retrieve(ctx, idx, query)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}
	if len(hits) == 0 {
		return noRelevantDocInfo, nil
	}

	background := make([]string, len(hits))
	for i, h := range hits {
		background[i] = h.Text
	}
	prompt := fmt.Sprintf(qaPromptTemplate, query, strings.Join(background, "\n"))
	return q.llm.Complete(ctx, []provider.Message{{Role: "user", Content: prompt}})
}

// contextualize asks the model for a short situating sentence per chunk and
// prepends it before embedding. Trades extra model calls for retrieval
// quality; a failed call falls back to the raw chunk.
func (q *DocQA) contextualize(ctx context.Context, docText string, chunks []string) []string {
	docExcerpt := docText
	if r := []rune(docExcerpt); len(r) > contextualizeDocLimit {
		docExcerpt = string(r[:contextualizeDocLimit])
	}
	out := make([]string, len(chunks))
	for i, c := range chunks {
		prompt := fmt.Sprintf(contextualizePromptTemplate, docExcerpt, c)
		situating, err := q.llm.Complete(ctx, []provider.Message{{Role: "user", Content: prompt}})
		if err != nil {
			q.logger.Printf("contextualization failed for chunk %d: %v", i, err)
			out[i] = c
			continue
		}
		out[i] = strings.TrimSpace(situating) + " " + c
	}
	return out
}
