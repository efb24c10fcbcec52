package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kaiwa-dev/kaiwa/provider"
	"github.com/kaiwa-dev/kaiwa/tools/chunk"
	"github.com/kaiwa-dev/kaiwa/tools/retrieval"
	"github.com/kaiwa-dev/kaiwa/tools/web_fetch"
	"github.com/kaiwa-dev/kaiwa/tools/web_search"
	searchmodels "github.com/kaiwa-dev/kaiwa/tools/web_search/models"
)

const (
	noSearchResultsReply = "【回答】\n検索結果が見つかりませんでした\n"
	fetchFailedReply     = "【回答】\nウェブコンテンツの処理に失敗しました\n"
	noRelevantWebInfo    = "【回答】\n申し訳ありませんが、関連情報が見つかりませんでした。\n"
)

const webAnswerPromptTemplate = `以下の情報に基づいて、ユーザーの質問に答えてください。
情報:
%s

質問: %s

できるだけ具体的に、わかりやすく説明してください。`

// snippetLimit bounds citation snippets; longer ones get an ellipsis marker.
const snippetLimit = 200

// maxCitations caps the number of sources listed under the reply.
const maxCitations = 3

// WebSearchAgent answers queries from live web content: search, fetch,
// retrieve the most relevant passages, then generate with citations.
type WebSearchAgent struct {
	searcher     web_search.WebSearcher
	fetcher      web_fetch.WebFetcher
	llm          provider.Provider
	retriever    *retrieval.Retriever
	chunkSize    int
	chunkOverlap int
	topResults   int
	maxResults   int
	logger       *log.Logger
}

func NewWebSearchAgent(searcher web_search.WebSearcher, fetcher web_fetch.WebFetcher, llm provider.Provider, retriever *retrieval.Retriever, chunkSize, chunkOverlap, topResults, maxResults int, logger *log.Logger) *WebSearchAgent {
	if logger == nil {
		logger = log.New(log.Writer(), "[WEBSEARCH] ", log.LstdFlags)
	}
	if topResults <= 0 {
		topResults = 3
	}
	if maxResults < topResults {
		maxResults = topResults
	}
	return &WebSearchAgent{
		searcher:     searcher,
		fetcher:      fetcher,
		llm:          llm,
		retriever:    retriever,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		topResults:   topResults,
		maxResults:   maxResults,
		logger:       logger,
	}
}

// Answer runs the search pipeline. Search failures and unfetchable results
// short-circuit with fixed replies before any model call; model and
// embedding failures surface as errors for the boundary to render.
func (a *WebSearchAgent) Answer(ctx context.Context, query string) (string, error) {
	results, err := a.searcher.Discover(ctx, query, a.maxResults)
	if err != nil {
		a.logger.Printf("search error: %v", err)
		return noSearchResultsReply, nil
	}
	if len(results) == 0 {
		return noSearchResultsReply, nil
	}
	// The provider is asked for the full cap; only the top results are
	// fetched and cited.
	if len(results) > a.topResults {
		results = results[:a.topResults]
	}

	var chunks []string
	fetched := 0
	for _, r := range results {
		page, err := a.fetcher.Exec(ctx, r.URL)
		if err != nil {
			a.logger.Printf("error processing URL %s: %v", r.URL, err)
			continue
		}
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		fetched++
		chunks = append(chunks, chunk.Split(page.Text, a.chunkSize, a.chunkOverlap)...)
	}
	if fetched == 0 {
		return fetchFailedReply, nil
	}

	idx, err := a.retriever.Build(ctx, chunks)
	if err != nil {
		return "", fmt.Errorf("build index: %w", err)
	}
	hits, err := a.retriever.Retrieve(ctx, idx, query)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}
	if len(hits) == 0 {
		return noRelevantWebInfo, nil
	}

	passages := make([]string, len(hits))
	for i, h := range hits {
		passages[i] = h.Text
	}
	prompt := fmt.Sprintf(webAnswerPromptTemplate, strings.Join(passages, "\n"), query)
	answer, err := a.llm.Complete(ctx, []provider.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return fmt.Sprintf("【回答】\n%s\n%s", answer, formatSources(results)), nil
}

func formatSources(results []searchmodels.Result) string {
	var b strings.Builder
	b.WriteString("\n【情報源】\n")
	for i, r := range results {
		if i >= maxCitations {
			break
		}
		fmt.Fprintf(&b, "タイトル: %s\nURL: %s\nサマリー: %s\n\n", r.Title, r.URL, truncateSnippet(r.Snippet, snippetLimit))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func truncateSnippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
