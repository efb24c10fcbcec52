package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kaiwa-dev/kaiwa/provider"
	"github.com/kaiwa-dev/kaiwa/tools/chunk"
	"github.com/kaiwa-dev/kaiwa/tools/ingest"
)

// Summarization strategies.
const (
	StrategySingle    = "single"
	StrategyMapReduce = "mapreduce"
)

const (
	noInputReply    = "入力が提供されていません。"
	noDocumentReply = "要約対象となる文書を検出できませんでした。文書を添付し、メッセージでご指示ください。"
)

const singleSummaryPromptTemplate = `あなたはプロの編集者です。以下の文書をユーザーの意図を反映させて要約してください。

以下の点に注意してください:
- 重要なキーワードを漏らさない
- 文書の本質的な意味を保持する
- 架空の表現を使用しない
- 数値は変更しない

ユーザーのメッセージ:
%s

要約する文書:
%s

要約結果は以下の形式で出力してください：

【要約】
（ここに要約を記載）

【要約の観点】
- 重視した点
- 抽出したキーワード
- 要約方針の説明
`

const mapPromptTemplate = `あなたはプロの編集者です。
以下の文書をユーザーの意図を反映させて要約してください。

以下の点に注意してください:
- 重要なキーワードを漏らさない
- 文書の本質的な意味を保持する
- 架空の表現を使用しない
- 数値は変更しない

ユーザーのメッセージ:
%s

要約する文書:
%s`

const reducePromptTemplate = `以下は部分的な要約です。
ユーザーの意図を反映させながら、これらを統合してください。

ユーザーのメッセージ:
%s

部分要約:
%s

以下の形式で出力してください：

【要約】
（ここに統合された要約を記載）

【要約の観点】
- 重視した点
- 抽出したキーワード
- 要約方針の説明`

// Summarizer condenses the combined document into the fixed two-section
// layout. The map-reduce strategy bounds how much text any single model call
// sees, at the cost of extra round-trips.
type Summarizer struct {
	llm          provider.Provider
	strategy     string
	chunkSize    int
	chunkOverlap int
	logger       *log.Logger
}

func NewSummarizer(llm provider.Provider, strategy string, chunkSize, chunkOverlap int, logger *log.Logger) *Summarizer {
	if logger == nil {
		logger = log.New(log.Writer(), "[SUMMARIZE] ", log.LstdFlags)
	}
	if strategy == "" {
		strategy = StrategySingle
	}
	return &Summarizer{
		llm:          llm,
		strategy:     strategy,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Summarize returns the document summary. Missing or empty documents and
// empty queries yield fixed replies without a model call.
func (s *Summarizer) Summarize(ctx context.Context, doc *ingest.Combined, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return noInputReply, nil
	}
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return noDocumentReply, nil
	}
	if s.strategy == StrategyMapReduce {
		return s.mapReduce(ctx, doc.Text, query)
	}
	prompt := fmt.Sprintf(singleSummaryPromptTemplate, query, doc.Text)
	return s.llm.Complete(ctx, []provider.Message{{Role: "user", Content: prompt}})
}

func (s *Summarizer) mapReduce(ctx context.Context, text, query string) (string, error) {
	chunks := chunk.Split(text, s.chunkSize, s.chunkOverlap)
	partials := make([]string, 0, len(chunks))
	for i, c := range chunks {
		prompt := fmt.Sprintf(mapPromptTemplate, query, c)
		summary, err := s.llm.Complete(ctx, []provider.Message{{Role: "user", Content: prompt}})
		if err != nil {
			return "", fmt.Errorf("map step %d/%d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, summary)
	}
	// A single chunk needs no reduce pass.
	if len(partials) == 1 {
		return partials[0], nil
	}
	prompt := fmt.Sprintf(reducePromptTemplate, query, strings.Join(partials, "\n\n"))
	out, err := s.llm.Complete(ctx, []provider.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("reduce step: %w", err)
	}
	return out, nil
}
