package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/kaiwa-dev/kaiwa/provider"
)

const classifyPromptTemplate = `あなたは高性能な言語モデルです。タスクは、4種類です:
1. 通常の会話（参照テキストはありません）
2. 参照テキストに基づくQ&A（参照テキストがあります）
3. 文書の要約（参照テキストがあります）
4. あなたが学習していない最新情報や専門性の高い情報を取得するためのweb検索（参照テキストはありません）

ユーザーのクエリを分析し、クエリに対応したタスクを適切に判断してください。
参照テキストの有無もタスク判断の参考になります。

回答は必ず {"task": "task1"} の形式のJSONのみで返してください。
通常の会話の場合"task1"、参照テキストに基づくQ&Aの場合"task2"、文書の要約の場合"task3"、最新情報や高度な専門情報を取得するためのweb検索の場合"task4"です。

参照テキスト:
%s

ユーザーのクエリ:
%s
`

// Classifier asks the model which task a query belongs to, constrained to a
// JSON label.
type Classifier struct {
	llm    provider.Provider
	logger *log.Logger
}

func NewClassifier(llm provider.Provider, logger *log.Logger) *Classifier {
	if logger == nil {
		logger = log.New(log.Writer(), "[CLASSIFY] ", log.LstdFlags)
	}
	return &Classifier{llm: llm, logger: logger}
}

// Classify returns the task for the query. Every failure mode (transport
// error, malformed JSON, out-of-set label) degrades to TaskConverse so a
// classifier hiccup never fails the whole request.
func (c *Classifier) Classify(ctx context.Context, query string, referencePresent bool) Task {
	reference := "参照テキストなし"
	if referencePresent {
		reference = "参照テキストあり"
	}
	prompt := fmt.Sprintf(classifyPromptTemplate, reference, query)

	out, err := c.llm.CompleteJSON(ctx, []provider.Message{{Role: "user", Content: prompt}})
	if err != nil {
		c.logger.Printf("classification failed, defaulting to %s: %v", TaskConverse, err)
		return TaskConverse
	}

	var resp struct {
		Task string `json:"task"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		c.logger.Printf("unparseable classification %q, defaulting to %s", out, TaskConverse)
		return TaskConverse
	}
	return ParseTask(resp.Task)
}
