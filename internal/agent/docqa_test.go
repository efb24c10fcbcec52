package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/kaiwa-dev/kaiwa/tools/embedding"
	"github.com/kaiwa-dev/kaiwa/tools/ingest"
	"github.com/kaiwa-dev/kaiwa/tools/retrieval"
)

func newDocQA(llm *fakeLLM, contextual bool) *DocQA {
	emb := embedding.NewEmbedding(llm)
	r := retrieval.NewRetriever(emb, 3, false)
	return NewDocQA(llm, r, 200, 20, contextual, discard())
}

func TestDocQA_NoDocumentShortCircuits(t *testing.T) {
	llm := &fakeLLM{}
	q := newDocQA(llm, false)

	got, err := q.Answer(context.Background(), nil, "これは何ですか")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != noGroundingReply {
		t.Errorf("got %q, want fixed no-grounding reply", got)
	}
	if llm.completeCalls != 0 || llm.embedCalls != 0 {
		t.Error("model must not be invoked without a document")
	}
}

func TestDocQA_EmptyDocumentShortCircuits(t *testing.T) {
	llm := &fakeLLM{}
	q := newDocQA(llm, false)

	got, err := q.Answer(context.Background(), &ingest.Combined{Text: "   "}, "これは何ですか")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != noGroundingReply {
		t.Errorf("got %q, want fixed no-grounding reply", got)
	}
}

func TestDocQA_GroundedAnswer(t *testing.T) {
	llm := &fakeLLM{completeResp: "吾輩は猫です。"}
	q := newDocQA(llm, false)
	doc := &ingest.Combined{Text: strings.Repeat("吾輩は猫である。名前はまだ無い。", 30)}

	got, err := q.Answer(context.Background(), doc, "主人公は誰ですか")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "吾輩は猫です。" {
		t.Errorf("got %q", got)
	}
	if llm.completeCalls != 1 {
		t.Fatalf("expected 1 completion, got %d", llm.completeCalls)
	}
	prompt := llm.lastMessages[0].Content
	if !strings.Contains(prompt, "質問: 主人公は誰ですか") {
		t.Error("prompt should carry the query")
	}
	if !strings.Contains(prompt, "背景情報:") {
		t.Error("prompt should carry the background section")
	}
	// Embedding happens twice: once for the chunk batch, once for the query.
	if llm.embedCalls != 2 {
		t.Errorf("expected 2 embedding calls, got %d", llm.embedCalls)
	}
}

func TestDocQA_ContextualVariantSituatesChunks(t *testing.T) {
	llm := &fakeLLM{completeResp: "文脈です"}
	q := newDocQA(llm, true)
	doc := &ingest.Combined{Text: "短い文書です。"}

	if _, err := q.Answer(context.Background(), doc, "これは何"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One situating call per chunk (single chunk here) plus the final answer.
	if llm.completeCalls != 2 {
		t.Errorf("expected 2 completions, got %d", llm.completeCalls)
	}
}
