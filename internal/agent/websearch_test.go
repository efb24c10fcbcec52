package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kaiwa-dev/kaiwa/tools/embedding"
	"github.com/kaiwa-dev/kaiwa/tools/retrieval"
	"github.com/kaiwa-dev/kaiwa/tools/web_fetch"
	fetchmodels "github.com/kaiwa-dev/kaiwa/tools/web_fetch/models"
	"github.com/kaiwa-dev/kaiwa/tools/web_search"
	searchmodels "github.com/kaiwa-dev/kaiwa/tools/web_search/models"
)

type fakeSearcher struct {
	results []searchmodels.Result
	err     error
	lastK   int
}

func (f *fakeSearcher) Discover(ctx context.Context, q string, k int) ([]searchmodels.Result, error) {
	f.lastK = k
	return f.results, f.err
}

type fakeFetcher struct {
	pages map[string]string
	err   error
	calls int
}

func (f *fakeFetcher) Exec(ctx context.Context, url string) (fetchmodels.Result, error) {
	f.calls++
	if f.err != nil {
		return fetchmodels.Result{}, f.err
	}
	text, ok := f.pages[url]
	if !ok {
		return fetchmodels.Result{}, errors.New("not found")
	}
	return fetchmodels.Result{URL: url, Title: "page", Text: text, Status: 200}, nil
}

func newWebAgent(llm *fakeLLM, searcher web_search.WebSearcher, fetcher web_fetch.WebFetcher) *WebSearchAgent {
	emb := embedding.NewEmbedding(llm)
	r := retrieval.NewRetriever(emb, 3, false)
	return NewWebSearchAgent(searcher, fetcher, llm, r, 200, 20, 3, 5, discard())
}

func TestWebSearch_NoResults(t *testing.T) {
	llm := &fakeLLM{}
	a := newWebAgent(llm, &fakeSearcher{}, &fakeFetcher{})

	got, err := a.Answer(context.Background(), "今日のニュース")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != noSearchResultsReply {
		t.Errorf("got %q, want fixed no-results reply", got)
	}
	if llm.completeCalls != 0 || llm.embedCalls != 0 {
		t.Error("model must not be invoked without search results")
	}
}

func TestWebSearch_SearchErrorYieldsFixedReply(t *testing.T) {
	llm := &fakeLLM{}
	a := newWebAgent(llm, &fakeSearcher{err: errors.New("quota exceeded")}, &fakeFetcher{})

	got, err := a.Answer(context.Background(), "今日のニュース")
	if err != nil {
		t.Fatalf("search failure should not surface as an error: %v", err)
	}
	if got != noSearchResultsReply {
		t.Errorf("got %q, want fixed no-results reply", got)
	}
}

func TestWebSearch_AllFetchesFail(t *testing.T) {
	llm := &fakeLLM{}
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "A", URL: "https://a.example", Snippet: "a"},
		{Title: "B", URL: "https://b.example", Snippet: "b"},
	}}
	a := newWebAgent(llm, searcher, &fakeFetcher{err: errors.New("timeout")})

	got, err := a.Answer(context.Background(), "今日のニュース")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fetchFailedReply {
		t.Errorf("got %q, want fixed fetch-failed reply", got)
	}
	if llm.completeCalls != 0 {
		t.Error("model must not be invoked when nothing was fetched")
	}
}

func TestWebSearch_AnswerWithCitations(t *testing.T) {
	llm := &fakeLLM{completeResp: "晴れです。"}
	searcher := &fakeSearcher{results: []searchmodels.Result{
		{Title: "天気予報", URL: "https://a.example", Snippet: "東京の天気"},
		{Title: "落ちたページ", URL: "https://dead.example", Snippet: "読めない"},
	}}
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://a.example": strings.Repeat("東京は晴れ。", 50),
	}}
	a := newWebAgent(llm, searcher, fetcher)

	got, err := a.Answer(context.Background(), "東京の天気は")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "【回答】\n晴れです。") {
		t.Errorf("reply should open with the answer section, got %q", got)
	}
	if !strings.Contains(got, "【情報源】") {
		t.Error("reply should carry the sources section")
	}
	if !strings.Contains(got, "URL: https://a.example") {
		t.Error("sources should list the searched URLs")
	}
	// The unfetchable URL is skipped for grounding but still cited.
	if !strings.Contains(got, "URL: https://dead.example") {
		t.Error("citations come from search results, not fetch outcomes")
	}
	if llm.completeCalls != 1 {
		t.Errorf("expected 1 completion, got %d", llm.completeCalls)
	}
}

func TestWebSearch_RequestsUpstreamCapFetchesTopOnly(t *testing.T) {
	llm := &fakeLLM{completeResp: "回答です。"}
	var results []searchmodels.Result
	pages := map[string]string{}
	for i := 0; i < 5; i++ {
		url := fmt.Sprintf("https://r%d.example", i)
		results = append(results, searchmodels.Result{Title: fmt.Sprintf("R%d", i), URL: url, Snippet: "s"})
		pages[url] = strings.Repeat("本文です。", 30)
	}
	searcher := &fakeSearcher{results: results}
	fetcher := &fakeFetcher{pages: pages}
	a := newWebAgent(llm, searcher, fetcher)

	got, err := a.Answer(context.Background(), "最新情報")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.lastK != 5 {
		t.Errorf("provider asked for %d results, want the upstream cap 5", searcher.lastK)
	}
	if fetcher.calls != 3 {
		t.Errorf("fetched %d pages, want the top 3", fetcher.calls)
	}
	if strings.Contains(got, "https://r3.example") || strings.Contains(got, "https://r4.example") {
		t.Error("results past the top cut must not be cited")
	}
}

func TestWebSearch_CitationCapAndSnippetTruncation(t *testing.T) {
	long := strings.Repeat("検", snippetLimit+50)
	results := []searchmodels.Result{
		{Title: "1", URL: "https://one.example", Snippet: long},
		{Title: "2", URL: "https://two.example", Snippet: "short"},
		{Title: "3", URL: "https://three.example", Snippet: "short"},
		{Title: "4", URL: "https://four.example", Snippet: "short"},
	}
	got := formatSources(results)
	if strings.Contains(got, "https://four.example") {
		t.Error("citations should be capped")
	}
	if !utf8.ValidString(got) {
		t.Fatal("sources block must stay valid UTF-8")
	}
	wantSnippet := strings.Repeat("検", snippetLimit) + "..."
	if !strings.Contains(got, wantSnippet) {
		t.Error("long snippets should be truncated at a rune boundary with an ellipsis")
	}
	if strings.Contains(got, long) {
		t.Error("full snippet should not appear")
	}
}
