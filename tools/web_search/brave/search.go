package brave

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kaiwa-dev/kaiwa/tools/web_search/models"
)

type Search struct {
	ApiKey     string
	Region     string // country parameter
	Recency    string // pd, pw, pm, py freshness buckets
	SafeSearch string // off, moderate, strict
}

var freshness = map[string]string{"d": "pd", "w": "pw", "m": "pm", "y": "py"}

func (s Search) Discover(ctx context.Context, q string, k int) ([]models.Result, error) {
	// https://api.search.brave.com/app/documentation/web-search
	endpoint := fmt.Sprintf("https://api.search.brave.com/res/v1/web/search?q=%s&count=%d", url.QueryEscape(q), k)
	if s.Region != "" {
		endpoint += "&country=" + url.QueryEscape(s.Region)
	}
	if f, ok := freshness[s.Recency]; ok {
		endpoint += "&freshness=" + f
	}
	if s.SafeSearch != "" {
		endpoint += "&safesearch=" + url.QueryEscape(s.SafeSearch)
	}
	req, _ := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.ApiKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("brave returned status %d", resp.StatusCode)
	}
	var raw struct {
		Web struct {
			Results []struct {
				Title   string `json:"title"`
				URL     string `json:"url"`
				Snippet string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	var out []models.Result
	for i, r := range raw.Web.Results {
		if i >= k {
			break
		}
		out = append(out, models.Result{Title: r.Title, URL: r.URL, Snippet: r.Snippet})
	}
	return out, nil
}
