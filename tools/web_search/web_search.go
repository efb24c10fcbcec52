package web_search

import (
	"context"
	"errors"

	"github.com/kaiwa-dev/kaiwa/tools/web_search/brave"
	"github.com/kaiwa-dev/kaiwa/tools/web_search/models"
	"github.com/kaiwa-dev/kaiwa/tools/web_search/serper"
)

type WebSearcher interface {
	Discover(ctx context.Context, q string, k int) ([]models.Result, error)
}

type Provider string

const (
	SerperProvider Provider = "serper"
	BraveProvider  Provider = "brave"
)

// Params carries locale and freshness knobs shared by all providers.
type Params struct {
	Region     string // country code, e.g. "jp"
	Language   string // interface language, e.g. "ja"
	Recency    string // d, w, m, y or empty for no limit
	SafeSearch string // off, moderate, strict
}

var ErrUnsupportedProvider = errors.New("unsupported search provider")

func NewWebSearcher(provider Provider, apiKey string, params Params) (WebSearcher, error) {
	switch provider {
	case SerperProvider:
		return serper.Search{
			ApiKey:   apiKey,
			Region:   params.Region,
			Language: params.Language,
			Recency:  params.Recency,
		}, nil
	case BraveProvider:
		return brave.Search{
			ApiKey:     apiKey,
			Region:     params.Region,
			Recency:    params.Recency,
			SafeSearch: params.SafeSearch,
		}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}
