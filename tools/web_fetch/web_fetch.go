package web_fetch

import (
	"context"
	"errors"
	"time"

	"github.com/kaiwa-dev/kaiwa/tools/web_fetch/chromedp"
	"github.com/kaiwa-dev/kaiwa/tools/web_fetch/httpfetch"
	"github.com/kaiwa-dev/kaiwa/tools/web_fetch/models"
)

const (
	DefaultTimeoutMS = 15000
	MaxCharsDefault  = 20000
)

type WebFetcher interface {
	Exec(ctx context.Context, url string) (models.Result, error)
}

type FetcherType string

const (
	// HTTPFetcherType fetches with a plain HTTP client; enough for
	// server-rendered pages and much cheaper than a browser.
	HTTPFetcherType FetcherType = "http"
	// ChromedpFetcherType renders the page in headless Chrome first.
	ChromedpFetcherType FetcherType = "chromedp"
)

var ErrUnsupportedFetcher = errors.New("unsupported fetcher type")

func NewWebFetcher(fetcherType FetcherType, timeout time.Duration, maxChars int) (WebFetcher, error) {
	if timeout <= 0 {
		timeout = DefaultTimeoutMS * time.Millisecond
	}
	if maxChars <= 0 {
		maxChars = MaxCharsDefault
	}

	switch fetcherType {
	case HTTPFetcherType:
		return &httpfetch.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	case ChromedpFetcherType:
		return &chromedp.Fetch{Timeout: timeout, MaxChars: maxChars}, nil
	default:
		return nil, ErrUnsupportedFetcher
	}
}
