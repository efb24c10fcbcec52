package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kaiwa-dev/kaiwa/config"
	"github.com/kaiwa-dev/kaiwa/internal/telemetry"
	"github.com/kaiwa-dev/kaiwa/provider"
	"github.com/kaiwa-dev/kaiwa/session"
	"github.com/kaiwa-dev/kaiwa/session/inmemory"
	redis_session "github.com/kaiwa-dev/kaiwa/session/redis"
	"github.com/kaiwa-dev/kaiwa/tools/embedding"
	"github.com/kaiwa-dev/kaiwa/tools/ingest"
	"github.com/kaiwa-dev/kaiwa/tools/retrieval"
	"github.com/kaiwa-dev/kaiwa/tools/web_fetch"
	"github.com/kaiwa-dev/kaiwa/tools/web_search"
)

// ErrNoResponse indicates the dispatched task produced no reply.
var ErrNoResponse = errors.New("no response generated")

// Small interfaces over the responders so the pipeline can be exercised with
// fakes in tests.
type taskClassifier interface {
	Classify(ctx context.Context, query string, referencePresent bool) Task
}

type converser interface {
	Respond(ctx context.Context, query string, history []session.Message) (string, error)
}

type documentAnswerer interface {
	Answer(ctx context.Context, doc *ingest.Combined, query string) (string, error)
}

type documentSummarizer interface {
	Summarize(ctx context.Context, doc *ingest.Combined, query string) (string, error)
}

type webAnswerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// Orchestrator runs one pipeline invocation per request: ingest uploads,
// classify, dispatch, record the exchange, clean up.
type Orchestrator struct {
	cfg        *config.Config
	logger     *log.Logger
	classifier taskClassifier
	responder  converser
	docQA      documentAnswerer
	summarizer documentSummarizer
	webSearch  webAnswerer
	sessions   session.Store
	ingestor   *ingest.Ingestor
	telemetry  *telemetry.Telemetry
}

// NewOrchestrator wires the full pipeline from configuration.
func NewOrchestrator(cfg *config.Config, logger *log.Logger, tele *telemetry.Telemetry) (*Orchestrator, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	}

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	searcher, err := web_search.NewWebSearcher(
		web_search.Provider(cfg.Search.Provider),
		cfg.Search.APIKey,
		web_search.Params{
			Region:     cfg.Search.Region,
			Language:   cfg.Search.Language,
			Recency:    cfg.Search.Recency,
			SafeSearch: cfg.Search.SafeSearch,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("web searcher: %w", err)
	}

	fetcher, err := web_fetch.NewWebFetcher(
		web_fetch.FetcherType(cfg.Fetch.Type),
		time.Duration(cfg.Fetch.TimeoutMS)*time.Millisecond,
		cfg.Fetch.MaxChars,
	)
	if err != nil {
		return nil, fmt.Errorf("web fetcher: %w", err)
	}

	var sessions session.Store
	switch cfg.Session.Store {
	case "redis":
		sessions = redis_session.NewRedisSessionStore(cfg.Session.Redis.Addr, cfg.Session.Redis.Password, cfg.Session.Redis.DB)
	case "inmemory", "":
		sessions = inmemory.NewInMemorySessionStore()
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.Session.Store)
	}

	emb := embedding.NewEmbedding(llm)
	retriever := retrieval.NewRetriever(emb, cfg.Retrieval.TopK, cfg.Retrieval.Hybrid)
	size, overlap := cfg.Retrieval.ChunkSize, cfg.Retrieval.ChunkOverlap

	return &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		classifier: NewClassifier(llm, nil),
		responder:  NewResponder(llm),
		docQA:      NewDocQA(llm, retriever, size, overlap, cfg.Retrieval.Contextual, nil),
		summarizer: NewSummarizer(llm, cfg.Summarize.Strategy, size, overlap, nil),
		webSearch:  NewWebSearchAgent(searcher, fetcher, llm, retriever, size, overlap, cfg.Search.TopResults, cfg.Search.MaxResults, nil),
		sessions:   sessions,
		ingestor:   ingest.NewIngestor(cfg.Ingest.UploadsDir, nil),
		telemetry:  tele,
	}, nil
}

// Handle routes one query through the pipeline and returns the reply.
func (o *Orchestrator) Handle(ctx context.Context, query, sessionID string) (string, error) {
	start := time.Now()

	var combined *ingest.Combined
	hadUploads := o.ingestor.HasUploads()
	if hadUploads {
		c, err := o.ingestor.Ingest()
		if err != nil {
			// Files were detected but nothing loaded: the classifier is told
			// reference ABSENT, so the query falls through to a task that
			// does not need grounding.
			o.logger.Printf("ingestion failed: %v", err)
		} else {
			combined = c
		}
	}

	sess, err := o.sessions.EnsureSession(sessionID, o.cfg.Session.TTL)
	if err != nil {
		return "", fmt.Errorf("ensure session: %w", err)
	}

	task := o.classifier.Classify(ctx, query, combined != nil)
	o.logger.Printf("task type determined: %s", task)

	var reply string
	switch task {
	case TaskAnswerFromDocument:
		reply, err = o.docQA.Answer(ctx, combined, query)
	case TaskSummarize:
		reply, err = o.summarizer.Summarize(ctx, combined, query)
	case TaskWebSearch:
		reply, err = o.webSearch.Answer(ctx, query)
	default:
		reply, err = o.responder.Respond(ctx, query, sess.History())
	}
	if err != nil {
		o.telemetry.ObserveRequest(task.String(), telemetry.OutcomeError, time.Since(start))
		return "", fmt.Errorf("generate response for %s: %w", task, err)
	}
	if reply == "" {
		o.telemetry.ObserveRequest(task.String(), telemetry.OutcomeError, time.Since(start))
		return "", ErrNoResponse
	}

	if err := sess.AppendExchange(query, reply); err != nil {
		o.logger.Printf("error recording exchange for session %s: %v", sess.ID(), err)
	}

	if hadUploads {
		o.ingestor.Cleanup(combined)
		o.logger.Printf("cleaned up files for session %s", sess.ID())
	}

	o.telemetry.ObserveRequest(task.String(), telemetry.OutcomeSuccess, time.Since(start))
	return reply, nil
}
