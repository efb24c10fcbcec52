package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the assistant backend
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Summarize SummarizeConfig `mapstructure:"summarize"`
	Session   SessionConfig   `mapstructure:"session"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig describes the OpenAI-compatible completion/embedding endpoint.
// Works against api.openai.com or a local Ollama /v1 endpoint alike.
type LLMConfig struct {
	Type           string        `mapstructure:"type"` // openai, ollama
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	ChatModel      string        `mapstructure:"chat_model"`
	EmbeddingModel string        `mapstructure:"embedding_model"`
	Temperature    float64       `mapstructure:"temperature"`
	MaxTokens      int           `mapstructure:"max_tokens"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

func (c LLMConfig) Validate() error {
	if c.ChatModel == "" {
		return fmt.Errorf("llm.chat_model is required")
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("llm.embedding_model is required")
	}
	return nil
}

// SearchConfig contains web search provider settings
type SearchConfig struct {
	Provider   string `mapstructure:"provider"` // serper, brave
	APIKey     string `mapstructure:"api_key"`
	MaxResults int    `mapstructure:"max_results"` // upstream cap
	TopResults int    `mapstructure:"top_results"` // results actually used
	Region     string `mapstructure:"region"`      // e.g. jp
	Language   string `mapstructure:"language"`    // e.g. ja
	Recency    string `mapstructure:"recency"`     // d, w, m, y or empty
	SafeSearch string `mapstructure:"safesearch"`  // off, moderate, strict
}

// FetchConfig contains web page fetcher settings
type FetchConfig struct {
	Type      string `mapstructure:"type"` // http, chromedp
	TimeoutMS int    `mapstructure:"timeout_ms"`
	MaxChars  int    `mapstructure:"max_chars"`
}

// IngestConfig contains document ingestion settings
type IngestConfig struct {
	UploadsDir string `mapstructure:"uploads_dir"`
}

// RetrievalConfig contains chunking and retrieval settings
type RetrievalConfig struct {
	ChunkSize    int  `mapstructure:"chunk_size"`
	ChunkOverlap int  `mapstructure:"chunk_overlap"`
	TopK         int  `mapstructure:"top_k"`
	Hybrid       bool `mapstructure:"hybrid"`     // fuse BM25 and vector search
	Contextual   bool `mapstructure:"contextual"` // situate chunks before embedding
}

func (c RetrievalConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("retrieval.chunk_size must be > 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("retrieval.chunk_overlap must be in [0, chunk_size)")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be > 0")
	}
	return nil
}

// SummarizeConfig selects the summarization strategy
type SummarizeConfig struct {
	Strategy string `mapstructure:"strategy"` // single, mapreduce
}

func (c SummarizeConfig) Validate() error {
	switch c.Strategy {
	case "single", "mapreduce":
		return nil
	}
	return fmt.Errorf("summarize.strategy must be single or mapreduce, got %q", c.Strategy)
}

// SessionConfig contains session store settings
type SessionConfig struct {
	Store string        `mapstructure:"store"` // inmemory, redis
	TTL   time.Duration `mapstructure:"ttl"`
	Redis RedisConfig   `mapstructure:"redis"`
}

// RedisConfig contains redis connection settings for the redis session store
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig reads configuration from file and environment. A missing config
// file is not fatal; defaults plus KAIWA_* env vars are enough to run.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.address", ":8501")
	viper.SetDefault("llm.type", "ollama")
	viper.SetDefault("llm.base_url", "http://localhost:11434/v1")
	viper.SetDefault("llm.chat_model", "elyza:jp8b")
	viper.SetDefault("llm.embedding_model", "nomic-embed-text")
	viper.SetDefault("llm.temperature", 0.0)
	viper.SetDefault("llm.timeout", 30*time.Second)
	viper.SetDefault("search.provider", "serper")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.top_results", 3)
	viper.SetDefault("search.region", "jp")
	viper.SetDefault("search.language", "ja")
	viper.SetDefault("search.recency", "y")
	viper.SetDefault("search.safesearch", "moderate")
	viper.SetDefault("fetch.type", "http")
	viper.SetDefault("fetch.timeout_ms", 15000)
	viper.SetDefault("fetch.max_chars", 20000)
	viper.SetDefault("ingest.uploads_dir", "uploads")
	viper.SetDefault("retrieval.chunk_size", 200)
	viper.SetDefault("retrieval.chunk_overlap", 20)
	viper.SetDefault("retrieval.top_k", 3)
	viper.SetDefault("retrieval.hybrid", false)
	viper.SetDefault("retrieval.contextual", false)
	viper.SetDefault("summarize.strategy", "single")
	viper.SetDefault("session.store", "inmemory")
	viper.SetDefault("session.ttl", 48*time.Hour)
	viper.SetDefault("telemetry.enabled", true)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("KAIWA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Retrieval.Validate(); err != nil {
		panic(err)
	}
	if err := config.Summarize.Validate(); err != nil {
		panic(err)
	}

	return &config
}
