// Package file loads and saves the Tubelens configuration as a TOML
// file, by default at ~/.tubelens/config.toml. Every setting has a
// working default; the file only needs the API keys.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Environment variable overrides. Set keys here instead of in the
// config file when running in CI or containers.
const (
	EnvYouTubeAPIKey   = "TUBELENS_YOUTUBE_API_KEY"
	EnvAnthropicAPIKey = "TUBELENS_ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey    = "TUBELENS_OPENAI_API_KEY"
	EnvDataDir         = "TUBELENS_DATA_DIR"
)

// Config is the full application configuration.
type Config struct {
	// Dirs holds the storage locations.
	Dirs DirsConfig `toml:"dirs"`

	// Chunking controls how texts are split before embedding.
	Chunking ChunkingConfig `toml:"chunking"`

	// Retrieval controls question answering defaults.
	Retrieval RetrievalConfig `toml:"retrieval"`

	// YouTube configures the video provider.
	YouTube YouTubeConfig `toml:"youtube"`

	// Embedding configures the embedding provider.
	Embedding EmbeddingConfig `toml:"embedding"`

	// LLM configures the completion provider.
	LLM LLMConfig `toml:"llm"`

	// Retry configures backoff at the provider boundary.
	Retry RetryConfig `toml:"retry"`
}

// DirsConfig holds storage locations. Empty values resolve to
// subdirectories of ~/.tubelens.
type DirsConfig struct {
	// Data is where reports and transcripts are written.
	Data string `toml:"data"`

	// Cache is where the embedding cache lives.
	Cache string `toml:"cache"`

	// Index is where the vector index lives.
	Index string `toml:"index"`
}

// ChunkingConfig controls text splitting.
type ChunkingConfig struct {
	// Size is the chunk length in characters.
	Size int `toml:"size"`

	// Overlap is how many characters consecutive chunks share.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig controls question answering.
type RetrievalConfig struct {
	// Results is the default number of chunks retrieved per question.
	Results int `toml:"results"`
}

// YouTubeConfig configures the video provider.
type YouTubeConfig struct {
	// APIKey is the YouTube Data API key.
	APIKey string `toml:"api_key"`

	// MaxVideos caps how many videos a channel analysis covers.
	MaxVideos int `toml:"max_videos"`

	// TranscriptLanguage is the preferred caption language.
	TranscriptLanguage string `toml:"transcript_language"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	// Provider selects the backend: "openai" or "ollama".
	Provider string `toml:"provider"`

	// APIKey is the provider API key (openai only).
	APIKey string `toml:"api_key"`

	// Model overrides the provider's default embedding model.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`
}

// LLMConfig configures the completion provider.
type LLMConfig struct {
	// Provider selects the backend: "anthropic" or "ollama".
	Provider string `toml:"provider"`

	// APIKey is the provider API key (anthropic only).
	APIKey string `toml:"api_key"`

	// Model overrides the provider's default model.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`
}

// RetryConfig configures provider backoff.
type RetryConfig struct {
	// MaxAttempts is the total number of tries per call.
	MaxAttempts int `toml:"max_attempts"`

	// BaseDelaySeconds is the wait before the first retry.
	BaseDelaySeconds int `toml:"base_delay_seconds"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunking:  ChunkingConfig{Size: 1000, Overlap: 100},
		Retrieval: RetrievalConfig{Results: 5},
		YouTube:   YouTubeConfig{MaxVideos: 10, TranscriptLanguage: "en"},
		Embedding: EmbeddingConfig{Provider: "openai"},
		LLM:       LLMConfig{Provider: "anthropic"},
		Retry:     RetryConfig{MaxAttempts: 3, BaseDelaySeconds: 1},
	}
}

// BaseDelay returns the retry base delay as a duration.
func (c RetryConfig) BaseDelay() time.Duration {
	return time.Duration(c.BaseDelaySeconds) * time.Second
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".tubelens", "config.toml"), nil
}

// Load reads the config file at path, fills unset fields with
// defaults, and applies environment overrides. A missing file yields
// the defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment is a valid setup.
	case err != nil:
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return cfg, nil
}

// Save writes the config file at path, creating parent directories as
// needed. Written with owner-only permissions since it holds API keys.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// applyDefaults re-fills fields an existing file may have zeroed out.
func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Chunking.Size == 0 {
		cfg.Chunking.Size = def.Chunking.Size
		// An explicit overlap of zero is only honoured alongside an
		// explicit size.
		if cfg.Chunking.Overlap == 0 {
			cfg.Chunking.Overlap = def.Chunking.Overlap
		}
	}
	if cfg.Retrieval.Results == 0 {
		cfg.Retrieval.Results = def.Retrieval.Results
	}
	if cfg.YouTube.MaxVideos == 0 {
		cfg.YouTube.MaxVideos = def.YouTube.MaxVideos
	}
	if cfg.YouTube.TranscriptLanguage == "" {
		cfg.YouTube.TranscriptLanguage = def.YouTube.TranscriptLanguage
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = def.Embedding.Provider
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = def.LLM.Provider
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if cfg.Retry.BaseDelaySeconds == 0 {
		cfg.Retry.BaseDelaySeconds = def.Retry.BaseDelaySeconds
	}
}

// applyEnv overlays environment variables onto the loaded config.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvYouTubeAPIKey); v != "" {
		cfg.YouTube.APIKey = v
	}
	if v := os.Getenv(EnvAnthropicAPIKey); v != "" && cfg.LLM.Provider == "anthropic" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv(EnvOpenAIAPIKey); v != "" && cfg.Embedding.Provider == "openai" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.Dirs.Data = v
	}
}

// Validate reports configuration problems a command cannot work
// around.
func (c Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, size), got %d for size %d", c.Chunking.Overlap, c.Chunking.Size)
	}
	switch c.Embedding.Provider {
	case "openai", "ollama":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	switch c.LLM.Provider {
	case "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}
