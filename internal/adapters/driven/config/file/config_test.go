package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Chunking.Size)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.Results)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
}

func TestLoad_ParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[chunking]
size = 500
overlap = 50

[youtube]
api_key = "yt-key"
max_videos = 25

[llm]
provider = "ollama"
model = "llama3.2"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, "yt-key", cfg.YouTube.APIKey)
	assert.Equal(t, 25, cfg.YouTube.MaxVideos)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "llama3.2", cfg.LLM.Model)

	// Untouched sections fall back to defaults.
	assert.Equal(t, 5, cfg.Retrieval.Results)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("chunking = [not toml"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvYouTubeAPIKey, "env-yt")
	t.Setenv(EnvAnthropicAPIKey, "env-ant")
	t.Setenv(EnvDataDir, "/tmp/tubelens-data")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "env-yt", cfg.YouTube.APIKey)
	assert.Equal(t, "env-ant", cfg.LLM.APIKey)
	assert.Equal(t, "/tmp/tubelens-data", cfg.Dirs.Data)
}

func TestLoad_EnvKeyMatchesProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nprovider = \"ollama\"\n"), 0600))

	t.Setenv(EnvAnthropicAPIKey, "env-ant")

	cfg, err := Load(path)
	require.NoError(t, err)

	// The anthropic key does not leak into an ollama setup.
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.YouTube.APIKey = "yt-key"
	cfg.Embedding.APIKey = "oa-key"
	cfg.Chunking.Size = 800

	require.NoError(t, Save(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := Default()
	bad.Chunking.Size = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Chunking.Overlap = bad.Chunking.Size
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Embedding.Provider = "gemini"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.LLM.Provider = "gpt"
	assert.Error(t, bad.Validate())
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".tubelens", "config.toml"), path)
}
