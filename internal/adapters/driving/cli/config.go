package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	config "github.com/tubelens/tubelens-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change the Tubelens configuration.

Settable keys:
  youtube.api_key       YouTube Data API key
  youtube.max_videos    videos per channel analysis
  embedding.provider    "openai" or "ollama"
  embedding.api_key     embedding provider API key
  embedding.model       embedding model override
  llm.provider          "anthropic" or "ollama"
  llm.api_key           LLM provider API key
  llm.model             LLM model override
  retrieval.results     chunks retrieved per question`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write it to the config file.

API keys may be given as the second argument or, preferably, entered
at a hidden prompt by omitting the value.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	cmd.Printf("Config file: %s\n\n", path)
	cmd.Printf("youtube.api_key      %s\n", maskAPIKey(cfg.YouTube.APIKey))
	cmd.Printf("youtube.max_videos   %d\n", cfg.YouTube.MaxVideos)
	cmd.Printf("embedding.provider   %s\n", cfg.Embedding.Provider)
	cmd.Printf("embedding.api_key    %s\n", maskAPIKey(cfg.Embedding.APIKey))
	cmd.Printf("embedding.model      %s\n", orDefault(cfg.Embedding.Model))
	cmd.Printf("llm.provider         %s\n", cfg.LLM.Provider)
	cmd.Printf("llm.api_key          %s\n", maskAPIKey(cfg.LLM.APIKey))
	cmd.Printf("llm.model            %s\n", orDefault(cfg.LLM.Model))
	cmd.Printf("retrieval.results    %d\n", cfg.Retrieval.Results)
	cmd.Printf("chunking.size        %d\n", cfg.Chunking.Size)
	cmd.Printf("chunking.overlap     %d\n", cfg.Chunking.Overlap)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	key := args[0]
	value := ""
	if len(args) == 2 {
		value = args[1]
	} else if isSecretKey(key) {
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret()
		cmd.Println()
	} else {
		return fmt.Errorf("no value given for %s", key)
	}

	if err := applyConfigValue(&cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "youtube.api_key":
		cfg.YouTube.APIKey = value
	case "youtube.max_videos":
		return setInt(&cfg.YouTube.MaxVideos, key, value)
	case "embedding.provider":
		cfg.Embedding.Provider = value
	case "embedding.api_key":
		cfg.Embedding.APIKey = value
	case "embedding.model":
		cfg.Embedding.Model = value
	case "embedding.base_url":
		cfg.Embedding.BaseURL = value
	case "llm.provider":
		cfg.LLM.Provider = value
	case "llm.api_key":
		cfg.LLM.APIKey = value
	case "llm.model":
		cfg.LLM.Model = value
	case "llm.base_url":
		cfg.LLM.BaseURL = value
	case "retrieval.results":
		return setInt(&cfg.Retrieval.Results, key, value)
	case "chunking.size":
		return setInt(&cfg.Chunking.Size, key, value)
	case "chunking.overlap":
		return setInt(&cfg.Chunking.Overlap, key, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s expects a number, got %q", key, value)
	}
	*dst = n
	return nil
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".api_key")
}

func readSecret() string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value string) string {
	if value == "" {
		return "(default)"
	}
	return value
}
