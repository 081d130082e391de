package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factlens/internal/model"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "factlens",
	Short: "FactLens - verify claims in posts against a closed knowledge graph",
	Long: `FactLens extracts the main factual claim from a social-media post, finds
the facts in its knowledge graph that relate to it, and returns a verdict
(True, False, Partly True or Unverifiable) with a confidence score and
citations to the facts it relied on.

It answers only from the dataset it is given. When the evidence is missing
or the reasoning backend fails, the answer is Unverifiable.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// ExecuteContext runs the root command. Canceling ctx stops the server and
// any verification in flight.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "factlens %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.factlens/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.String("dataset", "", "knowledge graph file (.json, .yaml or .db)")
	flags.String("llm-provider", "", "reasoning backend (openai, anthropic, ollama); empty disables it")
	flags.String("llm-model", "", "reasoning backend model")
	flags.String("log-format", "", "log format (text or json)")

	// Bind flags to viper
	_ = viper.BindPFlag("dataset.path", flags.Lookup("dataset"))
	_ = viper.BindPFlag("llm.provider", flags.Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", flags.Lookup("llm-model"))
	_ = viper.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".factlens"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper(), model.DefaultConfig())
	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so that environment variables
// reach keys that no config file mentions
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("dataset.path", cfg.Dataset.Path)

	v.SetDefault("llm.provider", cfg.LLM.Provider)
	v.SetDefault("llm.model", cfg.LLM.Model)
	v.SetDefault("llm.api_key", cfg.LLM.APIKey)
	v.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	v.SetDefault("llm.timeout", cfg.LLM.Timeout)
	v.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)
	v.SetDefault("llm.temperature", cfg.LLM.Temperature)
	v.SetDefault("llm.http_proxy", cfg.LLM.HTTPProxy)
	v.SetDefault("llm.https_proxy", cfg.LLM.HTTPSProxy)

	v.SetDefault("extraction.timeout", cfg.Extraction.Timeout)
	v.SetDefault("extraction.max_claim_chars", cfg.Extraction.MaxClaimChars)
	v.SetDefault("synthesis.timeout", cfg.Synthesis.Timeout)
	v.SetDefault("synthesis.max_reasoning_chars", cfg.Synthesis.MaxReasoningChars)

	v.SetDefault("retrieval.max_items", cfg.Retrieval.MaxItems)
	v.SetDefault("retrieval.min_overlap", cfg.Retrieval.MinOverlap)
	v.SetDefault("retrieval.include_locations", cfg.Retrieval.IncludeLocations)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_dir", cfg.Cache.DiskDir)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("rate_limiting.requests_per_second", cfg.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", cfg.RateLimiting.BurstSize)
	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.request_timeout", cfg.Server.RequestTimeout)
	v.SetDefault("server.max_body_bytes", cfg.Server.MaxBodyBytes)
	v.SetDefault("server.allowed_origins", cfg.Server.AllowedOrigins)

	v.SetDefault("authority.primary_domains", cfg.Authority.PrimaryDomains)
	v.SetDefault("authority.secondary_domains", cfg.Authority.SecondaryDomains)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
}

// bindEnv maps FACTLENS_LLM_PROVIDER to llm.provider, and so on
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("FACTLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig resolves the effective configuration: defaults, config file,
// FACTLENS_* environment, then flags. Provider credentials fall back to
// the conventional OPENAI_API_KEY, ANTHROPIC_API_KEY and OLLAMA_BASE_URL.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	}

	return cfg, nil
}

// newLogger builds the slog logger described by cfg. verbose forces debug.
func newLogger(cfg model.LoggingConfig, w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
