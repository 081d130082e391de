package model

import "time"

// Config is the complete FactLens configuration.
// Fields carry mapstructure tags for viper and yaml tags for `config init`.
type Config struct {
	Dataset      DatasetConfig     `mapstructure:"dataset" yaml:"dataset"`
	LLM          LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Extraction   ExtractionConfig  `mapstructure:"extraction" yaml:"extraction"`
	Synthesis    SynthesisConfig   `mapstructure:"synthesis" yaml:"synthesis"`
	Retrieval    RetrievalConfig   `mapstructure:"retrieval" yaml:"retrieval"`
	Cache        CacheConfig       `mapstructure:"cache" yaml:"cache"`
	RateLimiting RateLimitConfig   `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Concurrency  ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
	Server       ServerConfig      `mapstructure:"server" yaml:"server"`
	Authority    AuthorityConfig   `mapstructure:"authority" yaml:"authority"`
	Logging      LoggingConfig     `mapstructure:"logging" yaml:"logging"`
}

// DatasetConfig locates the knowledge graph
type DatasetConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // .json, .yaml/.yml or .db/.sqlite
}

// LLMConfig configures the reasoning backend
type LLMConfig struct {
	Provider    string  `mapstructure:"provider" yaml:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model       string  `mapstructure:"model" yaml:"model"`
	APIKey      string  `mapstructure:"api_key" yaml:"-"` // Never written to disk
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Timeout     int     `mapstructure:"timeout" yaml:"timeout"` // seconds, transport-level ceiling
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	HTTPProxy   string  `mapstructure:"http_proxy" yaml:"http_proxy,omitempty"`
	HTTPSProxy  string  `mapstructure:"https_proxy" yaml:"https_proxy,omitempty"`
}

// ExtractionConfig configures the claim extractor
type ExtractionConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxClaimChars int           `mapstructure:"max_claim_chars" yaml:"max_claim_chars"`
}

// SynthesisConfig configures the verdict synthesizer
type SynthesisConfig struct {
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxReasoningChars int           `mapstructure:"max_reasoning_chars" yaml:"max_reasoning_chars"`
}

// RetrievalConfig configures evidence selection
type RetrievalConfig struct {
	MaxItems         int  `mapstructure:"max_items" yaml:"max_items"`
	MinOverlap       int  `mapstructure:"min_overlap" yaml:"min_overlap"`
	IncludeLocations bool `mapstructure:"include_locations" yaml:"include_locations"`
}

// CacheConfig configures the backend completion cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	DiskDir   string        `mapstructure:"disk_dir" yaml:"disk_dir,omitempty"` // Empty keeps the cache in memory only
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
}

// RateLimitConfig bounds calls to the reasoning backend
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"` // 0 disables limiting
	BurstSize         int     `mapstructure:"burst_size" yaml:"burst_size"`
}

// ConcurrencyConfig configures batch verification
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
	AllowedOrigins []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// AuthorityConfig drives source reliability classification for sources
// that do not declare a tier in the dataset
type AuthorityConfig struct {
	PrimaryDomains   []string          `mapstructure:"primary_domains" yaml:"primary_domains"`
	SecondaryDomains []string          `mapstructure:"secondary_domains" yaml:"secondary_domains"`
	DomainMap        map[string]string `mapstructure:"domain_map" yaml:"domain_map,omitempty"`
	PathPatterns     []PathPattern     `mapstructure:"path_patterns" yaml:"path_patterns,omitempty"`
}

// PathPattern maps a URL path regex to a tier name
type PathPattern struct {
	Pattern string `mapstructure:"pattern" yaml:"pattern"`
	Tier    string `mapstructure:"tier" yaml:"tier"`
}

// LoggingConfig configures the slog handler
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format"` // text or json
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: "kg.json",
		},
		LLM: LLMConfig{
			Provider:    "", // Disabled by default; heuristics and degradation paths still answer
			Timeout:     30,
			MaxTokens:   400,
			Temperature: 0,
		},
		Extraction: ExtractionConfig{
			Timeout:       3 * time.Second,
			MaxClaimChars: 500,
		},
		Synthesis: SynthesisConfig{
			Timeout:           5 * time.Second,
			MaxReasoningChars: 1200,
		},
		Retrieval: RetrievalConfig{
			MaxItems:         8,
			MinOverlap:       2,
			IncludeLocations: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 5,
			BurstSize:         10,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   15 * time.Second,
			RequestTimeout: 10 * time.Second,
			MaxBodyBytes:   64 << 10,
			AllowedOrigins: []string{"*"},
		},
		Authority: AuthorityConfig{
			PrimaryDomains:   []string{"gov.uk", "europa.eu", "who.int"},
			SecondaryDomains: []string{"reuters.com", "apnews.com", "bbc.co.uk"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
