package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements the Provider interface for Ollama local models
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	System  string        `json:"system,omitempty"`
	Format  string        `json:"format,omitempty"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaResponse struct {
	Model           string `json:"model"`
	CreatedAt       string `json:"created_at"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider. A model must be configured.
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	if config.Model == "" {
		return nil, &BackendError{Provider: "ollama", Kind: FailureConfig, Err: errors.New("ollama model must be specified (e.g., llama3.1:8b, mistral)")}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: newHTTPClient(config, 60*time.Second), // Local models can be slow to load
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks that the Ollama server answers
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		slog.Warn("ollama availability check failed", slog.String("error", err.Error()))
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		slog.Warn("ollama availability check failed", slog.String("base_url", p.baseURL), slog.String("error", err.Error()))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("ollama availability check failed", slog.String("base_url", p.baseURL), slog.Int("status", resp.StatusCode))
		return false
	}

	return true
}

// Complete calls the generate endpoint without streaming
func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	apiReq := ollamaRequest{
		Model:  p.config.model(req, ""),
		Prompt: req.Prompt,
		Stream: false,
		System: req.System,
		Options: ollamaOptions{
			Temperature: p.config.Temperature,
			NumPredict:  p.config.maxTokens(req),
		},
	}
	if req.JSON {
		apiReq.Format = "json"
	}

	var resp ollamaResponse
	err := postJSON(ctx, p.httpClient, p.Name(), fmt.Sprintf("%s/api/generate", p.baseURL), nil, apiReq, &resp,
		func(body []byte) string {
			var apiErr ollamaError
			if json.Unmarshal(body, &apiErr) != nil {
				return ""
			}
			return apiErr.Error
		})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Response)
	if text == "" {
		return nil, &BackendError{Provider: p.Name(), Kind: FailureEmpty, Err: errors.New("empty completion")}
	}

	return &CompletionResponse{
		Text:       text,
		Model:      resp.Model,
		TokensUsed: resp.PromptEvalCount + resp.EvalCount,
	}, nil
}
