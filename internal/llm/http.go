package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/factlens/internal/util"
)

// maxResponseBytes bounds how much of a backend response is read
const maxResponseBytes = 4 << 20

func newHTTPClient(config Config, defaultTimeout time.Duration) *http.Client {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy),
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// postJSON sends body to url and decodes a 200 response into out. Non-200
// responses become FailureStatus errors carrying the message extracted by
// errMessage.
func postJSON(ctx context.Context, client *http.Client, provider, url string, headers map[string]string, body, out any, errMessage func([]byte) string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &BackendError{Provider: provider, Kind: FailureConfig, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &BackendError{Provider: provider, Kind: FailureConfig, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return classify(ctx, provider, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return classify(ctx, provider, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		msg := errMessage(respBody)
		if msg == "" {
			msg = string(respBody)
		}
		return &BackendError{Provider: provider, Kind: FailureStatus, StatusCode: resp.StatusCode, Err: fmt.Errorf("API error: %s", msg)}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &BackendError{Provider: provider, Kind: FailureMalformed, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	return nil
}
