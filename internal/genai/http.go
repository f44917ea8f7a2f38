package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// HTTPService talks to a completion endpoint over HTTP.
// The wire format is the common completions shape:
//
//	request:  {"model": "...", "prompt": "...", "n": 3}
//	response: {"choices": [{"text": "..."}, ...]}
type HTTPService struct {
	Endpoint   string
	Model      string
	APIKey     string
	Candidates int
	Timeout    time.Duration
	Client     *http.Client
}

type completionRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

// Generate issues one completion call and returns every candidate text.
func (s *HTTPService) Generate(ctx context.Context, prompt string) ([]string, error) {
	n := s.Candidates
	if n <= 0 {
		n = 1
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(completionRequest{Model: s.Model, Prompt: prompt, N: n})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation call: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("generation endpoint returned %s: %s", resp.Status, bytes.TrimSpace(payload))
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	candidates := make([]string, 0, len(decoded.Choices))
	for _, choice := range decoded.Choices {
		candidates = append(candidates, choice.Text)
	}
	return candidates, nil
}
