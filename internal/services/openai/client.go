package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/movielib/internal/config"
)

// ErrMalformedResponse is returned when the model output cannot be parsed
// into exactly three IMDb IDs.
var ErrMalformedResponse = errors.New("malformed recommendation response")

const (
	systemPrompt = "You are a helpful assistant that provides movie recommendations."

	// Output budget; a forced-refresh call gets a little more room
	maxTokensCached = 80
	maxTokensFresh  = 100
)

// chatRequest is the chat-completions request payload
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat-completions response we consume
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Client wraps the OpenAI chat-completions API for movie recommendations
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new recommendation client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &Client{
		apiURL: cfg.OpenAIURL,
		apiKey: cfg.OpenAIAPIKey,
		model:  cfg.OpenAIModel,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.OpenAITimeout) * time.Second,
		},
		logger: logger,
	}, nil
}

// Recommend asks the model for exactly three IMDb IDs of same-genre movies to
// watch after the given title. Each call is independent; fresh only widens the
// output budget for a forced refresh.
func (c *Client) Recommend(ctx context.Context, movieTitle string, fresh bool) ([]string, error) {
	prompt := buildPrompt(movieTitle)

	maxTokens := maxTokensCached
	if fresh {
		maxTokens = maxTokensFresh
	}

	c.logger.WithFields(logrus.Fields{
		"title": movieTitle,
		"fresh": fresh,
	}).Debug("Requesting movie recommendations")

	content, err := c.complete(ctx, prompt, maxTokens)
	if err != nil {
		return nil, err
	}

	ids, err := parseIDs(content)
	if err != nil {
		c.logger.WithField("content", content).Warn("Unparseable recommendation response")
		return nil, err
	}

	return ids, nil
}

// buildPrompt assembles the instruction for the model
func buildPrompt(movieTitle string) string {
	return "Recommend 3 movies to watch after '" + movieTitle +
		"' to those who liked it. Same genre. Return the IMDbIDs only no other text, not even name." +
		" Separate imdbID by comma, one line response. Do not add '" + movieTitle + "' to recommendations"
}

// parseIDs splits the model output into exactly three trimmed IMDb IDs,
// restoring the tt prefix when the model drops it.
func parseIDs(content string) ([]string, error) {
	parts := strings.Split(strings.TrimSpace(content), ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 ids, got %d", ErrMalformedResponse, len(parts))
	}

	ids := make([]string, 0, 3)
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, fmt.Errorf("%w: empty id", ErrMalformedResponse)
		}
		if !strings.HasPrefix(id, "tt") {
			id = "tt" + id
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// complete performs one chat-completions call with bounded retry
func (c *Client) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("User-Agent", "movielib/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("chat API request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("chat API returned status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			errBody, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(errBody)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read chat response: %w", err)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse chat response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", ErrMalformedResponse)
	}

	return chatResp.Choices[0].Message.Content, nil
}
