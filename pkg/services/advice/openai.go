package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fadedpez/blackjack/internal/logging"
	"github.com/fadedpez/blackjack/internal/types"
	"github.com/fadedpez/blackjack/pkg/services/blackjack"
)

const (
	DefaultModel   = "gpt-4o-mini"
	DefaultBaseURL = "https://api.openai.com/v1"

	systemPrompt = "You are a blackjack coach. The dealer stands on all 17s. " +
		"Answer with Hit or Stand followed by one short sentence."
)

// OpenAIConfig holds the chat completions endpoint settings
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// OpenAIClient asks an OpenAI-compatible chat model for a play
type OpenAIClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewOpenAIClient creates a client. An empty API key is an error.
func NewOpenAIClient(config OpenAIConfig, logger *logging.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, types.NewGameError(types.ErrInvalidConfig, "OPENAI_API_KEY is required for model advice")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = logging.Discard()
	}

	return &OpenAIClient{
		apiKey:     strings.TrimSpace(config.APIKey),
		model:      config.Model,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Prompt describes the table for the model
func Prompt(player, dealer *blackjack.Hand) string {
	return fmt.Sprintf(
		"Given the current game state:\nPlayer hand: %s (value %d)\nDealer shows: %s\nShould I hit or stand?",
		player, player.Value(), dealer,
	)
}

// Suggest asks the model what to do with player against the dealer's up card
func (c *OpenAIClient) Suggest(ctx context.Context, player, dealer *blackjack.Hand) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(player, dealer)},
		},
		Temperature: 0.1,
		MaxTokens:   50,
	})
	if err != nil {
		return "", fmt.Errorf("error encoding advice request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("error building advice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", types.WrapError(types.ErrNetworkError, "advice request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", types.WrapError(types.ErrNetworkError, "error reading advice response", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("[ADVICE] %s returned %d: %s", c.baseURL, resp.StatusCode, truncate(string(body), 200))
		return "", types.NewGameError(types.ErrAdviceUnavailable, fmt.Sprintf("advice service returned HTTP %d", resp.StatusCode))
	}

	var cc chatResponse
	if err := json.Unmarshal(body, &cc); err != nil {
		return "", types.WrapError(types.ErrAdviceUnavailable, "could not parse advice response", err)
	}
	if len(cc.Choices) == 0 {
		return "", types.NewGameError(types.ErrAdviceUnavailable, "no choices returned")
	}

	suggestion := strings.TrimSpace(cc.Choices[0].Message.Content)
	if suggestion == "" {
		return "", types.NewGameError(types.ErrAdviceUnavailable, "empty suggestion")
	}
	return suggestion, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
