package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/herdbook/internal/config"
)

const (
	apiVersion = "2023-06-01"
	maxTokens  = 64
)

// ErrEmptyResponse is returned when the model answers without text.
var ErrEmptyResponse = errors.New("empty response from ai")

// Client defines the interface for AI text processing.
type Client interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	model      string
	now        func() time.Time
}

// NewClient creates a configured Anthropic client.
func NewClient(cfg config.AIConfig, loc *time.Location) Client {
	if loc == nil {
		loc = time.UTC
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("x-api-key", cfg.AnthropicKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{
		httpClient: client,
		model:      cfg.Model,
		now:        func() time.Time { return time.Now().In(loc) },
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const systemPrompt = `You translate messages from a cattle farmer into exactly one command of this grammar:
report [YYYY-MM-DD]   daily herd report, date optional (today when omitted)
lot <id or name>      details of a lot
cattle <id or number> details of one animal
help                  list of commands
Today is %s. Resolve relative days such as "yesterday" to a date.
Answer with the command only, on one line, without quotes or explanations.
If the message asks for anything else, answer: help`

// TranslateToCommand asks the model to rewrite free text as one herd command.
func (c *anthropicClient) TranslateToCommand(ctx context.Context, input string) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    fmt.Sprintf(systemPrompt, c.now().Format("2006-01-02")),
		Messages:  []Message{{Role: "user", Content: input}},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", ErrEmptyResponse
	}

	command := cleanCommand(respBody.Content[0].Text)
	if command == "" {
		return "", ErrEmptyResponse
	}
	return command, nil
}

// cleanCommand keeps the first non-empty line, without code fences or quotes.
func cleanCommand(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"'")
		if line != "" {
			return line
		}
	}
	return ""
}
