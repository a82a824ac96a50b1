// Package llm implements the optional generative collaborator on top
// of any OpenAI-compatible chat completions endpoint.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"

	"fundfaq/internal/domain"
)

const systemPrompt = "You are a mutual fund FAQ assistant. Answer the user's question using only the provided snippets. " +
	"Every answer must:\n" +
	"1. Contain only verified facts from the snippets.\n" +
	"2. Include exactly one explicit citation link to the most relevant source URL.\n" +
	"3. Avoid investment advice, recommendations, or opinions.\n" +
	"4. If the question cannot be answered from the snippets, say so and mention that only facts are provided."

// Config configures the chat completions client.
type Config struct {
	BaseURL     string
	APIKeyEnv   string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Client is a chat completions client implementing domain.Generator.
type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// NewClient creates a generative client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(keyEnv)
	if key == "" {
		return nil, errors.Errorf("missing API key in env %s", keyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	clientConfig := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     timeout,
	}, nil
}

// Generate answers the question from the retrieved passages. The call
// is bounded by the configured timeout; the composer falls back to
// extractive mode when it fails.
func (c *Client) Generate(ctx context.Context, question string, passages []domain.ScoredRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(question, passages)},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty chat completion response")
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("blank chat completion response")
	}
	return answer, nil
}

// BuildPrompt formats the retrieved passages as numbered snippets with
// their source URLs, followed by the user question. Passages without a
// source URL are skipped so the model can never cite a URL that does
// not exist in the corpus.
func BuildPrompt(question string, passages []domain.ScoredRecord) string {
	var blocks []string
	for i, p := range passages {
		if p.Record.SourceURL == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Snippet %d (source: %s):\n%s", i+1, p.Record.SourceURL, p.Record.Text))
	}
	context := "No snippets available."
	if len(blocks) > 0 {
		context = strings.Join(blocks, "\n\n")
	}
	return fmt.Sprintf("Snippets:\n%s\n\nUser question: %s\nAnswer:", context, question)
}
