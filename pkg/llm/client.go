package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"

	"github.com/mhelmih/docureco/pkg/config"
)

// errAPIKeyRequired is returned when an API key is needed but not provided.
var errAPIKeyRequired = errors.New("API key required")

// Client is the completion interface the workflows depend on.
type Client interface {
	// Complete sends a single-turn prompt and returns the model's text reply.
	Complete(ctx context.Context, prompt string) (string, error)
}

// AnthropicClient implements Client against the Anthropic Messages API.
type AnthropicClient struct {
	client      anthropic.Client
	model       anthropic.Model
	maxTokens   int64
	temperature float64
	maxRetries  int
	timeout     time.Duration
}

// Ensure AnthropicClient implements Client
var _ Client = (*AnthropicClient)(nil)

// NewAnthropicClient creates a client from configuration. The API key comes
// from the ANTHROPIC_API_KEY environment variable.
func NewAnthropicClient(cfg *config.Config) (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("%w: set ANTHROPIC_API_KEY environment variable", errAPIKeyRequired)
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:       anthropic.Model(cfg.LLMModel),
		maxTokens:   int64(cfg.LLMMaxTokens),
		temperature: cfg.LLMTemperature,
		maxRetries:  cfg.LLMMaxRetries,
		timeout:     cfg.RequestTimeout(),
	}, nil
}

// Complete sends a single-turn prompt and returns the model's text reply.
// Transient failures (rate limits, 5xx, network timeouts) are retried with
// exponential backoff up to the configured retry count.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	var reply string
	operation := func() error {
		message, err := c.client.Messages.New(ctx, params)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		if len(message.Content) == 0 {
			return backoff.Permanent(fmt.Errorf("unexpected response format: no content blocks"))
		}
		content := message.Content[0]
		if content.Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type))
		}
		reply = content.Text
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)),
		ctx,
	)
	if err := backoff.Retry(operation, bo); err != nil {
		return "", fmt.Errorf("llm call failed: %w", err)
	}
	return reply, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
