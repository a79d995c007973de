package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"vocab-graph/config"
	apperrors "vocab-graph/errors"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// chatCompleter is the slice of the go-openai client we use.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	cfg    *config.Config
	api    chatCompleter
	model  string
	logger *zap.Logger
	sleep  func(time.Duration)
}

// New builds a client for Azure OpenAI when an endpoint and deployment are
// configured, otherwise for the OpenAI API (or a compatible OPENAI_BASE_URL).
func New(cfg *config.Config, logger *zap.Logger) *Client {
	httpClient := &http.Client{Timeout: cfg.LLMRequestTimeout}

	var (
		clientConfig openai.ClientConfig
		model        string
	)
	if cfg.UseAzure() {
		clientConfig = openai.DefaultAzureConfig(cfg.AzureOpenAIAPIKey, cfg.AzureOpenAIEndpoint)
		if cfg.AzureOpenAIAPIVersion != "" {
			clientConfig.APIVersion = cfg.AzureOpenAIAPIVersion
		}
		deployment := cfg.AzureOpenAIDeployment
		clientConfig.AzureModelMapperFunc = func(string) string { return deployment }
		model = deployment
		logger.Info("Using Azure OpenAI deployment",
			zap.String("endpoint", cfg.AzureOpenAIEndpoint),
			zap.String("deployment", deployment))
	} else {
		clientConfig = openai.DefaultConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIBaseURL != "" {
			clientConfig.BaseURL = strings.TrimRight(cfg.OpenAIBaseURL, "/")
		}
		model = cfg.OpenAIModel
		logger.Info("Using OpenAI chat model", zap.String("model", model))
	}
	clientConfig.HTTPClient = httpClient

	return &Client{
		cfg:    cfg,
		api:    openai.NewClientWithConfig(clientConfig),
		model:  model,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	if c.cfg.UseAzure() {
		return c.cfg.AzureOpenAIAPIKey != ""
	}
	return c.cfg.OpenAIAPIKey != ""
}

// ChatJSON sends a system and user message and asks for a JSON object back.
// Rate limits and server errors are retried with backoff; context
// cancellation is not.
func (c *Client) ChatJSON(ctx context.Context, system, user string) (string, error) {
	if !c.Enabled() {
		return "", apperrors.WrapError(apperrors.ErrLLMCommunication, "no API key configured")
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", apperrors.WrapError(apperrors.ErrLLMCommunication, "no response choices from llm server")
			}
			return resp.Choices[0].Message.Content, nil
		}

		lastErr = err
		// Do not retry on context cancellation/deadline
		if ctx.Err() != nil {
			break
		}
		if !retryable(err) {
			break
		}
		if attempt < c.cfg.MaxRetries-1 {
			c.logger.Warn("LLM request failed, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			c.backoffSleep(attempt)
		}
	}
	return "", fmt.Errorf("%w: %v", apperrors.ErrLLMCommunication, lastErr)
}

// retryable is true for rate limits, server errors and transport failures.
func retryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (c *Client) backoffSleep(attempt int) {
	// Exponential backoff with configurable jitter and cap
	base := c.cfg.RetryDelaySeconds
	if base <= 0 {
		base = time.Second // config normalization should prevent this
	}
	d := base * time.Duration(1<<attempt)
	maxWait := c.cfg.LLMBackoffMaxSeconds
	if maxWait > 0 && d > maxWait {
		d = maxWait
	}
	jitterRatio := c.cfg.LLMBackoffJitterRatio
	if jitterRatio < 0 || jitterRatio > 1 {
		jitterRatio = 0.1
	}
	jitter := time.Duration(float64(d) * jitterRatio)
	c.sleep(d - jitter + time.Duration(time.Now().UnixNano()%int64(2*jitter+1)))
}
