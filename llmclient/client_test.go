package llmclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"vocab-graph/config"
	apperrors "vocab-graph/errors"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type scriptedCompleter struct {
	errs     []error
	content  string
	calls    int
	requests []openai.ChatCompletionRequest
}

func (s *scriptedCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	s.calls++
	if s.calls <= len(s.errs) {
		return openai.ChatCompletionResponse{}, s.errs[s.calls-1]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: s.content}}},
	}, nil
}

func testClient(api chatCompleter) (*Client, *[]time.Duration) {
	var slept []time.Duration
	cfg := &config.Config{
		OpenAIAPIKey:          "sk-test",
		OpenAIModel:           "gpt-4o-mini",
		MaxRetries:            3,
		RetryDelaySeconds:     time.Second,
		LLMBackoffMaxSeconds:  10 * time.Second,
		LLMBackoffJitterRatio: 0,
	}
	return &Client{
		cfg:    cfg,
		api:    api,
		model:  cfg.OpenAIModel,
		logger: zap.NewNop(),
		sleep:  func(d time.Duration) { slept = append(slept, d) },
	}, &slept
}

func TestChatJSON_Success(t *testing.T) {
	api := &scriptedCompleter{content: `{"explanation":"x"}`}
	c, _ := testClient(api)

	out, err := c.ChatJSON(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"explanation":"x"}`, out)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
	assert.Equal(t, openai.ChatMessageRoleSystem, req.Messages[0].Role)
	assert.Equal(t, "user", req.Messages[1].Content)
}

func TestChatJSON_RetriesRateLimitWithBackoff(t *testing.T) {
	api := &scriptedCompleter{
		errs: []error{
			&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests},
			&openai.APIError{HTTPStatusCode: http.StatusBadGateway},
		},
		content: "{}",
	}
	c, slept := testClient(api)

	out, err := c.ChatJSON(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "{}", out)
	assert.Equal(t, 3, api.calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestChatJSON_NoRetryOnClientError(t *testing.T) {
	api := &scriptedCompleter{errs: []error{&openai.APIError{HTTPStatusCode: http.StatusBadRequest}}}
	c, slept := testClient(api)

	_, err := c.ChatJSON(context.Background(), "s", "u")
	assert.ErrorIs(t, err, apperrors.ErrLLMCommunication)
	assert.Equal(t, 1, api.calls)
	assert.Empty(t, *slept)
}

func TestChatJSON_NoRetryOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	api := &scriptedCompleter{errs: []error{context.Canceled, context.Canceled, context.Canceled}}
	c, _ := testClient(api)

	_, err := c.ChatJSON(ctx, "s", "u")
	assert.ErrorIs(t, err, apperrors.ErrLLMCommunication)
	assert.Equal(t, 1, api.calls)
}

func TestChatJSON_GivesUpAfterMaxRetries(t *testing.T) {
	boom := errors.New("connection reset")
	api := &scriptedCompleter{errs: []error{boom, boom, boom, boom}}
	c, slept := testClient(api)

	_, err := c.ChatJSON(context.Background(), "s", "u")
	assert.ErrorIs(t, err, apperrors.ErrLLMCommunication)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 3, api.calls)
	assert.Len(t, *slept, 2)
}

func TestChatJSON_NotConfigured(t *testing.T) {
	c, _ := testClient(&scriptedCompleter{})
	c.cfg.OpenAIAPIKey = ""

	assert.False(t, c.Enabled())
	_, err := c.ChatJSON(context.Background(), "s", "u")
	assert.ErrorIs(t, err, apperrors.ErrLLMCommunication)
}

func TestBackoffSleep_Capped(t *testing.T) {
	c, slept := testClient(&scriptedCompleter{})
	c.backoffSleep(10)
	assert.Equal(t, []time.Duration{10 * time.Second}, *slept)
}

func TestNew_Azure(t *testing.T) {
	cfg := &config.Config{
		AzureOpenAIEndpoint:   "https://example.openai.azure.com",
		AzureOpenAIAPIKey:     "key",
		AzureOpenAIDeployment: "tutor",
		MaxRetries:            1,
	}
	c := New(cfg, zap.NewNop())
	assert.True(t, c.Enabled())
	assert.Equal(t, "tutor", c.model)
}
