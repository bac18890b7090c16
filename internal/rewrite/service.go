package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// ErrProviderFailure wraps any generation provider error. Callers surface it
// as a generic failure; there is no retry and no partial result.
var ErrProviderFailure = errors.New("rewrite: provider request failed")

// generationTemperature keeps the provider's randomness low but nonzero.
const generationTemperature = 0.4

// Result is a completed rewrite with provider-reported token counts.
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// TotalTokens returns the summed token count.
func (r Result) TotalTokens() int {
	return r.InputTokens + r.OutputTokens
}

// Config holds the generation provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Service rewrites text through an OpenAI-compatible chat completion API.
type Service struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewService constructs a Service from provider settings.
func NewService(cfg Config) *Service {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Service{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Rewrite sends the fixed prompt for text and score to the provider and
// returns the rewritten text with the primer re-attached, plus token usage.
func (s *Service) Rewrite(ctx context.Context, text string, score int) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: generationTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(text, score)},
			{Role: openai.ChatMessageRoleAssistant, Content: ReplyPrimer},
		},
	}

	resp, errCreate := s.client.CreateChatCompletion(ctx, req)
	if errCreate != nil {
		log.WithError(errCreate).Warn("rewrite: chat completion failed")
		return Result{}, fmt.Errorf("%w: %s", ErrProviderFailure, providerErrorDetail(errCreate))
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("%w: empty response", ErrProviderFailure)
	}

	return Result{
		Text:         attachPrimer(resp.Choices[0].Message.Content),
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// attachPrimer re-prepends the forced leading token to the continuation the
// provider returned. Providers that echo the primer are left untouched.
func attachPrimer(content string) string {
	if strings.HasPrefix(content, ReplyPrimer) {
		return content
	}
	trimmed := strings.TrimLeft(content, " ")
	if trimmed == "" {
		return ReplyPrimer
	}
	return ReplyPrimer + " " + trimmed
}

// providerErrorDetail extracts a short description from provider errors.
func providerErrorDetail(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("api error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Sprintf("request error %d", reqErr.HTTPStatusCode)
	}
	return err.Error()
}
