package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linanwx/nagochat/logger"
)

const anthropicDefaultMaxTokens = 1024

func init() {
	RegisterProvider("anthropic", ProviderRegistration{
		DefaultModel: "claude-3-5-haiku-latest",
		EnvKey:       "ANTHROPIC_API_KEY",
		EnvBase:      "ANTHROPIC_API_BASE",
		NeedsKey:     true,
		Constructor: func(s Settings) Provider {
			return newAnthropicProvider(s)
		},
	})
}

// AnthropicProvider answers through the Anthropic Messages API.
type AnthropicProvider struct {
	modelName   string
	maxTokens   int
	temperature float64
	client      anthropic.Client
}

func newAnthropicProvider(s Settings) *AnthropicProvider {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithAPIKey(s.APIKey),
		anthropicoption.WithMaxRetries(sdkMaxRetries),
	}
	if base := strings.TrimSpace(s.APIBase); base != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(base, "/")+"/"))
	}
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}
	return &AnthropicProvider{
		modelName:   s.Model,
		maxTokens:   maxTokens,
		temperature: s.Temperature,
		client:      anthropic.NewClient(opts...),
	}
}

// Chat sends a single-turn message request.
func (p *AnthropicProvider) Chat(ctx context.Context, message string) (string, error) {
	start := time.Now()
	logger.Info("anthropic request", "provider", "anthropic", "modelName", p.modelName, "inputChars", len(message))

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.modelName),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(message)),
		},
	}
	if p.temperature != 0 {
		params.Temperature = anthropic.Float(p.temperature)
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("anthropic request error", "provider", "anthropic", "err", err)
		return "", fmt.Errorf("request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	logger.Info(
		"anthropic response",
		"provider", "anthropic",
		"modelName", p.modelName,
		"stopReason", resp.StopReason,
		"inputTokens", resp.Usage.InputTokens,
		"outputTokens", resp.Usage.OutputTokens,
		"latencyMs", time.Since(start).Milliseconds(),
	)
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in response")
	}
	return sb.String(), nil
}
