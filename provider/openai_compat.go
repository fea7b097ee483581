package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	oaioption "github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/linanwx/nagochat/logger"
)

const (
	deepSeekAPIBase = "https://api.deepseek.com"
	openAIAPIBase   = "https://api.openai.com/v1"

	sdkMaxRetries = 2
)

func init() {
	RegisterProvider("deepseek", ProviderRegistration{
		DefaultModel: "deepseek-chat",
		EnvKey:       "DEEPSEEK_API_KEY",
		EnvBase:      "DEEPSEEK_API_BASE",
		NeedsKey:     true,
		Constructor: func(s Settings) Provider {
			return newChatCompletionsProvider("deepseek", deepSeekAPIBase, s)
		},
	})

	RegisterProvider("openai", ProviderRegistration{
		DefaultModel: "gpt-4o-mini",
		EnvKey:       "OPENAI_API_KEY",
		EnvBase:      "OPENAI_API_BASE",
		NeedsKey:     true,
		Constructor: func(s Settings) Provider {
			return newChatCompletionsProvider("openai", openAIAPIBase, s)
		},
	})
}

// ChatCompletionsProvider talks to any OpenAI-compatible chat completions API.
type ChatCompletionsProvider struct {
	providerName string
	apiBase      string
	modelName    string
	maxTokens    int
	temperature  float64
	client       openai.Client
}

func newChatCompletionsProvider(providerName, defaultBase string, s Settings) *ChatCompletionsProvider {
	baseURL := normalizeSDKBaseURL(s.APIBase, defaultBase, "/chat/completions")
	client := openai.NewClient(
		oaioption.WithAPIKey(s.APIKey),
		oaioption.WithBaseURL(baseURL),
		oaioption.WithMaxRetries(sdkMaxRetries),
	)
	return &ChatCompletionsProvider{
		providerName: providerName,
		apiBase:      baseURL,
		modelName:    s.Model,
		maxTokens:    s.MaxTokens,
		temperature:  s.Temperature,
		client:       client,
	}
}

// normalizeSDKBaseURL strips a pasted endpoint suffix and guarantees the
// trailing slash the SDK resolves paths against.
func normalizeSDKBaseURL(apiBase, defaultBase, suffix string) string {
	base := strings.TrimSpace(apiBase)
	if base == "" {
		base = defaultBase
	}
	base = strings.TrimRight(base, "/")
	base = strings.TrimSuffix(base, suffix)
	return strings.TrimRight(base, "/") + "/"
}

// Chat sends a single-turn chat completion request.
func (p *ChatCompletionsProvider) Chat(ctx context.Context, message string) (string, error) {
	start := time.Now()
	logger.Info(
		"chat completion request",
		"provider", p.providerName,
		"modelName", p.modelName,
		"inputChars", len(message),
	)

	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(message),
		},
	}
	if p.maxTokens > 0 {
		req.MaxTokens = openai.Int(int64(p.maxTokens))
	}
	if p.temperature != 0 {
		req.Temperature = openai.Float(p.temperature)
	}

	resp, err := p.client.Chat.Completions.New(ctx, req)
	if err != nil {
		logger.Error("chat completion request error", "provider", p.providerName, "err", err)
		return "", fmt.Errorf("request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		logger.Error("chat completion returned no choices", "provider", p.providerName)
		return "", fmt.Errorf("no choices in response")
	}

	choice := resp.Choices[0]
	logger.Info(
		"chat completion response",
		"provider", p.providerName,
		"modelName", p.modelName,
		"finishReason", choice.FinishReason,
		"promptTokens", resp.Usage.PromptTokens,
		"completionTokens", resp.Usage.CompletionTokens,
		"outputChars", len(choice.Message.Content),
		"latencyMs", time.Since(start).Milliseconds(),
	)
	return choice.Message.Content, nil
}
