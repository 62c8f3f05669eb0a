package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// AnthropicClient implements domain.ChatModel on top of the Anthropic
// Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient creates a Claude-backed provider.
func NewAnthropicClient(apiKey, model string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", domain.ErrConfiguration)
	}
	m := anthropic.ModelClaude3_7SonnetLatest
	if model != "" {
		m = anthropic.Model(model)
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}, nil
}

// GenerateReply implements domain.ChatModel using Claude.
func (a *AnthropicClient) GenerateReply(
	ctx context.Context,
	userMessage string,
	convCtx domain.ConversationContext,
) (string, error) {
	conv := make([]anthropic.MessageParam, 0, len(convCtx.History)+1)
	for _, m := range convCtx.History {
		if m.Role == domain.RoleAssistant {
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Text)))
		} else {
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)))
		}
	}
	conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(userMessage)))

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(4096),
		System:    []anthropic.TextBlockParam{{Text: SystemPrompt()}},
		Messages:  conv,
	})
	if err != nil {
		return "", fmt.Errorf("%w: anthropic messages: %v", domain.ErrUpstream, err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if v, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(v.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic returned no text", domain.ErrUpstream)
	}

	return sb.String(), nil
}
