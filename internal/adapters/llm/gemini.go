package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// GeminiClient implements domain.ChatModel on top of the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini-backed provider using an API key.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrConfiguration)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", domain.ErrConfiguration, err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// GenerateReply implements domain.ChatModel using Gemini.
func (g *GeminiClient) GenerateReply(
	ctx context.Context,
	userMessage string,
	convCtx domain.ConversationContext,
) (string, error) {
	var contents []*genai.Content
	for _, m := range convCtx.History {
		role := genai.RoleUser
		if m.Role == domain.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))

	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(), genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(8192),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: gemini generate content: %v", domain.ErrUpstream, err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text", domain.ErrUpstream)
	}

	return text, nil
}
