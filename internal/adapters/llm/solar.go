package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// SolarClient talks to the Upstage Solar chat-completions endpoint.
// The wire format is OpenAI-compatible.
type SolarClient struct {
	apiKey  string
	baseURL string
	model   string
	hc      *http.Client
}

// SolarOption configures a SolarClient.
type SolarOption func(*SolarClient)

// WithSolarBaseURL overrides the API base URL.
func WithSolarBaseURL(base string) SolarOption {
	return func(c *SolarClient) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithSolarModel sets the model name. Default is solar-pro.
func WithSolarModel(model string) SolarOption {
	return func(c *SolarClient) { c.model = model }
}

// WithSolarHTTPClient replaces the underlying HTTP client.
func WithSolarHTTPClient(hc *http.Client) SolarOption {
	return func(c *SolarClient) { c.hc = hc }
}

// NewSolarClient validates the API key before anything else; a
// missing key is a configuration error and no network call is ever
// attempted with one.
func NewSolarClient(apiKey string, opts ...SolarOption) (*SolarClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: SOLAR_API_KEY is not set", domain.ErrConfiguration)
	}

	c := &SolarClient{
		apiKey:  apiKey,
		baseURL: "https://api.upstage.ai/v1/solar",
		model:   "solar-pro",
		hc:      &http.Client{Timeout: 60 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Wire types for the chat-completions call.

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []wireMessage `json:"messages"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateReply implements domain.ChatModel against the Solar API.
func (c *SolarClient) GenerateReply(
	ctx context.Context,
	userMessage string,
	convCtx domain.ConversationContext,
) (string, error) {
	msgs := make([]wireMessage, 0, len(convCtx.History)+2)
	msgs = append(msgs, wireMessage{Role: string(domain.RoleSystem), Content: SystemPrompt()})
	for _, m := range convCtx.History {
		msgs = append(msgs, wireMessage{Role: string(m.Role), Content: m.Text})
	}
	msgs = append(msgs, wireMessage{Role: string(domain.RoleUser), Content: userMessage})

	body, err := json.Marshal(chatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: solar: %v", domain.ErrUpstream, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%w: solar: reading response: %v", domain.ErrUpstream, err)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		if res.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%w: solar: status %d", domain.ErrUpstream, res.StatusCode)
		}
		return "", fmt.Errorf("%w: solar: decoding response: %v", domain.ErrUpstream, err)
	}

	if res.StatusCode != http.StatusOK {
		msg := ""
		if parsed.Error != nil {
			msg = ": " + parsed.Error.Message
		}
		return "", fmt.Errorf("%w: solar: status %d%s", domain.ErrUpstream, res.StatusCode, msg)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: solar: empty completion", domain.ErrUpstream)
	}

	return parsed.Choices[0].Message.Content, nil
}
