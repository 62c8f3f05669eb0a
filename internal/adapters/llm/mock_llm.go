package llm

import (
	"context"
	"fmt"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// MockLLM is a deterministic offline provider for development and
// tests: same input, same reply.
type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) GenerateReply(_ context.Context, userMessage string, convCtx domain.ConversationContext) (string, error) {
	return fmt.Sprintf("I hear you. You said: %q (turn %d)", userMessage, len(convCtx.History)/2+1), nil
}
