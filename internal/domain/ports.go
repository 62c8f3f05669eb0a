package domain

import "context"

// ChatModel defines how the application talks to a hosted LLM
// chat-completion endpoint.
type ChatModel interface {
	GenerateReply(ctx context.Context, userMessage string, convCtx ConversationContext) (string, error)
}

// ConversationContext gives the model the prior turns of the session.
// History excludes the message currently being answered.
type ConversationContext struct {
	SessionID SessionID
	History   []*Message
}

// SentimentClassifier maps text to a coarse sentiment label with a
// confidence score.
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (*SentimentResult, error)
}

// SentimentPipeline is the raw model backend behind a classifier:
// a one-time load plus per-input inference.
type SentimentPipeline interface {
	Load(ctx context.Context) error
	Classify(ctx context.Context, text string) (rawLabel string, score float64, err error)
}

// SessionStore defines session persistence.
type SessionStore interface {
	CreateSession(session *Session) error
	UpdateSession(session *Session) error
	GetSession(id SessionID) (*Session, error)
	ListSessions(limit int) ([]*Session, error)
}

// MessageStore defines message persistence.
type MessageStore interface {
	AppendMessage(msg *Message) error
	GetMessagesBySession(sessionID SessionID, limit int) ([]*Message, error)
	ResetMessages(sessionID SessionID) error
}
