package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jaehyun-p/solar-chat/internal/domain"
	"github.com/jaehyun-p/solar-chat/internal/observability"
)

// historyLimit caps how many prior messages are sent to the model.
const historyLimit = 20

// Service orchestrates one chat turn: append the user message, ask
// the model for a completion over the session history, append the
// reply. One synchronous call chain per turn, no retries.
type Service struct {
	model      domain.ChatModel
	sessions   domain.SessionStore
	messages   domain.MessageStore
	classifier domain.SentimentClassifier // optional
	now        func() time.Time
}

func NewService(
	model domain.ChatModel,
	sessions domain.SessionStore,
	messages domain.MessageStore,
	classifier domain.SentimentClassifier,
) *Service {
	return &Service{
		model:      model,
		sessions:   sessions,
		messages:   messages,
		classifier: classifier,
		now:        time.Now,
	}
}

type StartSessionInput struct {
	Title string
}

type StartSessionOutput struct {
	Session *domain.Session
}

func (s *Service) StartSession(ctx context.Context, in StartSessionInput) (*StartSessionOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx)
	log.Info("starting new session", "title", in.Title)

	session := &domain.Session{
		ID:        domain.SessionID(uuid.NewString()),
		Title:     in.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.CreateSession(session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session started", "session_id", session.ID)

	return &StartSessionOutput{Session: session}, nil
}

type SendMessageInput struct {
	SessionID domain.SessionID
	Text      string
}

type SendMessageOutput struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message

	// Sentiment of the user message, when a classifier is configured
	// and the classification succeeded. Nil otherwise.
	Sentiment *domain.SentimentResult
}

// SendMessage runs one turn. On success the session history has grown
// by exactly two entries: the user message and the assistant reply.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	session, err := s.sessions.GetSession(in.SessionID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", session.ID)
	log.Info("sending message", "text_len", len(in.Text))

	// History is loaded before appending so the model sees prior turns
	// plus the new message exactly once.
	history, err := s.messages.GetMessagesBySession(session.ID, historyLimit)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}

	now := s.now()
	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleUser,
		Text:      in.Text,
		CreatedAt: now,
	}

	if err := s.messages.AppendMessage(userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	convCtx := domain.ConversationContext{
		SessionID: session.ID,
		History:   history,
	}

	replyText, err := s.model.GenerateReply(ctx, in.Text, convCtx)
	if err != nil {
		log.Error("model call failed", "error", err)
		return nil, err
	}

	assistantMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		SessionID: session.ID,
		Role:      domain.RoleAssistant,
		Text:      replyText,
		CreatedAt: s.now(),
	}

	if err := s.messages.AppendMessage(assistantMsg); err != nil {
		log.Error("failed to append assistant message", "error", err)
		return nil, err
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	out := &SendMessageOutput{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
	}

	// Best-effort annotation. A failed classification never fails the
	// turn; the message simply renders without a sentiment chip.
	if s.classifier != nil && strings.TrimSpace(in.Text) != "" {
		res, cerr := s.classifier.Classify(ctx, in.Text)
		if cerr != nil {
			log.Warn("sentiment classification failed", "error", cerr)
		} else {
			out.Sentiment = res
		}
	}

	log.Info("send message completed")
	return out, nil
}

// ResetSession clears the message log of a session, keeping the
// session itself.
func (s *Service) ResetSession(ctx context.Context, sessionID domain.SessionID) error {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID)

	if err := s.messages.ResetMessages(sessionID); err != nil {
		log.Error("failed to reset messages", "error", err)
		return err
	}

	session.UpdatedAt = s.now()
	if err := s.sessions.UpdateSession(session); err != nil {
		log.Error("failed to update session", "error", err)
		return err
	}

	log.Info("session reset")
	return nil
}

func (s *Service) GetSessionTimeline(
	ctx context.Context,
	sessionID domain.SessionID,
	limit int,
) (*domain.Session, []*domain.Message, error) {

	log := observability.LoggerFromContext(ctx).With("session_id", sessionID, "limit", limit)

	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return nil, nil, err
	}

	msgs, err := s.messages.GetMessagesBySession(sessionID, limit)
	if err != nil {
		log.Error("failed to get messages", "error", err)
		return nil, nil, err
	}

	log.Info("fetched session timeline", "message_count", len(msgs))

	return session, msgs, nil
}
