package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jaehyun-p/solar-chat/internal/domain"
)

// Store persists sessions and their message timelines in Firestore.
// One Store implements both SessionStore and MessageStore.
type Store struct {
	client *firestore.Client
}

func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: projectID is required for the firestore store", domain.ErrConfiguration)
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) sessionsCol() *firestore.CollectionRef {
	return s.client.Collection("sessions")
}

func (s *Store) sessionRef(id domain.SessionID) *firestore.DocumentRef {
	return s.sessionsCol().Doc(string(id))
}

func (s *Store) messagesCol(sessionID domain.SessionID) *firestore.CollectionRef {
	return s.sessionRef(sessionID).Collection("messages")
}

func (s *Store) messageRef(sessionID domain.SessionID, msgID domain.MessageID) *firestore.DocumentRef {
	return s.messagesCol(sessionID).Doc(string(msgID))
}

type sessionDoc struct {
	Title     string    `firestore:"title"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type messageDoc struct {
	SessionID string    `firestore:"session_id"`
	Role      string    `firestore:"role"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"created_at"`
}

// ─────────────────────────────────────────
// SessionStore implementation
// ─────────────────────────────────────────

func (s *Store) CreateSession(session *domain.Session) error {
	ctx := context.Background()

	doc := sessionDoc{
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}

	if _, err := s.sessionRef(session.ID).Create(ctx, doc); err != nil {
		return fmt.Errorf("firestore CreateSession: %w", err)
	}
	return nil
}

func (s *Store) UpdateSession(session *domain.Session) error {
	ctx := context.Background()

	doc := map[string]interface{}{
		"title":      session.Title,
		"created_at": session.CreatedAt,
		"updated_at": session.UpdatedAt,
	}

	if _, err := s.sessionRef(session.ID).Set(ctx, doc, firestore.MergeAll); err != nil {
		return fmt.Errorf("firestore UpdateSession: %w", err)
	}
	return nil
}

func (s *Store) GetSession(id domain.SessionID) (*domain.Session, error) {
	ctx := context.Background()

	snap, err := s.sessionRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	return &domain.Session{
		ID:        id,
		Title:     doc.Title,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func (s *Store) ListSessions(limit int) ([]*domain.Session, error) {
	ctx := context.Background()

	q := s.sessionsCol().OrderBy("created_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.Session
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListSessions: %w", err)
		}

		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode sessionDoc: %w", err)
		}

		out = append(out, &domain.Session{
			ID:        domain.SessionID(snap.Ref.ID),
			Title:     doc.Title,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	return out, nil
}

// ─────────────────────────────────────────
// MessageStore implementation
// ─────────────────────────────────────────

func (s *Store) AppendMessage(msg *domain.Message) error {
	ctx := context.Background()

	doc := messageDoc{
		SessionID: string(msg.SessionID),
		Role:      string(msg.Role),
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}

	if _, err := s.messageRef(msg.SessionID, msg.ID).Set(ctx, doc); err != nil {
		return fmt.Errorf("firestore AppendMessage: %w", err)
	}
	return nil
}

func (s *Store) GetMessagesBySession(sessionID domain.SessionID, limit int) ([]*domain.Message, error) {
	ctx := context.Background()

	q := s.messagesCol(sessionID).OrderBy("created_at", firestore.Asc)
	if limit > 0 {
		// LimitToLast queries must be fetched with GetAll.
		q = q.LimitToLast(limit)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore GetMessagesBySession: %w", err)
	}

	out := make([]*domain.Message, 0, len(snaps))
	for _, snap := range snaps {
		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode messageDoc: %w", err)
		}

		out = append(out, &domain.Message{
			ID:        domain.MessageID(snap.Ref.ID),
			SessionID: sessionID,
			Role:      domain.Role(doc.Role),
			Text:      doc.Text,
			CreatedAt: doc.CreatedAt,
		})
	}
	return out, nil
}

func (s *Store) ResetMessages(sessionID domain.SessionID) error {
	ctx := context.Background()

	iter := s.messagesCol(sessionID).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return fmt.Errorf("firestore ResetMessages: %w", err)
		}
		if _, err := bw.Delete(snap.Ref); err != nil {
			return fmt.Errorf("firestore ResetMessages delete: %w", err)
		}
	}
	bw.End()
	return nil
}
