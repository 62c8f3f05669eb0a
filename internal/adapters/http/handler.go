package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jaehyun-p/solar-chat/internal/app/chat"
	"github.com/jaehyun-p/solar-chat/internal/domain"
)

type Server struct {
	svc        *chat.Service
	classifier domain.SentimentClassifier // nil when sentiment is disabled
}

// NewServer builds the HTTP surface. classifier may be nil; the
// /classify endpoint then answers 503.
func NewServer(svc *chat.Service, classifier domain.SentimentClassifier) http.Handler {
	s := &Server{svc: svc, classifier: classifier}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions → create session (POST)
	mux.HandleFunc("/sessions", s.handleSessions)

	// /sessions/{id}          →  GET: session + timeline
	// /sessions/{id}/messages → POST: send one turn
	// /sessions/{id}/reset    → POST: clear history
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	// /classify → POST: standalone sentiment classification
	mux.HandleFunc("/classify", s.handleClassify)

	return chainMiddlewares(mux, withLogging, withRequestID, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type createSessionRequest struct {
	Title string `json:"title,omitempty"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type sentimentResponse struct {
	Label      string  `json:"label"`
	RawLabel   string  `json:"raw_label"`
	Score      float64 `json:"score"`
	Confidence string  `json:"confidence"`
	Display    string  `json:"display"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage      messageResponse    `json:"user_message"`
	AssistantMessage messageResponse    `json:"assistant_message"`
	Sentiment        *sentimentResponse `json:"sentiment,omitempty"`
}

type getSessionResponse struct {
	Session  sessionResponse   `json:"session"`
	Messages []messageResponse `json:"messages"`
}

type classifyRequest struct {
	Text string `json:"text"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// /sessions
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateSession(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /sessions/{id}, /sessions/{id}/messages or /sessions/{id}/reset
func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/sessions/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetSession(w, r, domain.SessionID(id))
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "messages":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			s.handleSendMessage(w, r, domain.SessionID(id))
			return
		case "reset":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			s.handleResetSession(w, r, domain.SessionID(id))
			return
		}
	}

	http.NotFound(w, r)
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	out, err := s.svc.StartSession(r.Context(), chat.StartSessionInput{Title: req.Title})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(out.Session))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, id domain.SessionID) {
	session, msgs, err := s.svc.GetSessionTimeline(r.Context(), id, 0)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getSessionResponse{
		Session:  toSessionResponse(session),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, sessionID domain.SessionID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), chat.SendMessageInput{
		SessionID: sessionID,
		Text:      req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := sendMessageResponse{
		UserMessage:      toMessageResponse(out.UserMessage),
		AssistantMessage: toMessageResponse(out.AssistantMessage),
	}
	if out.Sentiment != nil {
		sr := toSentimentResponse(out.Sentiment)
		resp.Sentiment = &sr
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request, sessionID domain.SessionID) {
	if err := s.svc.ResetSession(r.Context(), sessionID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.classifier == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "sentiment classification is disabled",
		})
		return
	}

	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	res, err := s.classifier.Classify(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSentimentResponse(res))
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func toSessionResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		ID:        string(s.ID),
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		SessionID: string(m.SessionID),
		Role:      string(m.Role),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

func toSentimentResponse(r *domain.SentimentResult) sentimentResponse {
	return sentimentResponse{
		Label:      string(r.Label),
		RawLabel:   r.RawLabel,
		Score:      r.Score,
		Confidence: string(r.Confidence),
		Display:    r.Display(),
	}
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain error kinds to status codes.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
	case errors.Is(err, domain.ErrInference):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrModelLoad):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrUpstream):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrConfiguration):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}
