package domain

// Message is one entry in a session timeline (user or assistant).
type Message struct {
	ID        MessageID
	SessionID SessionID
	Role      Role
	Text      string
	CreatedAt Timestamp
}

// Session is one conversation between a user and the assistant.
// History is append-only during the session; the in-memory backend
// discards it when the process exits.
type Session struct {
	ID        SessionID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}
