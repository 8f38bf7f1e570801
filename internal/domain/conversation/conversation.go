package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"triage-server/internal/utils/idgen"
)

// GreetingMessage seeds every new conversation as its first assistant turn.
const GreetingMessage = "Hi, I'm your AI Triage Chatbot. I'm here to discuss your symptoms and help guide you to the next appropriate care option. Could you please describe any symptoms you are experiencing?"

// ResultPending is the sentinel assessment result meaning "not yet decided".
const ResultPending = "pending"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Message is a single chat turn. Latency is the agent round-trip in seconds;
// it is nil for user messages and for the seeded greeting.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
	Latency   *float64    `json:"latency,omitempty"`
}

// Status is the per-conversation interaction state machine. It is runtime
// state only and never persisted.
type Status string

const (
	StatusIdle          Status = "idle"
	StatusAwaitingReply Status = "awaiting_reply"
)

// Conversation is a titled, timestamped sequence of chat turns plus the
// assessment state derived by the remote agent. SessionID is the transport
// correlation key sent to the agent; it is distinct from ID and immutable
// once set.
type Conversation struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Title     string          `json:"title"`
	Messages  []Message       `json:"messages"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	State     AssessmentState `json:"state"`
	Summary   string          `json:"summary"`

	Status Status `json:"-"`
}

// New creates a conversation seeded with the fixed greeting. The sequence
// number only feeds the placeholder title shown before the first user turn.
func New(sequence int) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        idgen.MustGenerateSecureID("conv", 16),
		SessionID: uuid.NewString(),
		Title:     fmt.Sprintf("Conversation %d", sequence),
		Messages: []Message{
			{Role: RoleAssistant, Content: GreetingMessage, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
		State:     AssessmentState{},
		Status:    StatusIdle,
	}
}

// UserMessageCount returns the number of user-authored turns.
func (c *Conversation) UserMessageCount() int {
	count := 0
	for _, m := range c.Messages {
		if m.Role == RoleUser {
			count++
		}
	}
	return count
}

// HasSummary reports whether a non-empty summary has been recorded.
func (c *Conversation) HasSummary() bool {
	return strings.TrimSpace(c.Summary) != ""
}

// Collection is one user's conversations plus the current selection pointer.
type Collection struct {
	Conversations map[string]*Conversation `json:"conversations"`
	CurrentID     string                   `json:"current_id"`
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{Conversations: make(map[string]*Conversation)}
}

// Migrate forward-migrates older records to the current shape, filling any
// missing created/updated timestamps, title, message sequence, assessment
// state, or transport session id with defaults. It is idempotent: a second
// run changes nothing and loses nothing. Returns whether anything changed.
func (c *Collection) Migrate(now time.Time) bool {
	changed := false

	if c.Conversations == nil {
		c.Conversations = make(map[string]*Conversation)
		changed = true
	}

	for id, conv := range c.Conversations {
		if conv == nil {
			delete(c.Conversations, id)
			changed = true
			continue
		}
		if conv.ID == "" {
			conv.ID = id
			changed = true
		}
		if conv.CreatedAt.IsZero() {
			conv.CreatedAt = now
			changed = true
		}
		if conv.UpdatedAt.IsZero() {
			conv.UpdatedAt = conv.CreatedAt
			changed = true
		}
		if conv.Title == "" {
			conv.Title = fmt.Sprintf("Conversation %s", shortID(conv.ID))
			changed = true
		}
		if conv.Messages == nil {
			conv.Messages = []Message{}
			changed = true
		}
		if conv.State == nil {
			conv.State = AssessmentState{}
			changed = true
		}
		if conv.SessionID == "" {
			conv.SessionID = uuid.NewString()
			changed = true
		}
		if conv.Status == "" {
			conv.Status = StatusIdle
		}
	}

	if c.CurrentID != "" {
		if _, ok := c.Conversations[c.CurrentID]; !ok {
			c.CurrentID = ""
			changed = true
		}
	}

	return changed
}

func shortID(id string) string {
	trimmed := strings.TrimPrefix(id, "conv_")
	if len(trimmed) > 8 {
		return trimmed[:8]
	}
	return trimmed
}

// Repository is the persistence port for per-user conversation collections.
// Load must be tolerant: a missing or unreadable record yields an empty
// collection, never an error that aborts the interaction.
type Repository interface {
	Load(ctx context.Context, userEmail string) (*Collection, error)
	Save(ctx context.Context, userEmail string, collection *Collection) error
}
