package conversation

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"triage-server/internal/utils/platformerrors"
	"triage-server/internal/utils/stringutils"
)

// Service owns the in-memory conversation collections, one per authenticated
// user. Collections are hydrated lazily from the repository and flushed back
// after every mutation. All operations on a user's collection run under that
// user's lock; the cross-conversation interaction state machine
// (Idle -> AwaitingReply -> Idle) lives on the records themselves.
type Service struct {
	repo   Repository
	logger zerolog.Logger

	mu    sync.Mutex
	users map[string]*userState
}

type userState struct {
	mu         sync.Mutex
	collection *Collection
}

// NewService creates the conversation store backed by the given repository.
func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		users:  make(map[string]*userState),
	}
}

func (s *Service) user(email string) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		u = &userState{}
		s.users[email] = u
	}
	return u
}

// withUser runs fn on the user's hydrated collection under the user lock.
func (s *Service) withUser(ctx context.Context, email string, fn func(col *Collection) error) error {
	u := s.user(email)
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.collection == nil {
		col, err := s.repo.Load(ctx, email)
		if err != nil || col == nil {
			if err != nil {
				s.logger.Warn().Err(err).Str("user", email).Msg("load conversations failed, starting empty")
			}
			col = NewCollection()
		}
		if col.Migrate(time.Now()) {
			s.flush(ctx, email, col)
		}
		u.collection = col
	}

	return fn(u.collection)
}

// flush persists the collection. A save failure never aborts the interaction:
// the in-memory state stays authoritative and the previously persisted record
// stays intact, so it is logged and swallowed here.
func (s *Service) flush(ctx context.Context, email string, col *Collection) {
	if err := s.repo.Save(ctx, email, col); err != nil {
		s.logger.Error().Err(err).Str("user", email).Msg("persist conversations failed")
	}
}

// Create allocates a new conversation seeded with the greeting, selects it
// as current, and persists.
func (s *Service) Create(ctx context.Context, email string) (*Conversation, error) {
	var conv *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		conv = s.createLocked(ctx, email, col)
		return nil
	})
	return conv, err
}

func (s *Service) createLocked(ctx context.Context, email string, col *Collection) *Conversation {
	conv := New(len(col.Conversations) + 1)
	col.Conversations[conv.ID] = conv
	col.CurrentID = conv.ID
	s.flush(ctx, email, col)
	return conv
}

// Get returns the conversation by id.
func (s *Service) Get(ctx context.Context, email, id string) (*Conversation, error) {
	var conv *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		c, ok := col.Conversations[id]
		if !ok {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
		}
		conv = c
		return nil
	})
	return conv, err
}

// Select sets the current conversation pointer. Selecting an absent id is a
// no-op; callers check existence first or accept it.
func (s *Service) Select(ctx context.Context, email, id string) (*Conversation, error) {
	var conv *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		c, ok := col.Conversations[id]
		if !ok {
			return nil
		}
		col.CurrentID = id
		conv = c
		s.flush(ctx, email, col)
		return nil
	})
	return conv, err
}

// Delete removes the conversation and returns the one that is current
// afterwards, never nil: when the current pointer no longer resolves the
// most recently updated remaining conversation becomes current, and when
// none remain a fresh conversation is created.
func (s *Service) Delete(ctx context.Context, email, id string) (*Conversation, error) {
	var current *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		if _, ok := col.Conversations[id]; !ok {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
		}
		delete(col.Conversations, id)

		if len(col.Conversations) == 0 {
			current = s.createLocked(ctx, email, col)
			return nil
		}

		// The pointer may already have been unset before the delete, e.g. by
		// migrating a record whose current_id did not resolve, so repoint on
		// any unresolved pointer rather than only when the current one was
		// deleted.
		if _, ok := col.Conversations[col.CurrentID]; !ok {
			col.CurrentID = mostRecent(col).ID
		}

		current = col.Conversations[col.CurrentID]
		s.flush(ctx, email, col)
		return nil
	})
	return current, err
}

// AppendMessage appends to the ordered message sequence, bumps updated_at,
// and persists. The first user-authored message also derives the title.
func (s *Service) AppendMessage(ctx context.Context, email, id string, msg Message) (*Conversation, error) {
	var conv *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		c, ok := col.Conversations[id]
		if !ok {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}
		c.Messages = append(c.Messages, msg)
		if msg.Role == RoleUser && c.UserMessageCount() == 1 {
			c.Title = stringutils.DeriveTitle(msg.Content)
		}
		c.UpdatedAt = time.Now()
		conv = c
		s.flush(ctx, email, col)
		return nil
	})
	return conv, err
}

// ReplaceState swaps the assessment state wholesale and persists.
func (s *Service) ReplaceState(ctx context.Context, email, id string, state AssessmentState) error {
	return s.withUser(ctx, email, func(col *Collection) error {
		c, ok := col.Conversations[id]
		if !ok {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
		}
		c.State = state
		s.flush(ctx, email, col)
		return nil
	})
}

// SetSummary records the generated summary and persists.
func (s *Service) SetSummary(ctx context.Context, email, id, summary string) error {
	return s.withUser(ctx, email, func(col *Collection) error {
		c, ok := col.Conversations[id]
		if !ok {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
		}
		c.Summary = summary
		s.flush(ctx, email, col)
		return nil
	})
}

// ListOrdered returns all conversations sorted by updated_at descending,
// ties broken by id for a stable order.
func (s *Service) ListOrdered(ctx context.Context, email string) ([]*Conversation, error) {
	var out []*Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		out = make([]*Conversation, 0, len(col.Conversations))
		for _, c := range col.Conversations {
			out = append(out, c)
		}
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
				return out[i].UpdatedAt.After(out[j].UpdatedAt)
			}
			return out[i].ID < out[j].ID
		})
		return nil
	})
	return out, err
}

// Current returns the currently selected conversation, creating one when the
// collection is empty (first load) and repairing a dangling pointer.
func (s *Service) Current(ctx context.Context, email string) (*Conversation, error) {
	var conv *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		if len(col.Conversations) == 0 {
			conv = s.createLocked(ctx, email, col)
			return nil
		}
		if c, ok := col.Conversations[col.CurrentID]; ok {
			conv = c
			return nil
		}
		conv = mostRecent(col)
		col.CurrentID = conv.ID
		s.flush(ctx, email, col)
		return nil
	})
	return conv, err
}

// BeginInteraction transitions the conversation from Idle to AwaitingReply.
// A conversation already awaiting a reply yields CONFLICT, which is the
// re-entrancy guard for the whole send pipeline including the nested
// auto-summary call.
func (s *Service) BeginInteraction(ctx context.Context, email, id string) (*Conversation, error) {
	var conv *Conversation
	err := s.withUser(ctx, email, func(col *Collection) error {
		c, ok := col.Conversations[id]
		if !ok {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
		}
		if c.Status == StatusAwaitingReply {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict, "a reply is already in flight for this conversation", nil, "")
		}
		c.Status = StatusAwaitingReply
		conv = c
		return nil
	})
	return conv, err
}

// EndInteraction transitions the conversation back to Idle.
func (s *Service) EndInteraction(ctx context.Context, email, id string) {
	_ = s.withUser(ctx, email, func(col *Collection) error {
		if c, ok := col.Conversations[id]; ok {
			c.Status = StatusIdle
		}
		return nil
	})
}

// Snapshot returns a deep copy of the user's collection for export.
func (s *Service) Snapshot(ctx context.Context, email string) (*Collection, error) {
	var copied *Collection
	err := s.withUser(ctx, email, func(col *Collection) error {
		raw, err := json.Marshal(col)
		if err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "snapshot collection", err, "")
		}
		copied = NewCollection()
		if err := json.Unmarshal(raw, copied); err != nil {
			return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal, "snapshot collection", err, "")
		}
		return nil
	})
	return copied, err
}

// ReplaceAll swaps the user's whole collection (import of an exported blob)
// and persists. The incoming collection is migrated before it is adopted.
func (s *Service) ReplaceAll(ctx context.Context, email string, col *Collection) error {
	if col == nil {
		col = NewCollection()
	}
	col.Migrate(time.Now())
	u := s.user(email)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.collection = col
	if err := s.repo.Save(ctx, email, col); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "persist imported conversations")
	}
	return nil
}

func mostRecent(col *Collection) *Conversation {
	var latest *Conversation
	for _, c := range col.Conversations {
		if latest == nil || c.UpdatedAt.After(latest.UpdatedAt) {
			latest = c
		}
	}
	return latest
}
