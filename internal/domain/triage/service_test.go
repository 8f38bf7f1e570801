package triage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"triage-server/internal/domain/agent"
	"triage-server/internal/domain/assessment"
	"triage-server/internal/domain/conversation"
	"triage-server/internal/domain/session"
	"triage-server/internal/utils/platformerrors"
)

const testUser = "user@example.com"

type nopRepo struct{}

func (nopRepo) Load(context.Context, string) (*conversation.Collection, error) { return nil, nil }
func (nopRepo) Save(context.Context, string, *conversation.Collection) error { return nil }

type fakeReply struct {
	reply *agent.Reply
	err   error
}

// fakeAgent replays a scripted sequence of replies and records every input.
type fakeAgent struct {
	mu    sync.Mutex
	queue []fakeReply
	calls []agent.SendInput
}

func (f *fakeAgent) Send(_ context.Context, input agent.SendInput) (*agent.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, input)
	if len(f.queue) == 0 {
		return &agent.Reply{Content: "ok"}, nil
	}
	next := f.queue[0]
	f.queue = f.queue[1:]
	return next.reply, next.err
}

func (f *fakeAgent) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTriageFixture(queue ...fakeReply) (*Service, *conversation.Service, *fakeAgent) {
	store := conversation.NewService(nopRepo{}, zerolog.Nop())
	client := &fakeAgent{queue: queue}
	svc := NewService(store, client, assessment.NewProjector(zerolog.Nop()), zerolog.Nop())
	return svc, store, client
}

func testSession() *session.Session {
	return &session.Session{
		Email:   testUser,
		Token:   "tok",
		Patient: session.PatientInfo{Age: 35, Gender: "Male"},
	}
}

func TestSendMessageAppendsReply(t *testing.T) {
	svc, store, client := newTriageFixture(fakeReply{reply: &agent.Reply{
		Content: "Can you tell me more?",
		Latency: 1.23,
		CustomOutputs: map[string]any{
			"result": "pending",
		},
	}})
	ctx := context.Background()
	sess := testSession()

	conv, err := store.Create(ctx, testUser)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.SendMessage(ctx, sess, conv.ID, "I have a headache")
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	// greeting + user turn + assistant turn
	if len(got.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(got.Messages))
	}
	last := got.Messages[2]
	if last.Role != conversation.RoleAssistant || last.Content != "Can you tell me more?" {
		t.Errorf("unexpected assistant turn: %+v", last)
	}
	if last.Latency == nil || *last.Latency != 1.23 {
		t.Errorf("expected recorded latency 1.23, got %v", last.Latency)
	}
	if got.State.Result() != "pending" {
		t.Errorf("expected projected state, got %q", got.State.Result())
	}

	// Pending result: no auto summary call.
	if client.callCount() != 1 {
		t.Fatalf("expected exactly 1 agent call, got %d", client.callCount())
	}
	input := client.calls[0]
	if input.SessionID != conv.SessionID || input.UserEmail != testUser {
		t.Errorf("unexpected send input: %+v", input)
	}
	if input.GenerateSummary {
		t.Error("chat turn must not request a summary")
	}
}

func TestAutoSummaryFiresOnce(t *testing.T) {
	svc, store, client := newTriageFixture(
		fakeReply{reply: &agent.Reply{
			Content:       "Please seek urgent care.",
			CustomOutputs: map[string]any{"result": "urgent care"},
		}},
		fakeReply{reply: &agent.Reply{Content: "Patient reports severe symptoms."}},
		fakeReply{reply: &agent.Reply{
			Content:       "Anything else?",
			CustomOutputs: map[string]any{"result": "urgent care"},
		}},
	)
	ctx := context.Background()
	sess := testSession()

	conv, _ := store.Create(ctx, testUser)

	got, err := svc.SendMessage(ctx, sess, conv.ID, "Chest pain and dizziness")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if client.callCount() != 2 {
		t.Fatalf("expected chat call plus one summary call, got %d", client.callCount())
	}
	summaryInput := client.calls[1]
	if !summaryInput.GenerateSummary || summaryInput.Message != SummaryPrompt {
		t.Errorf("unexpected summary input: %+v", summaryInput)
	}
	if got.Summary != "Patient reports severe symptoms." {
		t.Errorf("expected recorded summary, got %q", got.Summary)
	}
	// A summary request is not a chat turn.
	if len(got.Messages) != 3 {
		t.Errorf("summary must not append messages, got %d", len(got.Messages))
	}

	// Next non-pending reply must not re-trigger: summary already recorded.
	if _, err := svc.SendMessage(ctx, sess, conv.ID, "Thanks"); err != nil {
		t.Fatalf("second send: %v", err)
	}
	if client.callCount() != 3 {
		t.Fatalf("expected no further summary calls, got %d total", client.callCount())
	}
}

func TestAutoSummaryFailureIsSwallowed(t *testing.T) {
	svc, store, client := newTriageFixture(
		fakeReply{reply: &agent.Reply{
			Content:       "Please seek urgent care.",
			CustomOutputs: map[string]any{"result": "urgent care"},
		}},
		fakeReply{err: errors.New("agent unavailable")},
	)
	ctx := context.Background()
	sess := testSession()

	conv, _ := store.Create(ctx, testUser)

	got, err := svc.SendMessage(ctx, sess, conv.ID, "Chest pain")
	if err != nil {
		t.Fatalf("a summary failure must not fail the send: %v", err)
	}
	if got.Summary != "" {
		t.Errorf("expected no summary, got %q", got.Summary)
	}
	if client.callCount() != 2 {
		t.Fatalf("expected exactly one summary attempt, got %d calls", client.callCount())
	}
}

func TestTransportFailureKeepsUserMessage(t *testing.T) {
	svc, store, _ := newTriageFixture(fakeReply{err: errors.New("connection refused")})
	ctx := context.Background()
	sess := testSession()

	conv, _ := store.Create(ctx, testUser)

	_, err := svc.SendMessage(ctx, sess, conv.ID, "Hello?")
	if err == nil {
		t.Fatal("expected the transport failure to surface")
	}

	got, _ := store.Get(ctx, testUser, conv.ID)
	if got.UserMessageCount() != 1 {
		t.Error("the user's message must stay appended after a failed call")
	}
	// The interaction guard must have been released.
	if _, err := store.BeginInteraction(ctx, testUser, conv.ID); err != nil {
		t.Errorf("conversation must be idle again: %v", err)
	}
}

func TestEmptyReplyFallsBack(t *testing.T) {
	svc, store, _ := newTriageFixture(fakeReply{reply: &agent.Reply{Content: "", Latency: 0.5}})
	ctx := context.Background()
	sess := testSession()

	conv, _ := store.Create(ctx, testUser)

	got, err := svc.SendMessage(ctx, sess, conv.ID, "Hello?")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	last := got.Messages[len(got.Messages)-1]
	if last.Content != fallbackReply {
		t.Errorf("expected fallback assistant turn, got %q", last.Content)
	}
}

func TestGenerateSummaryExplicit(t *testing.T) {
	svc, store, client := newTriageFixture(fakeReply{reply: &agent.Reply{Content: "Short summary."}})
	ctx := context.Background()
	sess := testSession()

	conv, _ := store.Create(ctx, testUser)

	got, err := svc.GenerateSummary(ctx, sess, conv.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if got.Summary != "Short summary." {
		t.Errorf("expected summary recorded, got %q", got.Summary)
	}
	if len(got.Messages) != 1 {
		t.Errorf("summary must not append chat turns, got %d messages", len(got.Messages))
	}
	if !client.calls[0].GenerateSummary {
		t.Error("expected a summary-flagged agent call")
	}
}

func TestGenerateSummaryEmptyReply(t *testing.T) {
	svc, store, _ := newTriageFixture(fakeReply{reply: &agent.Reply{Content: ""}})
	ctx := context.Background()
	sess := testSession()

	conv, _ := store.Create(ctx, testUser)

	_, err := svc.GenerateSummary(ctx, sess, conv.ID)
	if !platformerrors.IsErrorType(err, platformerrors.ErrorTypeMalformedReply) {
		t.Fatalf("expected MALFORMED_REPLY, got %v", err)
	}
}
