package triage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"triage-server/internal/domain/agent"
	"triage-server/internal/domain/assessment"
	"triage-server/internal/domain/conversation"
	"triage-server/internal/domain/session"
	"triage-server/internal/infrastructure/metrics"
	"triage-server/internal/utils/platformerrors"
)

// SummaryPrompt is the fixed message sent when requesting a summary.
const SummaryPrompt = "Generate summary for this conversation."

// fallbackReply stands in for the assistant turn when the agent reply
// carried no message content.
const fallbackReply = "I apologize, but I couldn't process that response."

// Service runs the one synchronous interaction pipeline per user action:
// append the user turn, one agent call, project the reply, conditionally
// auto-summarize, persist. Each conversation moves Idle -> AwaitingReply ->
// Idle around the pipeline; a second send while one is in flight is refused.
type Service struct {
	store     *conversation.Service
	client    agent.Client
	projector *assessment.Projector
	logger    zerolog.Logger
}

// NewService creates the triage interaction service.
func NewService(
	store *conversation.Service,
	client agent.Client,
	projector *assessment.Projector,
	logger zerolog.Logger,
) *Service {
	return &Service{
		store:     store,
		client:    client,
		projector: projector,
		logger:    logger,
	}
}

// SendMessage relays one user turn to the remote agent and applies the
// reply. On transport failure the user's message stays appended and
// persisted, pending a retry via a new send; nothing is retried here.
func (s *Service) SendMessage(ctx context.Context, sess *session.Session, convID, text string) (*conversation.Conversation, error) {
	conv, err := s.store.BeginInteraction(ctx, sess.Email, convID)
	if err != nil {
		return nil, err
	}
	defer s.store.EndInteraction(ctx, sess.Email, convID)

	if _, err := s.store.AppendMessage(ctx, sess.Email, convID, conversation.Message{
		Role:      conversation.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}); err != nil {
		return nil, err
	}

	reply, err := s.client.Send(ctx, s.sendInput(sess, conv.SessionID, text, false))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "agent call failed")
	}

	content := reply.Content
	if content == "" {
		// Degraded path for a reply without messages: show a generic
		// fallback turn instead of failing the whole interaction.
		s.logger.Warn().Str("conversation_id", convID).Msg("agent reply carried no message content")
		content = fallbackReply
	}

	latency := reply.Latency
	conv, err = s.store.AppendMessage(ctx, sess.Email, convID, conversation.Message{
		Role:      conversation.RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
		Latency:   &latency,
	})
	if err != nil {
		return nil, err
	}

	if s.projector.Project(reply, conv) {
		if err := s.store.ReplaceState(ctx, sess.Email, convID, conv.State); err != nil {
			return nil, err
		}
	}

	if s.projector.ShouldSummarize(conv) {
		s.autoSummarize(ctx, sess, conv)
	}

	return conv, nil
}

// autoSummarize issues exactly one summary request. A failure is logged and
// not re-attempted within this trigger; the next projected non-pending reply
// may trigger again as long as no summary was recorded.
func (s *Service) autoSummarize(ctx context.Context, sess *session.Session, conv *conversation.Conversation) {
	reply, err := s.client.Send(ctx, s.sendInput(sess, conv.SessionID, SummaryPrompt, true))
	if err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", conv.ID).Msg("auto summary generation failed")
		return
	}
	if reply.Content == "" {
		s.logger.Warn().Str("conversation_id", conv.ID).Msg("auto summary reply carried no content")
		return
	}
	if err := s.store.SetSummary(ctx, sess.Email, conv.ID, reply.Content); err != nil {
		s.logger.Warn().Err(err).Str("conversation_id", conv.ID).Msg("store auto summary failed")
		return
	}
	metrics.SummariesGeneratedTotal.WithLabelValues("auto").Inc()
}

// GenerateSummary is the explicit user-driven summary action. It fills the
// conversation's summary field without appending a chat turn.
func (s *Service) GenerateSummary(ctx context.Context, sess *session.Session, convID string) (*conversation.Conversation, error) {
	conv, err := s.store.BeginInteraction(ctx, sess.Email, convID)
	if err != nil {
		return nil, err
	}
	defer s.store.EndInteraction(ctx, sess.Email, convID)

	reply, err := s.client.Send(ctx, s.sendInput(sess, conv.SessionID, SummaryPrompt, true))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "summary generation failed")
	}
	if reply.Content == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeMalformedReply, "summary reply carried no content", nil, "")
	}

	if err := s.store.SetSummary(ctx, sess.Email, convID, reply.Content); err != nil {
		return nil, err
	}
	metrics.SummariesGeneratedTotal.WithLabelValues("explicit").Inc()
	return s.store.Get(ctx, sess.Email, convID)
}

func (s *Service) sendInput(sess *session.Session, sessionID, message string, summary bool) agent.SendInput {
	return agent.SendInput{
		Message:         message,
		SessionID:       sessionID,
		UserEmail:       sess.Email,
		Age:             sess.Patient.Age,
		Gender:          sess.Patient.Gender,
		GenerateSummary: summary,
	}
}
