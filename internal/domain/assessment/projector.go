package assessment

import (
	"github.com/rs/zerolog"

	"triage-server/internal/domain/agent"
	"triage-server/internal/domain/conversation"
)

// Projector extracts the structured assessment state from agent replies and
// decides when the one automatic summary request should fire.
type Projector struct {
	logger zerolog.Logger
}

// NewProjector creates an assessment projector.
func NewProjector(logger zerolog.Logger) *Projector {
	return &Projector{logger: logger}
}

// Project replaces the conversation's assessment state wholesale with the
// reply's custom_outputs when present. A reply without custom_outputs leaves
// the state untouched and only logs a diagnostic. Returns whether the state
// was replaced.
func (p *Projector) Project(reply *agent.Reply, conv *conversation.Conversation) bool {
	if reply == nil || reply.CustomOutputs == nil {
		p.logger.Warn().Str("conversation_id", conv.ID).Msg("agent reply carried no custom_outputs")
		return false
	}
	conv.State = conversation.AssessmentState(reply.CustomOutputs)
	return true
}

// ShouldSummarize reports whether the automatic summary should be requested:
// the assessment result is present and no longer pending, and no summary has
// been recorded yet. The existing-summary check is what makes the trigger
// fire at most once per conversation.
func (p *Projector) ShouldSummarize(conv *conversation.Conversation) bool {
	if conv.HasSummary() {
		return false
	}
	return !conv.State.ResultPending()
}
