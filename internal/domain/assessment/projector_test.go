package assessment

import (
	"testing"

	"github.com/rs/zerolog"

	"triage-server/internal/domain/agent"
	"triage-server/internal/domain/conversation"
)

func TestProjectReplacesStateWholesale(t *testing.T) {
	p := NewProjector(zerolog.Nop())
	conv := conversation.New(1)
	conv.State = conversation.AssessmentState{
		"result": "pending",
		"present_symptoms": []any{
			map[string]any{"symptom": "cough"},
		},
	}

	reply := &agent.Reply{
		Content: "Thanks for the details.",
		CustomOutputs: map[string]any{
			"result": "routine",
		},
	}

	if !p.Project(reply, conv) {
		t.Fatal("expected projection to replace the state")
	}
	if conv.State.Result() != "routine" {
		t.Errorf("expected new result, got %q", conv.State.Result())
	}
	// Replacement is wholesale: prior keys do not survive.
	if conv.State.PresentSymptoms() != nil {
		t.Error("stale symptoms must not survive a replacement")
	}
}

func TestProjectKeepsStateWithoutCustomOutputs(t *testing.T) {
	p := NewProjector(zerolog.Nop())
	conv := conversation.New(1)
	conv.State = conversation.AssessmentState{"result": "pending"}

	if p.Project(&agent.Reply{Content: "hi"}, conv) {
		t.Fatal("reply without custom_outputs must not replace the state")
	}
	if conv.State.Result() != "pending" {
		t.Error("state must be untouched")
	}
}

func TestShouldSummarize(t *testing.T) {
	p := NewProjector(zerolog.Nop())

	tests := []struct {
		name    string
		result  string
		summary string
		want    bool
	}{
		{"pending result", "pending", "", false},
		{"pending uppercase", "Pending", "", false},
		{"no result yet", "", "", false},
		{"decided result", "urgent care", "", true},
		{"decided but already summarized", "urgent care", "Summary text.", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := conversation.New(1)
			conv.Summary = tt.summary
			if tt.result != "" {
				conv.State = conversation.AssessmentState{"result": tt.result}
			}
			if got := p.ShouldSummarize(conv); got != tt.want {
				t.Errorf("ShouldSummarize = %v, want %v", got, tt.want)
			}
		})
	}
}
