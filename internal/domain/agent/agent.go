package agent

import "context"

// SendInput is one stateless call to the remote triage agent. The agent
// keeps its own server-side conversation memory keyed by SessionID; this
// client only ever carries the single new message plus patient context.
type SendInput struct {
	Message         string
	SessionID       string
	UserEmail       string
	Age             int
	Gender          string
	GenerateSummary bool
}

// Reply is the normalized agent response: the first reply message's content,
// the measured wall-clock round-trip in seconds, and the raw custom_outputs
// mapping (the new assessment state) when the agent returned one.
type Reply struct {
	Content       string
	Latency       float64
	CustomOutputs map[string]any
}

// Client is the transport port to the remote triage endpoint. One attempt
// per call; retrying is the caller's (or rather the end user's) decision.
type Client interface {
	Send(ctx context.Context, input SendInput) (*Reply, error)
}
