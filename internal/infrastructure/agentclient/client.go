package agentclient

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"triage-server/internal/config"
	"triage-server/internal/domain/agent"
	"triage-server/internal/infrastructure/metrics"
	"triage-server/internal/utils/platformerrors"
)

// Client is the HTTP implementation of the agent port, speaking the hosted
// serving endpoint's /invocations envelope. The client is stateless per
// call: the endpoint keeps conversation memory keyed by session_id.
type Client struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	logger  zerolog.Logger
}

// NewClient creates the agent client from configuration. The endpoint
// expects a basic credential with the literal user "token".
func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.AgentTimeout).
		SetBasicAuth("token", cfg.AgentAPIKey)

	return &Client{
		client:  httpClient,
		baseURL: strings.TrimRight(cfg.AgentBaseURL, "/"),
		apiKey:  cfg.AgentAPIKey,
		logger:  logger,
	}
}

type invocationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type customInputs struct {
	SessionID       string `json:"session_id"`
	Gender          string `json:"gender"`
	Age             int    `json:"age"`
	UserEmail       string `json:"user_email"`
	GenerateSummary bool   `json:"generate_summary,omitempty"`
}

type invocationRequest struct {
	Messages     []invocationMessage `json:"messages"`
	CustomInputs customInputs        `json:"custom_inputs"`
}

type invocationResponse struct {
	Messages      []invocationMessage `json:"messages"`
	CustomOutputs map[string]any      `json:"custom_outputs,omitempty"`
}

// Send performs exactly one POST to <base>/invocations, measures the
// wall-clock round trip, and normalizes the reply. Any transport failure or
// non-2xx status is surfaced as an EXTERNAL error; there is no retry.
func (c *Client) Send(ctx context.Context, input agent.SendInput) (*agent.Reply, error) {
	kind := "chat"
	if input.GenerateSummary {
		kind = "summary"
	}

	request := invocationRequest{
		Messages: []invocationMessage{
			{Role: "user", Content: input.Message},
		},
		CustomInputs: customInputs{
			SessionID:       input.SessionID,
			Gender:          input.Gender,
			Age:             input.Age,
			UserEmail:       input.UserEmail,
			GenerateSummary: input.GenerateSummary,
		},
	}

	var respBody invocationResponse
	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&respBody).
		Post(c.baseURL + "/invocations")
	elapsed := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordAgentCall(kind, "error", elapsed)
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "agent endpoint unreachable", err, "")
	}
	if resp.IsError() {
		metrics.RecordAgentCall(kind, "error", elapsed)
		return nil, c.errorFromResponse(ctx, resp)
	}

	metrics.RecordAgentCall(kind, "ok", elapsed)

	reply := &agent.Reply{
		Latency:       math.Round(elapsed*100) / 100,
		CustomOutputs: respBody.CustomOutputs,
	}
	if len(respBody.Messages) > 0 {
		reply.Content = respBody.Messages[0].Content
	} else {
		c.logger.Warn().
			Str("session_id", input.SessionID).
			Str("kind", kind).
			Msg("agent reply carried no messages")
	}

	c.logger.Debug().
		Str("session_id", input.SessionID).
		Str("kind", kind).
		Int("status", resp.StatusCode()).
		Float64("latency_seconds", reply.Latency).
		Msg("agent invocation")

	return reply, nil
}

func (c *Client) errorFromResponse(ctx context.Context, resp *resty.Response) error {
	message := fmt.Sprintf("agent endpoint returned status %d", resp.StatusCode())
	if resp.RawResponse == nil || resp.RawResponse.Body == nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "")
	}
	defer resp.RawResponse.Body.Close()
	body, err := io.ReadAll(resp.RawResponse.Body)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "")
	}
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		message = fmt.Sprintf("%s: %s", message, trimmed)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, nil, "")
}
