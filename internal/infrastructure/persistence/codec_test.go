package persistence

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage-server/internal/domain/conversation"
)

func sampleCollection(t *testing.T) *conversation.Collection {
	t.Helper()
	latency := 2.41
	created := time.Date(2025, 5, 20, 9, 30, 0, 123456789, time.UTC)

	col := conversation.NewCollection()
	col.Conversations["conv_abc123"] = &conversation.Conversation{
		ID:        "conv_abc123",
		SessionID: "8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d",
		Title:     "I have a persistent cough",
		CreatedAt: created,
		UpdatedAt: created.Add(5 * time.Minute),
		Summary:   "Patient reports a persistent cough.",
		Messages: []conversation.Message{
			{Role: conversation.RoleAssistant, Content: conversation.GreetingMessage, Timestamp: created},
			{Role: conversation.RoleUser, Content: "I have a persistent cough", Timestamp: created.Add(time.Minute)},
			{Role: conversation.RoleAssistant, Content: "How long has it lasted?", Timestamp: created.Add(2 * time.Minute), Latency: &latency},
		},
		State: conversation.AssessmentState{
			"result": "routine",
			"present_symptoms": []any{
				map[string]any{"symptom": "cough", "details": []any{"dry", "2 weeks"}},
			},
			"unknown_future_field": "carried through",
		},
	}
	col.CurrentID = "conv_abc123"
	return col
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	col := sampleCollection(t)

	blob, err := Encode(col)
	require.NoError(t, err)
	require.NotEmpty(t, blob)

	decoded, err := Decode(blob)
	require.NoError(t, err)

	require.Len(t, decoded.Conversations, 1)
	assert.Equal(t, col.CurrentID, decoded.CurrentID)

	got := decoded.Conversations["conv_abc123"]
	require.NotNil(t, got)
	want := col.Conversations["conv_abc123"]

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Summary, got.Summary)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "created_at must round-trip")
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt), "updated_at must round-trip")

	require.Len(t, got.Messages, 3)
	for i := range want.Messages {
		assert.Equal(t, want.Messages[i].Role, got.Messages[i].Role)
		assert.Equal(t, want.Messages[i].Content, got.Messages[i].Content)
		assert.True(t, want.Messages[i].Timestamp.Equal(got.Messages[i].Timestamp))
	}
	require.NotNil(t, got.Messages[2].Latency)
	assert.Equal(t, 2.41, *got.Messages[2].Latency)

	assert.Equal(t, "routine", got.State.Result())
	require.Len(t, got.State.PresentSymptoms(), 1)
	assert.Equal(t, "cough", got.State.PresentSymptoms()[0].Symptom)
	assert.Equal(t, []string{"dry", "2 weeks"}, got.State.PresentSymptoms()[0].Details)
	assert.Equal(t, "carried through", got.State["unknown_future_field"], "unknown fields must survive")
}

func TestEncodeNilCollection(t *testing.T) {
	blob, err := Encode(nil)
	require.NoError(t, err)

	decoded, err := Decode(blob)
	require.NoError(t, err)
	assert.Empty(t, decoded.Conversations)
}

func TestDecodeMalformedBlob(t *testing.T) {
	_, err := Decode("not base64 at all !!!")
	assert.Error(t, err)

	// Valid base64 of invalid JSON.
	_, err = Decode("aGVsbG8gd29ybGQ=")
	assert.Error(t, err)
}

func TestDecodeMigratesLegacyRecords(t *testing.T) {
	// A legacy record: known id but no timestamps, title, or state.
	legacy := `{"conversations":{"conv_old":{"messages":[{"role":"user","content":"hi","timestamp":"2024-01-01T00:00:00Z"}]}},"current_id":"conv_old"}`

	decoded, err := Decode(base64.StdEncoding.EncodeToString([]byte(legacy)))
	require.NoError(t, err)

	got := decoded.Conversations["conv_old"]
	require.NotNil(t, got)
	assert.Equal(t, "conv_old", got.ID)
	assert.False(t, got.CreatedAt.IsZero())
	assert.NotEmpty(t, got.Title)
	assert.NotNil(t, got.State)
	assert.NotEmpty(t, got.SessionID)
	assert.Equal(t, "conv_old", decoded.CurrentID)
}
