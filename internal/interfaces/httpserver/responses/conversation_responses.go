package responses

import (
	"time"

	"triage-server/internal/domain/conversation"
)

// MessageResponse is one chat turn as rendered to the client.
type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Latency   *float64  `json:"latency,omitempty"`
}

// ConversationResponse is the full conversation view including assessment state.
type ConversationResponse struct {
	ID        string                       `json:"id"`
	Title     string                       `json:"title"`
	CreatedAt time.Time                    `json:"created_at"`
	UpdatedAt time.Time                    `json:"updated_at"`
	Current   bool                         `json:"current"`
	Messages  []MessageResponse            `json:"messages"`
	State     conversation.AssessmentState `json:"state"`
	Summary   string                       `json:"summary,omitempty"`
}

// ConversationItemResponse is the compact list view of a conversation.
type ConversationItemResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	Current      bool      `json:"current"`
}

// ConversationListResponse is the ordered conversation listing.
type ConversationListResponse struct {
	Conversations []ConversationItemResponse `json:"conversations"`
	CurrentID     string                     `json:"current_id"`
}

// AssessmentResponse is the structured triage assessment projection.
type AssessmentResponse struct {
	Result          string                      `json:"result"`
	PresentSymptoms []conversation.SymptomEntry `json:"present_symptoms"`
	AbsentSymptoms  []conversation.SymptomEntry `json:"absent_symptoms"`
	RiskFactors     []conversation.SymptomEntry `json:"risk_factors"`
	Summary         string                      `json:"summary,omitempty"`
}

// ExportResponse carries the encoded conversation collection.
type ExportResponse struct {
	Blob string `json:"blob"`
}

// ImportResponse reports the restored collection size.
type ImportResponse struct {
	Imported  int    `json:"imported"`
	CurrentID string `json:"current_id"`
}

// NewConversationResponse converts a domain conversation to its full view.
func NewConversationResponse(conv *conversation.Conversation, current bool) ConversationResponse {
	messages := make([]MessageResponse, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		messages = append(messages, MessageResponse{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp,
			Latency:   m.Latency,
		})
	}

	state := conv.State
	if state == nil {
		state = conversation.AssessmentState{}
	}

	return ConversationResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		Current:   current,
		Messages:  messages,
		State:     state,
		Summary:   conv.Summary,
	}
}

// NewConversationListResponse converts an ordered slice of conversations.
func NewConversationListResponse(convs []*conversation.Conversation, currentID string) ConversationListResponse {
	items := make([]ConversationItemResponse, 0, len(convs))
	for _, conv := range convs {
		items = append(items, ConversationItemResponse{
			ID:           conv.ID,
			Title:        conv.Title,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: len(conv.Messages),
			Current:      conv.ID == currentID,
		})
	}
	return ConversationListResponse{Conversations: items, CurrentID: currentID}
}

// NewAssessmentResponse projects the assessment state of a conversation.
func NewAssessmentResponse(conv *conversation.Conversation) AssessmentResponse {
	return AssessmentResponse{
		Result:          conv.State.Result(),
		PresentSymptoms: conv.State.PresentSymptoms(),
		AbsentSymptoms:  conv.State.AbsentSymptoms(),
		RiskFactors:     conv.State.RiskFactors(),
		Summary:         conv.Summary,
	}
}
