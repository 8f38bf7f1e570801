package requests

// SendMessageRequest carries one user turn for the active conversation.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ImportRequest carries an encoded conversation collection to restore.
type ImportRequest struct {
	Blob string `json:"blob" binding:"required"`
}
