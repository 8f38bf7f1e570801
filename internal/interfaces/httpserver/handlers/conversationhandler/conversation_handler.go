package conversationhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"triage-server/internal/domain/conversation"
	"triage-server/internal/infrastructure/metrics"
	"triage-server/internal/infrastructure/persistence"
	"triage-server/internal/interfaces/httpserver/handlers/authhandler"
	"triage-server/internal/interfaces/httpserver/requests"
	"triage-server/internal/interfaces/httpserver/responses"
	"triage-server/internal/utils/platformerrors"
)

// ConversationHandler exposes the per-user conversation collection: listing,
// lifecycle, selection, assessment projection, and export/import of the
// encoded collection blob.
type ConversationHandler struct {
	store  *conversation.Service
	logger zerolog.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(store *conversation.Service, logger zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		store:  store,
		logger: logger,
	}
}

// List returns all conversations ordered by most recent activity. The
// collection is never empty for an authenticated user: the first call seeds
// a greeting conversation.
func (h *ConversationHandler) List(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}
	ctx := reqCtx.Request.Context()

	current, err := h.store.Current(ctx, sess.Email)
	if err != nil {
		responses.HandleError(reqCtx, err, "resolve current conversation failed")
		return
	}
	convs, err := h.store.ListOrdered(ctx, sess.Email)
	if err != nil {
		responses.HandleError(reqCtx, err, "list conversations failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewConversationListResponse(convs, current.ID))
}

// Create starts a new conversation seeded with the greeting and selects it.
func (h *ConversationHandler) Create(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}

	conv, err := h.store.Create(reqCtx.Request.Context(), sess.Email)
	if err != nil {
		responses.HandleError(reqCtx, err, "create conversation failed")
		return
	}

	metrics.ConversationsCreatedTotal.Inc()
	reqCtx.JSON(http.StatusCreated, responses.NewConversationResponse(conv, true))
}

// Get returns one conversation with its full message sequence and state.
func (h *ConversationHandler) Get(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}
	ctx := reqCtx.Request.Context()
	convID := reqCtx.Param("conv_id")

	conv, err := h.store.Get(ctx, sess.Email, convID)
	if err != nil {
		responses.HandleError(reqCtx, err, "conversation not found")
		return
	}
	current, err := h.store.Current(ctx, sess.Email)
	if err != nil {
		responses.HandleError(reqCtx, err, "resolve current conversation failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(conv, conv.ID == current.ID))
}

// Delete removes a conversation and returns the conversation that is current
// afterwards. Deleting the last conversation yields a fresh greeting one.
func (h *ConversationHandler) Delete(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}

	current, err := h.store.Delete(reqCtx.Request.Context(), sess.Email, reqCtx.Param("conv_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "delete conversation failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(current, true))
}

// Select makes the conversation the current one.
func (h *ConversationHandler) Select(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}
	ctx := reqCtx.Request.Context()
	convID := reqCtx.Param("conv_id")

	// Selection of an absent id is a store-level no-op, so existence is
	// checked first to surface NOT_FOUND to the client.
	if _, err := h.store.Get(ctx, sess.Email, convID); err != nil {
		responses.HandleError(reqCtx, err, "conversation not found")
		return
	}
	conv, err := h.store.Select(ctx, sess.Email, convID)
	if err != nil {
		responses.HandleError(reqCtx, err, "select conversation failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(conv, true))
}

// Assessment returns the structured triage projection of the conversation.
func (h *ConversationHandler) Assessment(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}

	conv, err := h.store.Get(reqCtx.Request.Context(), sess.Email, reqCtx.Param("conv_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "conversation not found")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewAssessmentResponse(conv))
}

// Export returns the whole collection as a text-safe blob the client can
// store or carry to another deployment.
func (h *ConversationHandler) Export(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}
	ctx := reqCtx.Request.Context()

	col, err := h.store.Snapshot(ctx, sess.Email)
	if err != nil {
		responses.HandleError(reqCtx, err, "snapshot conversations failed")
		return
	}
	blob, err := persistence.Encode(col)
	if err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "encode conversations failed", "")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.ExportResponse{Blob: blob})
}

// Import replaces the collection with a previously exported blob. The
// incoming records are migrated to the current shape before adoption.
func (h *ConversationHandler) Import(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}
	ctx := reqCtx.Request.Context()

	var req requests.ImportRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid import payload", "")
		return
	}

	col, err := persistence.Decode(req.Blob)
	if err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "malformed conversation blob", "")
		return
	}
	if err := h.store.ReplaceAll(ctx, sess.Email, col); err != nil {
		responses.HandleError(reqCtx, err, "import conversations failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.ImportResponse{
		Imported:  len(col.Conversations),
		CurrentID: col.CurrentID,
	})
}
