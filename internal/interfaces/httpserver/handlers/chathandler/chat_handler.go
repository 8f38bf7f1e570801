package chathandler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"triage-server/internal/domain/triage"
	"triage-server/internal/interfaces/httpserver/handlers/authhandler"
	"triage-server/internal/interfaces/httpserver/requests"
	"triage-server/internal/interfaces/httpserver/responses"
	"triage-server/internal/utils/platformerrors"
)

// ChatHandler runs the synchronous message and summary interactions against
// the remote triage agent.
type ChatHandler struct {
	triage *triage.Service
	logger zerolog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(triageService *triage.Service, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		triage: triageService,
		logger: logger,
	}
}

// SendMessage relays one user turn to the agent and returns the updated
// conversation, assistant reply included. While a reply is in flight for the
// conversation a second send is refused with a conflict.
func (h *ChatHandler) SendMessage(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}

	var req requests.SendMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid message payload", "")
		return
	}

	conv, err := h.triage.SendMessage(reqCtx.Request.Context(), sess, reqCtx.Param("conv_id"), req.Content)
	if err != nil {
		responses.HandleError(reqCtx, err, "send message failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(conv, true))
}

// GenerateSummary explicitly requests a conversation summary from the agent.
func (h *ChatHandler) GenerateSummary(reqCtx *gin.Context) {
	sess, ok := authhandler.GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}

	conv, err := h.triage.GenerateSummary(reqCtx.Request.Context(), sess, reqCtx.Param("conv_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "summary generation failed")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(conv, true))
}
