package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"triage-server/internal/utils/platformerrors"
)

// ErrorResponse is the uniform error payload of the console API. Code is the
// platform error's instance id so a client report can be matched to a log
// line; the wrapped error itself never reaches the client.
type ErrorResponse struct {
	Code          string `json:"code"`
	Error         string `json:"error"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError renders a domain error. Platform errors keep their type-derived
// status, instance id, and request id; anything else becomes a plain 500 with
// the caller's fallback message.
func HandleError(reqCtx *gin.Context, err error, fallback string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		message := domainErr.Message
		if message == "" {
			message = fallback
		}

		reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType()), ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         message,
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		})
		return
	}

	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:         fallback,
		ErrorInstance: err,
	})
}

// HandleNewError creates a typed error at the route layer, for failures that
// originate in the HTTP surface itself (binding, missing session) rather
// than in a domain call, and renders it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType()), ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	})
}
