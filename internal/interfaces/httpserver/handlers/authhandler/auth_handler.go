package authhandler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"triage-server/internal/domain/session"
	"triage-server/internal/infrastructure/metrics"
	"triage-server/internal/interfaces/httpserver/requests"
	"triage-server/internal/interfaces/httpserver/responses"
	"triage-server/internal/utils/platformerrors"
)

const (
	sessionContextKey = "auth_session"
	tokenContextKey   = "auth_token"

	sessionStateHeader = "X-Session-State"
)

// AuthHandler coordinates login, session recovery, and per-request
// authentication for the single-user console surface.
type AuthHandler struct {
	sessions *session.Service
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(sessions *session.Service, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates an allow-listed email and issues a session token plus
// the portable session state blob the client persists across reloads.
func (h *AuthHandler) Login(reqCtx *gin.Context) {
	var req requests.LoginRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("rejected").Inc()
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid login payload", "")
		return
	}

	sess, err := h.sessions.Login(reqCtx.Request.Context(), req.Email)
	if err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("denied").Inc()
		responses.HandleError(reqCtx, err, "login failed")
		return
	}

	state, err := h.sessions.EncodeState(sess)
	if err != nil {
		metrics.AuthRequestsTotal.WithLabelValues("error").Inc()
		responses.HandleError(reqCtx, err, "encode session state failed")
		return
	}

	metrics.AuthRequestsTotal.WithLabelValues("granted").Inc()
	reqCtx.JSON(http.StatusOK, responses.LoginResponse{
		Email:        sess.Email,
		Token:        sess.Token,
		SessionState: state,
	})
}

// GetSession returns the authenticated session and its patient context.
func (h *AuthHandler) GetSession(reqCtx *gin.Context) {
	sess, ok := GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewSessionResponse(sess))
}

// Logout drops the session from the registry. The client is expected to also
// discard its persisted session state.
func (h *AuthHandler) Logout(reqCtx *gin.Context) {
	if token, ok := reqCtx.Get(tokenContextKey); ok {
		if str, ok := token.(string); ok {
			h.sessions.Logout(str)
		}
	}
	reqCtx.Status(http.StatusNoContent)
}

// UpdatePatient replaces the demographics attached to the session.
func (h *AuthHandler) UpdatePatient(reqCtx *gin.Context) {
	sess, ok := GetSessionFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "no active session", "")
		return
	}

	var req requests.UpdatePatientRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid patient payload", "")
		return
	}

	h.sessions.UpdatePatient(sess, session.PatientInfo{Age: req.Age, Gender: req.Gender})
	reqCtx.JSON(http.StatusOK, responses.NewSessionResponse(sess))
}

// RequireSession resolves the session for the request: the bearer token is
// looked up in the registry first; when unknown, a session state blob in the
// X-Session-State header is recovered instead. Requests with neither are
// rejected.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		token := bearerToken(reqCtx)

		if token != "" {
			if sess, ok := h.sessions.Lookup(token); ok {
				reqCtx.Set(sessionContextKey, sess)
				reqCtx.Set(tokenContextKey, token)
				reqCtx.Next()
				return
			}
		}

		if blob := reqCtx.GetHeader(sessionStateHeader); blob != "" {
			sess, err := h.sessions.Recover(reqCtx.Request.Context(), blob)
			if err != nil {
				responses.HandleError(reqCtx, err, "session recovery failed")
				return
			}
			reqCtx.Set(sessionContextKey, sess)
			reqCtx.Set(tokenContextKey, sess.Token)
			reqCtx.Next()
			return
		}

		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "missing or unknown session token", "")
	}
}

// WithSessionChain prefixes handlers with the session requirement.
func (h *AuthHandler) WithSessionChain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{h.RequireSession()}
	return append(chain, handlers...)
}

// GetSessionFromContext returns the session resolved by RequireSession.
func GetSessionFromContext(reqCtx *gin.Context) (*session.Session, bool) {
	val, ok := reqCtx.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := val.(*session.Session)
	return sess, ok
}

func bearerToken(reqCtx *gin.Context) string {
	header := reqCtx.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
