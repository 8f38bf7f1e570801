package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"triage-server/internal/config"
	"triage-server/internal/interfaces/httpserver/handlers/authhandler"
	"triage-server/internal/interfaces/httpserver/routes/v1/conversation"
)

type V1Route struct {
	conversation *conversation.ConversationRoute
	authHandler  *authhandler.AuthHandler
}

func NewV1Route(
	conversation *conversation.ConversationRoute,
	authHandler *authhandler.AuthHandler,
) *V1Route {
	return &V1Route{
		conversation: conversation,
		authHandler:  authHandler,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)

	v1Router.PUT("/patient", v1Route.authHandler.WithSessionChain(v1Route.authHandler.UpdatePatient)...)

	v1Route.conversation.RegisterRouter(v1Router)
}

// GetVersion returns the current build version of the server.
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}
