package conversation

import (
	"github.com/gin-gonic/gin"

	"triage-server/internal/interfaces/httpserver/handlers/authhandler"
	"triage-server/internal/interfaces/httpserver/handlers/chathandler"
	"triage-server/internal/interfaces/httpserver/handlers/conversationhandler"
)

// ConversationRoute wires the conversation collection and chat interaction
// endpoints. Every endpoint requires a resolved session.
type ConversationRoute struct {
	handler     *conversationhandler.ConversationHandler
	chatHandler *chathandler.ChatHandler
	authHandler *authhandler.AuthHandler
}

// NewConversationRoute creates a new conversation route
func NewConversationRoute(
	handler *conversationhandler.ConversationHandler,
	chatHandler *chathandler.ChatHandler,
	authHandler *authhandler.AuthHandler,
) *ConversationRoute {
	return &ConversationRoute{
		handler:     handler,
		chatHandler: chatHandler,
		authHandler: authHandler,
	}
}

// RegisterRouter registers conversation routes
func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")

	conversations.GET("", route.authHandler.WithSessionChain(route.handler.List)...)
	conversations.POST("", route.authHandler.WithSessionChain(route.handler.Create)...)

	// Static segments must come before the :conv_id operations they shadow.
	conversations.GET("/export", route.authHandler.WithSessionChain(route.handler.Export)...)
	conversations.POST("/import", route.authHandler.WithSessionChain(route.handler.Import)...)

	conversations.GET("/:conv_id", route.authHandler.WithSessionChain(route.handler.Get)...)
	conversations.DELETE("/:conv_id", route.authHandler.WithSessionChain(route.handler.Delete)...)
	conversations.POST("/:conv_id/select", route.authHandler.WithSessionChain(route.handler.Select)...)
	conversations.GET("/:conv_id/assessment", route.authHandler.WithSessionChain(route.handler.Assessment)...)

	conversations.POST("/:conv_id/messages", route.authHandler.WithSessionChain(route.chatHandler.SendMessage)...)
	conversations.POST("/:conv_id/summary", route.authHandler.WithSessionChain(route.chatHandler.GenerateSummary)...)
}
