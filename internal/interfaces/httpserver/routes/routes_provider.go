package routes

import (
	"github.com/google/wire"

	"triage-server/internal/interfaces/httpserver/handlers/authhandler"
	"triage-server/internal/interfaces/httpserver/handlers/chathandler"
	"triage-server/internal/interfaces/httpserver/handlers/conversationhandler"
	"triage-server/internal/interfaces/httpserver/routes/auth"
	v1 "triage-server/internal/interfaces/httpserver/routes/v1"
	"triage-server/internal/interfaces/httpserver/routes/v1/conversation"
)

var RouteProvider = wire.NewSet(
	// Handlers
	authhandler.NewAuthHandler,
	chathandler.NewChatHandler,
	conversationhandler.NewConversationHandler,

	// Routes
	auth.NewAuthRoute,
	v1.NewV1Route,
	conversation.NewConversationRoute,
)
