package auth

import (
	"github.com/gin-gonic/gin"

	"triage-server/internal/interfaces/httpserver/handlers/authhandler"
)

// AuthRoute handles authentication routes
type AuthRoute struct {
	authHandler *authhandler.AuthHandler
}

// NewAuthRoute creates a new auth route
func NewAuthRoute(authHandler *authhandler.AuthHandler) *AuthRoute {
	return &AuthRoute{authHandler: authHandler}
}

// RegisterRouter registers auth routes
func (a *AuthRoute) RegisterRouter(router gin.IRouter) {
	// Public route
	router.POST("/auth/login", a.authHandler.Login)

	// Session-bound routes
	router.GET("/auth/session", a.authHandler.WithSessionChain(a.authHandler.GetSession)...)
	router.POST("/auth/logout", a.authHandler.WithSessionChain(a.authHandler.Logout)...)
}
