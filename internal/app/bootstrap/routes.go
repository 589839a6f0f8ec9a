// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	authfeature "github.com/campuschat/campuschat/internal/app/features/auth"
	healthfeature "github.com/campuschat/campuschat/internal/app/features/health"
	messagesfeature "github.com/campuschat/campuschat/internal/app/features/messages"

	"github.com/campuschat/campuschat/internal/app/chat/engine"
	"github.com/campuschat/campuschat/internal/app/chat/presence"
	"github.com/campuschat/campuschat/internal/app/chat/rooms"
	"github.com/campuschat/campuschat/internal/app/chat/ws"
	messagestore "github.com/campuschat/campuschat/internal/app/store/messages"
	userstore "github.com/campuschat/campuschat/internal/app/store/users"
	"github.com/campuschat/campuschat/internal/app/system/ratelimit"
	"github.com/campuschat/campuschat/internal/app/system/token"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. The chat engine and its presence
// registry and room router are created here and shared by every
// WebSocket connection for the lifetime of the process.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens := token.NewManager(appCfg.JWTSecret, appCfg.JWTExpiry, "campuschat")
	loginLimiter := ratelimit.NewLoginLimiter()

	messages := messagestore.New(deps.MongoDatabase)
	users := userstore.New(deps.MongoDatabase)

	eng := engine.New(messages, presence.New(), rooms.New(), logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authfeature.NewHandler(users, tokens, loginLimiter, appCfg.EmailDomain, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	// Message history
	messagesHandler := messagesfeature.NewHandler(messages, logger)
	r.Mount("/api/messages", messagesfeature.Routes(messagesHandler, tokens))

	// Real-time chat
	wsHandler := ws.NewHandler(eng, tokens, logger)
	r.Get("/ws", wsHandler.Serve)

	return r, nil
}
