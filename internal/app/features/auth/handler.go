// internal/app/features/auth/handler.go
package auth

import (
	"go.uber.org/zap"

	"github.com/campuschat/campuschat/internal/app/store/users"
	"github.com/campuschat/campuschat/internal/app/system/ratelimit"
	"github.com/campuschat/campuschat/internal/app/system/token"
)

// Handler is the shared dependency container for the auth feature
// (register, login, check-email). It is constructed once in the
// bootstrap BuildHandler function.
type Handler struct {
	Users       *users.Store
	Tokens      *token.Manager
	Limiter     *ratelimit.LoginLimiter
	EmailDomain string // e.g. "thapar.edu"; empty disables the domain restriction
	Log         *zap.Logger
}

func NewHandler(usersStore *users.Store, tokens *token.Manager, limiter *ratelimit.LoginLimiter, emailDomain string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:       usersStore,
		Tokens:      tokens,
		Limiter:     limiter,
		EmailDomain: emailDomain,
		Log:         logger,
	}
}
