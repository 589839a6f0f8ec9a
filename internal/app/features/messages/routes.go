// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"

	"github.com/campuschat/campuschat/internal/app/system/auth"
	"github.com/campuschat/campuschat/internal/app/system/token"
)

func Routes(h *Handler, tokens *token.Manager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireAuth(tokens))

		pr.Get("/{branch}", h.HandleListByBranch)
	})

	return r
}
