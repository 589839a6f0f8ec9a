// internal/app/features/messages/handler.go
package messages

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/campuschat/campuschat/internal/app/store/messages"
	"github.com/campuschat/campuschat/internal/app/system/auth"
	"github.com/campuschat/campuschat/internal/app/system/httpjson"
	"github.com/campuschat/campuschat/internal/app/system/normalize"
	"github.com/campuschat/campuschat/internal/app/system/timeouts"
	"github.com/campuschat/campuschat/internal/app/system/validators"
	"github.com/campuschat/campuschat/internal/domain/models"
)

// Handler serves the message history API.
type Handler struct {
	Messages *messages.Store
	Log      *zap.Logger
}

func NewHandler(store *messages.Store, logger *zap.Logger) *Handler {
	return &Handler{Messages: store, Log: logger}
}

// HandleListByBranch returns a branch's message history oldest first,
// so clients can render it top to bottom without re-sorting.
func (h *Handler) HandleListByBranch(w http.ResponseWriter, r *http.Request) {
	branch := normalize.Branch(chi.URLParam(r, "branch"))
	if err := validators.Branch(branch); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if user, ok := auth.CurrentUser(r); ok {
		h.Log.Debug("history fetch",
			zap.String("branch", branch),
			zap.String("user_id", user.ID))
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Messages.ListByBranch(ctx, branch)
	if err != nil {
		h.Log.Error("list messages", zap.Error(err), zap.String("branch", branch))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []models.Message{}
	}

	httpjson.Write(w, http.StatusOK, list)
}
