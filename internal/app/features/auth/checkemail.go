// internal/app/features/auth/checkemail.go
package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/campuschat/campuschat/internal/app/system/httpjson"
	"github.com/campuschat/campuschat/internal/app/system/normalize"
	"github.com/campuschat/campuschat/internal/app/system/timeouts"
)

type checkEmailRequest struct {
	Email string `json:"email"`
}

type checkEmailResponse struct {
	Registered bool `json:"registered"`
}

// HandleCheckEmail reports whether an email already has an account.
// The registration form calls this as the user types.
func (h *Handler) HandleCheckEmail(w http.ResponseWriter, r *http.Request) {
	var req checkEmailRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := normalize.Email(req.Email)
	if email == "" {
		httpjson.Error(w, http.StatusBadRequest, "email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	registered, err := h.Users.EmailRegistered(ctx, email)
	if err != nil {
		h.Log.Error("check email", zap.Error(err), zap.String("email", email))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusOK, checkEmailResponse{Registered: registered})
}
