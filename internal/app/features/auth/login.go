// internal/app/features/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuschat/campuschat/internal/app/system/httpjson"
	"github.com/campuschat/campuschat/internal/app/system/normalize"
	"github.com/campuschat/campuschat/internal/app/system/ratelimit"
	"github.com/campuschat/campuschat/internal/app/system/timeouts"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a fresh token. Unknown
// emails and wrong passwords return the same message so the endpoint
// does not leak which accounts exist.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = normalize.Email(req.Email)
	if req.Email == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	if !h.Limiter.Allow(ratelimit.ClientIP(r), req.Email) {
		httpjson.Error(w, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.Error(w, http.StatusBadRequest, "invalid email or password")
			return
		}
		h.Log.Error("find user", zap.Error(err), zap.String("email", req.Email))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	tok, err := h.Tokens.Generate(user)
	if err != nil {
		h.Log.Error("generate token", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	// A successful login clears the counter so a user who finally
	// remembers their password is not locked out by earlier misses.
	h.Limiter.ResetEmail(req.Email)

	httpjson.Write(w, http.StatusOK, authResponse{Token: tok, User: user})
}
