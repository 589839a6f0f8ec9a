// internal/app/features/auth/register.go
package auth

import (
	"context"
	"net/http"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuschat/campuschat/internal/app/system/httpjson"
	"github.com/campuschat/campuschat/internal/app/system/normalize"
	"github.com/campuschat/campuschat/internal/app/system/ratelimit"
	"github.com/campuschat/campuschat/internal/app/system/timeouts"
	"github.com/campuschat/campuschat/internal/app/system/validators"
	"github.com/campuschat/campuschat/internal/domain/models"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Branch   string `json:"branch"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// HandleRegister creates a new account and returns a signed token so
// the client can connect immediately without a separate login call.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = normalize.Name(req.Name)
	req.Email = normalize.Email(req.Email)
	req.Branch = normalize.Branch(req.Branch)

	if err := validators.DisplayName(req.Name); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validators.Email(req.Email, h.EmailDomain); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validators.Password(req.Password); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validators.Branch(req.Branch); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.Limiter.Allow(ratelimit.ClientIP(r), req.Email) {
		httpjson.Error(w, http.StatusTooManyRequests, "too many attempts, try again later")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("hash password", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Branch:       req.Branch,
	})
	if err != nil {
		// The unique index on email is the source of truth for
		// duplicates, so a racing second registration lands here.
		if wafflemongo.IsDup(err) {
			httpjson.Error(w, http.StatusBadRequest, "email is already registered")
			return
		}
		h.Log.Error("create user", zap.Error(err), zap.String("email", req.Email))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	tok, err := h.Tokens.Generate(user)
	if err != nil {
		h.Log.Error("generate token", zap.Error(err), zap.String("user_id", user.ID.Hex()))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.Write(w, http.StatusCreated, authResponse{Token: tok, User: user})
}
