package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/pkg/httpx"
	"github.com/silverbirch/portal/pkg/jwtx"
	"github.com/silverbirch/portal/pkg/slogx"
)

type LoginHandler struct {
	Credentials *service.CredentialService
	Tokens      *jwtx.Tokens
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.Credentials.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
			return
		}
		log.Error("login failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to process login")
		return
	}

	token, err := h.Tokens.Sign(user.ID, user.Role, user.PasswordResetRequired)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to issue token")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		AccessToken:           token,
		TokenType:             "Bearer",
		ExpiresIn:             int(h.Tokens.AccessTokenTTL().Seconds()),
		PasswordResetRequired: user.PasswordResetRequired,
	})
}
