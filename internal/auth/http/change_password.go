package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/pkg/httpx"
	"github.com/silverbirch/portal/pkg/slogx"
)

// ChangePasswordHandler lets an authenticated user rotate their own
// password. This endpoint is deliberately reachable while the
// reset-required flag is set; it is how temporary passwords get retired.
type ChangePasswordHandler struct {
	Credentials *service.CredentialService
}

func (h *ChangePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "current_password and new_password are required")
		return
	}

	err := h.Credentials.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Current password is incorrect")
			return
		}

		var weak *service.WeakPasswordError
		if errors.As(err, &weak) {
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", weak.Reason)
			return
		}

		log.Error("failed to change password", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to change password")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
