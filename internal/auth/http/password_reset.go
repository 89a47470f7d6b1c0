package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/silverbirch/portal/internal/auth/notify"
	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/pkg/httpx"
	"github.com/silverbirch/portal/pkg/slogx"
)

// resetAcceptedMessage is returned for every reset request, known email or
// not, so the endpoint cannot be used to enumerate accounts.
const resetAcceptedMessage = "If that email belongs to an account, a reset link has been sent."

type PasswordResetRequestHandler struct {
	Users    *service.UserService
	Reset    *service.ResetService
	Notifier notify.Notifier

	// BaseURL is the externally visible portal origin used to build
	// reset links, e.g. "https://portal.example.com".
	BaseURL string
}

func (h *PasswordResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	// Issue and deliver in the background so response timing is identical
	// for known and unknown emails.
	go h.issueAndDeliver(context.WithoutCancel(ctx), req.Email)

	httpx.WriteJSON(w, http.StatusAccepted, AcceptedResponse{Message: resetAcceptedMessage})
}

func (h *PasswordResetRequestHandler) issueAndDeliver(ctx context.Context, email string) {
	log := slogx.FromContext(ctx)

	user, err := h.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, service.ErrUnknownUser) {
			log.Error("reset request lookup failed", slog.Any("error", err))
		}
		return
	}

	token, err := h.Reset.Issue(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue reset token", slog.Any("error", err))
		return
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", h.BaseURL, url.QueryEscape(token))
	if err := h.Notifier.SendPasswordReset(ctx, user.Email, user.Name, resetURL, h.Reset.ValidityPeriod()); err != nil {
		log.Error("failed to deliver reset link",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}
}

type PasswordResetConfirmHandler struct {
	Credentials *service.CredentialService
	Reset       *service.ResetService
}

func (h *PasswordResetConfirmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req PasswordResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}
	if req.Token == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token and new_password are required")
		return
	}

	userID, err := h.Reset.Verify(ctx, req.Token)
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_grant", "Reset token is invalid or expired")
			return
		}
		log.Error("reset confirmation failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to process reset")
		return
	}

	if err := h.Credentials.ResetPassword(ctx, userID, req.NewPassword); err != nil {
		var weak *service.WeakPasswordError
		if errors.As(err, &weak) {
			httpx.WriteError(w, http.StatusBadRequest, "weak_password", weak.Reason)
			return
		}
		log.Error("failed to reset password", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to process reset")
		return
	}

	// Only consume the token once the password actually changed; a weak
	// password attempt must not burn the link.
	if err := h.Reset.Invalidate(ctx, req.Token); err != nil {
		log.Error("failed to invalidate reset token", slog.Any("error", err))
	}

	w.WriteHeader(http.StatusNoContent)
}
