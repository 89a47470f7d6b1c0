package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/internal/auth/notify"
	"github.com/silverbirch/portal/internal/auth/service"
	"github.com/silverbirch/portal/pkg/httpx"
	"github.com/silverbirch/portal/pkg/slogx"
)

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Name:                  u.Name,
		Role:                  u.Role,
		PasswordResetRequired: u.PasswordResetRequired,
		CreatedAt:             u.CreatedAt,
	}
}

// CreateUserHandler provisions a new account with a generated temporary
// password. Admin only.
type CreateUserHandler struct {
	Users    *service.UserService
	Notifier notify.Notifier
}

func (h *CreateUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed JSON body")
		return
	}
	if req.Email == "" || req.Name == "" || req.Role == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email, name and role are required")
		return
	}

	user, tempPassword, err := h.Users.CreateUser(ctx, req.Email, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "role must be admin, manager or client")
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "An account with that email already exists")
		default:
			log.Error("failed to create user", slog.Any("error", err))
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to create user")
		}
		return
	}

	// Delivery is best-effort; the admin still receives the plaintext in
	// the response body.
	if err := h.Notifier.SendTemporaryPassword(ctx, user.Email, user.Name, tempPassword); err != nil {
		log.Warn("failed to deliver temporary password",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	httpx.WriteJSON(w, http.StatusCreated, CreateUserResponse{
		User:              toUserResponse(user),
		TemporaryPassword: tempPassword,
	})
}

// ReissueTemporaryPasswordHandler replaces an account's credential with a
// fresh temporary password. Admin only.
type ReissueTemporaryPasswordHandler struct {
	Users    *service.UserService
	Notifier notify.Notifier
}

func (h *ReissueTemporaryPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("id")
	if userID == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "user id is required")
		return
	}

	user, tempPassword, err := h.Users.ReissueTemporaryPassword(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUnknownUser) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "No such user")
			return
		}
		log.Error("failed to reissue temporary password", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Failed to reissue temporary password")
		return
	}

	if err := h.Notifier.SendTemporaryPassword(ctx, user.Email, user.Name, tempPassword); err != nil {
		log.Warn("failed to deliver temporary password",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	httpx.WriteJSON(w, http.StatusOK, CreateUserResponse{
		User:              toUserResponse(user),
		TemporaryPassword: tempPassword,
	})
}
