package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/silverbirch/portal/internal/auth/domain"
	"github.com/silverbirch/portal/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestCreateUserEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", "Adm1n$ecret", domain.RoleAdmin)

	adminToken, err := env.tokens.Sign(admin.ID, admin.Role, false)
	require.NoError(t, err)

	t.Run("requires authentication", func(t *testing.T) {
		resp := env.postJSON(t, "/v1/users", "", CreateUserRequest{
			Email: "new@example.com", Name: "New", Role: domain.RoleClient,
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("requires admin role", func(t *testing.T) {
		client := env.seedUser(t, "client@example.com", "Cl1ent$ecret", domain.RoleClient)
		clientToken, err := env.tokens.Sign(client.ID, client.Role, false)
		require.NoError(t, err)

		resp := env.postJSON(t, "/v1/users", clientToken, CreateUserRequest{
			Email: "new@example.com", Name: "New", Role: domain.RoleClient,
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin on a temporary password is blocked", func(t *testing.T) {
		pendingToken, err := env.tokens.Sign(admin.ID, admin.Role, true)
		require.NoError(t, err)

		resp := env.postJSON(t, "/v1/users", pendingToken, CreateUserRequest{
			Email: "new@example.com", Name: "New", Role: domain.RoleClient,
		})
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("creates user with temporary password", func(t *testing.T) {
		resp := env.postJSON(t, "/v1/users", adminToken, CreateUserRequest{
			Email: "new@example.com", Name: "New User", Role: domain.RoleManager,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body CreateUserResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body.TemporaryPassword, 10)
		require.True(t, body.User.PasswordResetRequired)
		require.Equal(t, "new@example.com", body.User.Email)

		// The notifier received the same plaintext.
		require.Equal(t, body.TemporaryPassword, <-env.notifier.tempPwds)

		// New user can log in with it and is flagged for a change.
		login := env.postJSON(t, "/v1/auth/login", "", LoginRequest{
			Email:    "new@example.com",
			Password: body.TemporaryPassword,
		})
		require.Equal(t, http.StatusOK, login.StatusCode)

		var loginBody LoginResponse
		require.NoError(t, json.NewDecoder(login.Body).Decode(&loginBody))
		require.True(t, loginBody.PasswordResetRequired)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		resp := env.postJSON(t, "/v1/users", adminToken, CreateUserRequest{
			Email: "new@example.com", Name: "Dup", Role: domain.RoleClient,
		})
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestReissueTemporaryPasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.seedUser(t, "admin@example.com", "Adm1n$ecret", domain.RoleAdmin)
	target := env.seedUser(t, "bob@example.com", "Sup3r$ecret", domain.RoleClient)

	adminToken, err := env.tokens.Sign(admin.ID, admin.Role, false)
	require.NoError(t, err)

	resp := env.postJSON(t, "/v1/users/"+target.ID+"/temporary-password", adminToken, struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body CreateUserResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.TemporaryPassword, 10)
	require.True(t, body.User.PasswordResetRequired)

	// Old password is dead, the temporary one works.
	login := env.postJSON(t, "/v1/auth/login", "", LoginRequest{Email: "bob@example.com", Password: "Sup3r$ecret"})
	require.Equal(t, http.StatusUnauthorized, login.StatusCode)

	login = env.postJSON(t, "/v1/auth/login", "", LoginRequest{Email: "bob@example.com", Password: body.TemporaryPassword})
	require.Equal(t, http.StatusOK, login.StatusCode)

	t.Run("unknown user", func(t *testing.T) {
		resp := env.postJSON(t, "/v1/users/"+idx.New().String()+"/temporary-password", adminToken, struct{}{})
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser(t, "carol@example.com", "Sup3r$ecret", domain.RoleClient)

	token, err := env.tokens.Sign(user.ID, user.Role, true)
	require.NoError(t, err)

	t.Run("reachable while reset is pending", func(t *testing.T) {
		resp := env.postJSON(t, "/v1/auth/password", token, ChangePasswordRequest{
			CurrentPassword: "Sup3r$ecret",
			NewPassword:     "N3w$tronger",
		})
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("wrong current password", func(t *testing.T) {
		resp := env.postJSON(t, "/v1/auth/password", token, ChangePasswordRequest{
			CurrentPassword: "Sup3r$ecret",
			NewPassword:     "Anoth3r$one",
		})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
