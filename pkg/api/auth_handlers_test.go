package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidecast/slidecast/pkg/auth"
)

// TestRegisterEndpoint verifies account creation over HTTP
func TestRegisterEndpoint(t *testing.T) {
	ts := newTestServer(t)

	t.Run("creates account and session", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/register", "", map[string]string{
			"email": "alice@example.com", "password": "secret123", "name": "Alice",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		var session auth.Session
		decodeBody(t, rec, &session)
		assert.Equal(t, "alice@example.com", session.User.Email)
		assert.Equal(t, auth.RoleUser, session.User.Role)
		assert.NotEmpty(t, session.Token)
		assert.NotContains(t, rec.Body.String(), "password", "hash must never leave the server")
	})

	t.Run("duplicate email is 409", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/register", "", map[string]string{
			"email": "alice@example.com", "password": "other456", "name": "Imposter",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing fields is 400", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/register", "", map[string]string{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/register", "", "not an object")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

// TestLoginEndpoint verifies credential checks over HTTP
func TestLoginEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.registerUser(t, "alice@example.com", "Alice")

	t.Run("valid credentials", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "secret123",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var session auth.Session
		decodeBody(t, rec, &session)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown email is 401", func(t *testing.T) {
		rec := ts.do(t, "POST", "/api/auth/login", "", map[string]string{
			"email": "nobody@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// TestProfileEndpoint verifies the authenticated profile read
func TestProfileEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token, userID := ts.registerUser(t, "alice@example.com", "Alice")

	t.Run("authenticated", func(t *testing.T) {
		rec := ts.do(t, "GET", "/api/auth/profile", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			User auth.Profile `json:"user"`
		}
		decodeBody(t, rec, &body)
		assert.Equal(t, userID, body.User.ID)
	})

	t.Run("no token is 401", func(t *testing.T) {
		rec := ts.do(t, "GET", "/api/auth/profile", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token is 403", func(t *testing.T) {
		rec := ts.do(t, "GET", "/api/auth/profile", "garbage", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

// TestRefreshEndpoint verifies token re-issuance over HTTP
func TestRefreshEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token, _ := ts.registerUser(t, "alice@example.com", "Alice")

	rec := ts.do(t, "POST", "/api/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var session auth.Session
	decodeBody(t, rec, &session)
	assert.NotEmpty(t, session.Token)

	rec = ts.do(t, "POST", "/api/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
