package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/isdelr/hrdesk-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Register(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", RegisterPayload{Username: "alice", Password: "pw1", Email: "a@x.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "password")

	user := decode[models.User](t, rec)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)

	rec = env.do(t, http.MethodPost, "/register", RegisterPayload{Username: "alice", Password: "pw2", Email: "b@y.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already registered")
}

func TestUserHandler_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/register", RegisterPayload{Username: "", Password: "pw1", Email: "not-an-email"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode[map[string]map[string]string](t, rec)
	assert.Contains(t, body["errors"], "username")
	assert.Contains(t, body["errors"], "email")
	assert.NotContains(t, body["errors"], "password")

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	bad := httptest.NewRecorder()
	env.router.ServeHTTP(bad, req)
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestUserHandler_LoginForm(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Register(ctx(), "alice", "pw1", "a@x.com")
	require.NoError(t, err)

	form := url.Values{"username": {"alice"}, "password": {"pw1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := decode[TokenResponse](t, rec)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	user, err := env.users.ResolveToken(ctx(), token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func TestUserHandler_LoginJSON(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Register(ctx(), "alice", "pw1", "a@x.com")
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/login", LoginPayload{Username: "alice", Password: "pw1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[TokenResponse](t, rec).AccessToken)
}

func TestUserHandler_LoginFailuresLookAlike(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.Register(ctx(), "alice", "pw1", "a@x.com")
	require.NoError(t, err)

	wrongPassword := env.do(t, http.MethodPost, "/login", LoginPayload{Username: "alice", Password: "wrong"})
	unknownUser := env.do(t, http.MethodPost, "/login", LoginPayload{Username: "bob", Password: "anything"})

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownUser} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestUserHandler_LoginMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/login", LoginPayload{Username: "alice"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUserHandler_GetMe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[models.User](t, rec).Username)
}

func TestUserHandler_GetMeWithoutUser(t *testing.T) {
	h := NewUserHandler(nil)
	rec := httptest.NewRecorder()
	h.GetMe(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_RegisterPasswordByteLimit(t *testing.T) {
	env := newTestEnv(t)

	// 25 three-byte runes: short in characters, over the limit in bytes.
	rec := env.do(t, http.MethodPost, "/register", RegisterPayload{Username: "alice", Password: strings.Repeat("€", 25), Email: "a@x.com"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[map[string]map[string]string](t, rec)["errors"], "password")

	rec = env.do(t, http.MethodPost, "/register", RegisterPayload{Username: "alice", Password: strings.Repeat("a", 72), Email: "a@x.com"})
	assert.Equal(t, http.StatusCreated, rec.Code)
}
