package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geodesk/spatial-api/internal/auth"
	"github.com/geodesk/spatial-api/internal/services/servicestest"
)

func newUserHandler() (*UserHandler, *servicestest.FakeUserService, *auth.TokenService) {
	users := servicestest.NewFakeUserService()
	tokens := auth.NewTokenService("test-secret", time.Hour)
	return NewUserHandler(users, tokens), users, tokens
}

func TestRegister(t *testing.T) {
	t.Parallel()

	handler, users, _ := newUserHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register",
		strings.NewReader(`{"username":"apitestuser","password":"apitestpass"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "apitestuser", body["username"])
	assert.EqualValues(t, 1, body["id"])
	assert.NotContains(t, body, "hashed_password")
	assert.Equal(t, 1, users.Count())
}

func TestRegister_Duplicate(t *testing.T) {
	t.Parallel()

	handler, users, _ := newUserHandler()
	for i, wantCode := range []int{http.StatusCreated, http.StatusBadRequest} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/register",
			strings.NewReader(`{"username":"apitestuser","password":"apitestpass"}`))
		rec := httptest.NewRecorder()
		handler.Register(rec, req)
		assert.Equal(t, wantCode, rec.Code, "attempt %d", i+1)
	}
	assert.Equal(t, 1, users.Count(), "duplicate registration must not add a user")
}

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	handler, _, _ := newUserHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register",
		strings.NewReader(`{"username":"apitestuser"}`))
	rec := httptest.NewRecorder()
	handler.Register(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestToken(t *testing.T) {
	t.Parallel()

	handler, users, tokens := newUserHandler()
	_, err := users.Register(context.Background(), "apitestuser", "apitestpass")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/token",
		strings.NewReader(`{"username":"apitestuser","password":"apitestpass"}`))
	rec := httptest.NewRecorder()
	handler.Token(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "bearer", body["token_type"])

	subject, err := tokens.Validate(body["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, "apitestuser", subject)
}

func TestToken_FormEncoded(t *testing.T) {
	t.Parallel()

	handler, users, _ := newUserHandler()
	_, err := users.Register(context.Background(), "apitestuser", "apitestpass")
	require.NoError(t, err)

	form := url.Values{"username": {"apitestuser"}, "password": {"apitestpass"}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.Token(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToken_BadCredentials(t *testing.T) {
	t.Parallel()

	handler, users, _ := newUserHandler()
	_, err := users.Register(context.Background(), "apitestuser", "apitestpass")
	require.NoError(t, err)

	for name, body := range map[string]string{
		"wrong password": `{"username":"apitestuser","password":"nope"}`,
		"unknown user":   `{"username":"ghost","password":"apitestpass"}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/token", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.Token(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
