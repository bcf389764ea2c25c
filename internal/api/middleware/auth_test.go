package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	userID string
	err    error
}

func (s *stubValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	return s.userID, s.err
}

func echoUserHandler() (http.Handler, *string) {
	var seen string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	return h, &seen
}

func TestUserAuth_ValidToken(t *testing.T) {
	next, seen := echoUserHandler()
	handler := UserAuth(&stubValidator{userID: "user-1"})(next)

	req := httptest.NewRequest("GET", "/workspaces", nil)
	req.Header.Set("Authorization", "Bearer cpd_abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", *seen, "user id must flow through the request context")
}

func TestUserAuth_MissingHeader(t *testing.T) {
	next, _ := echoUserHandler()
	handler := UserAuth(&stubValidator{userID: "user-1"})(next)

	req := httptest.NewRequest("GET", "/workspaces", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuth_NonBearerScheme(t *testing.T) {
	next, _ := echoUserHandler()
	handler := UserAuth(&stubValidator{userID: "user-1"})(next)

	req := httptest.NewRequest("GET", "/workspaces", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserAuth_InvalidToken(t *testing.T) {
	next, seen := echoUserHandler()
	handler := UserAuth(&stubValidator{err: errors.New("unknown api token")})(next)

	req := httptest.NewRequest("GET", "/workspaces", nil)
	req.Header.Set("Authorization", "Bearer cpd_wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, *seen)
}

func TestGetUserID_MissingValue(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}
