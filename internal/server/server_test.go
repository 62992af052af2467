package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/assettrack/internal/auth"
	"github.com/wolfeidau/assettrack/internal/models"
	"github.com/wolfeidau/assettrack/internal/store/memory"
)

type testEnv struct {
	handler http.Handler
	users   *memory.UserStore
	assets  *memory.AssetStore
	tokens  *auth.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokens([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	users := memory.NewUserStore()
	assets := memory.NewAssetStore()

	srv := New(users, assets, tokens)

	return &testEnv{
		handler: srv.Routes(),
		users:   users,
		assets:  assets,
		tokens:  tokens,
	}
}

// seedUser creates a user in a fresh organization and returns it alongside
// a valid bearer token for that user.
func (e *testEnv) seedUser(t *testing.T, email, password string) (*models.User, string) {
	t.Helper()

	digest, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		UserID:         uuid.Must(uuid.NewV7()),
		OrgID:          uuid.Must(uuid.NewV7()),
		Email:          email,
		PasswordDigest: digest,
		Role:           models.RoleMember,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	require.NoError(t, e.users.Create(context.Background(), user))

	token, err := e.tokens.Issue(user.UserID, user.OrgID)
	require.NoError(t, err)

	return user, token
}

// do runs a request through the full route table, including the auth
// middleware, and returns the recorded response.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeAsset(t *testing.T, rec *httptest.ResponseRecorder) *models.Asset {
	t.Helper()
	var asset models.Asset
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &asset))
	return &asset
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
