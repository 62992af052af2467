package server

import (
	"net/http"

	"github.com/wolfeidau/assettrack/internal/auth"
	"github.com/wolfeidau/assettrack/internal/store"
)

// Server holds the request handlers for the assettrack API. Stores and the
// token service are injected; handlers keep no mutable state of their own,
// so requests run concurrently without locks and all cross-request
// coordination is left to the storage engine.
type Server struct {
	users  store.UserStore
	assets store.AssetStore
	tokens *auth.Tokens
}

// New creates a new API server.
func New(users store.UserStore, assets store.AssetStore, tokens *auth.Tokens) *Server {
	return &Server{
		users:  users,
		assets: assets,
		tokens: tokens,
	}
}

// Routes returns the API handler. Login and health are public; every asset
// route sits behind the bearer-token middleware, so no asset operation is
// reachable without a verified identity in the context.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	requireAuth := auth.Middleware(s.tokens)
	mux.Handle("GET /assets", requireAuth(http.HandlerFunc(s.handleListAssets)))
	mux.Handle("POST /assets", requireAuth(http.HandlerFunc(s.handleCreateAsset)))
	mux.Handle("PATCH /assets/{id}", requireAuth(http.HandlerFunc(s.handleUpdateAsset)))
	mux.Handle("DELETE /assets/{id}", requireAuth(http.HandlerFunc(s.handleDeleteAsset)))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
