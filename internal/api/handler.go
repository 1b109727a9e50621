package api

import (
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"labreserva-backend/internal/auth"
	"labreserva-backend/internal/store"
)

// Handler holds shared dependencies for API handlers. Nothing here is
// ambient: the store, the token issuer, and the logger are all injected at
// construction.
type Handler struct {
	store  store.Store
	tokens *auth.Tokens
	cache  *cache.Cache
	log    *zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, tokens *auth.Tokens, cacheStore *cache.Cache, log *zerolog.Logger) *Handler {
	return &Handler{
		store:  s,
		tokens: tokens,
		cache:  cacheStore,
		log:    log,
	}
}
