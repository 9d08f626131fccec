package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ctxKey int

const ctxKeyGameID ctxKey = iota

// gameMiddleware resolves {gameID} against the registry and rejects unknown
// games before the handler runs.
func gameMiddleware(games *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "gameID")
			if id == "" || !games.Exists(id) {
				writeError(w, http.StatusNotFound, "game not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyGameID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func gameIDFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyGameID).(string)
}
