package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	broker := NewBroker()
	deps.Recorder.OnRecorded = broker.PublishFeed

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Tic-Tac-Toe API", "/openapi.json", "/docs"))

	r.Post("/api/games", handleCreateGame(deps.Games))
	r.Route("/api/games/{gameID}", func(r chi.Router) {
		r.Use(gameMiddleware(deps.Games))
		r.Get("/", handleGetGame(deps.Games))
		r.Delete("/", handleDeleteGame(deps.Games))
		r.Post("/start", handleStartGame(deps.Games))
		r.Post("/moves", handleMove(deps.Games, deps.Recorder))
		r.Post("/rematch", handleRematch(deps.Games))
		r.Post("/reset", handleReset(deps.Games))
	})

	r.Get("/api/matches", handleFeed(deps.Recorder))
	r.Get("/api/matches/events", handleFeedEvents(broker, deps.Recorder))
	r.Get("/api/scores", handleScores(deps.Recorder))

	r.With(gameMiddleware(deps.Games)).Get("/ws/games/{gameID}", handlePlay(logger, deps.Games, deps.Recorder))

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
