package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/tictactoe/internal/matches"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency to {"status": "ok"|"error"}.
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

type gamePath struct {
	GameID string `path:"gameID"`
}

type limitQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"100"`
}

type startRequestDoc struct {
	gamePath
	StartRequest
}

type moveRequestDoc struct {
	gamePath
	MoveRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Tic-Tac-Toe API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Two-player tic-tac-toe with a recent-matches feed.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Create game")
	createGame.SetDescription("Registers a new game in the name entry phase.")
	createGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	_ = r.AddOperation(createGame)

	// GET /api/games/{gameID}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{gameID}")
	getGame.SetSummary("Get game")
	getGame.AddReqStructure(gamePath{})
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{gameID}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{gameID}")
	deleteGame.SetSummary("Delete game")
	deleteGame.AddReqStructure(gamePath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/{gameID}/start
	startGame, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/start")
	startGame.SetSummary("Start game")
	startGame.SetDescription("Sets both player names and starts a round with X to move.")
	startGame.AddReqStructure(startRequestDoc{})
	startGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	startGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(startGame)

	// POST /api/games/{gameID}/moves
	move, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/moves")
	move.SetSummary("Play move")
	move.SetDescription("Places the current mark at index 0-8. Invalid moves are ignored and reported with accepted=false.")
	move.AddReqStructure(moveRequestDoc{})
	move.AddRespStructure(MoveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	move.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	move.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(move)

	// POST /api/games/{gameID}/rematch
	rematch, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/rematch")
	rematch.SetSummary("Rematch")
	rematch.SetDescription("Clears the board and keeps the player names.")
	rematch.AddReqStructure(gamePath{})
	rematch.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	rematch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	rematch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(rematch)

	// POST /api/games/{gameID}/reset
	reset, _ := r.NewOperationContext(http.MethodPost, "/api/games/{gameID}/reset")
	reset.SetSummary("Back to name entry")
	reset.AddReqStructure(gamePath{})
	reset.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	reset.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(reset)

	// GET /api/matches
	feed, _ := r.NewOperationContext(http.MethodGet, "/api/matches")
	feed.SetSummary("Recent matches")
	feed.SetDescription("Most recent recorded games, newest first.")
	feed.AddReqStructure(limitQuery{})
	feed.AddRespStructure(matches.Feed{}, openapi.WithHTTPStatus(http.StatusOK))
	feed.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(feed)

	// GET /api/matches/events
	feedEvents, _ := r.NewOperationContext(http.MethodGet, "/api/matches/events")
	feedEvents.SetSummary("Feed event stream")
	feedEvents.SetDescription("Server-Sent Events stream; emits a feed event on connect and after every recorded game.")
	feedEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(feedEvents)

	// GET /api/scores
	scores, _ := r.NewOperationContext(http.MethodGet, "/api/scores")
	scores.SetSummary("Recent scores")
	scores.SetDescription("Per-match score rows with player names, moves and duration.")
	scores.AddReqStructure(limitQuery{})
	scores.AddRespStructure(ScoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	scores.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(scores)

	// GET /ws/games/{gameID}
	play, _ := r.NewOperationContext(http.MethodGet, "/ws/games/{gameID}")
	play.SetSummary("Play over WebSocket")
	play.SetDescription(`Upgrades to a WebSocket. Send {"index": n} frames; each is answered with a PlayFrame.`)
	play.AddReqStructure(gamePath{})
	play.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("application/json"))
	play.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(play)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
