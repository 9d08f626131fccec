package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/playperu/tictactoe/internal/matches"
	"github.com/playperu/tictactoe/internal/tictactoe"
)

type GameResponse struct {
	ID      string             `json:"id"`
	Phase   tictactoe.Phase    `json:"phase"`
	Session *tictactoe.Session `json:"session"`

	// WinnerName is the winner's display name, "draw", or empty while playing.
	WinnerName string `json:"winnerName,omitempty"`
}

type StartRequest struct {
	PlayerXName string `json:"playerXName"`
	PlayerOName string `json:"playerOName"`
}

type MoveRequest struct {
	Index *int `json:"index"`
}

type MoveResponse struct {
	Accepted bool         `json:"accepted"`
	Game     GameResponse `json:"game"`
}

func gameResponse(id string, g *tictactoe.Game) GameResponse {
	resp := GameResponse{ID: id, Phase: g.Phase()}
	s, ok := g.Session()
	if !ok {
		return resp
	}
	resp.Session = &s
	if s.Outcome.Terminal() {
		resp.WinnerName = matches.WinnerDraw
		if m := s.Outcome.Winner(); m != tictactoe.Empty {
			resp.WinnerName = s.NameFor(m)
		}
	}
	return resp
}

// playMove applies index to the game and hands the session to the recorder
// when the move ends the round.
func playMove(ctx context.Context, games *Registry, rec *matches.Recorder, id string, index int) (MoveResponse, error) {
	var (
		resp     MoveResponse
		finished bool
		snapshot tictactoe.Session
	)
	err := games.With(id, func(g *tictactoe.Game) error {
		res := g.Move(index)
		resp = MoveResponse{Accepted: res.Accepted, Game: gameResponse(id, g)}
		if res.Finished() {
			finished = true
			snapshot, _ = g.Session()
		}
		return nil
	})
	if err != nil {
		return MoveResponse{}, err
	}

	if finished {
		rec.RecordCompletedGame(ctx, snapshot)
	}
	return resp, nil
}

func handleCreateGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := games.Create()

		var resp GameResponse
		games.With(id, func(g *tictactoe.Game) error {
			resp = gameResponse(id, g)
			return nil
		})
		writeJSON(w, http.StatusCreated, resp)
	}
}

func handleGetGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameIDFrom(r)

		var resp GameResponse
		err := games.With(id, func(g *tictactoe.Game) error {
			resp = gameResponse(id, g)
			return nil
		})
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleStartGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id := gameIDFrom(r)
		var resp GameResponse
		err := games.With(id, func(g *tictactoe.Game) error {
			if err := g.Start(req.PlayerXName, req.PlayerOName); err != nil {
				return err
			}
			resp = gameResponse(id, g)
			return nil
		})
		switch {
		case errors.Is(err, tictactoe.ErrBlankName):
			writeError(w, http.StatusBadRequest, "playerXName and playerOName are required")
		case errors.Is(err, tictactoe.ErrAlreadyStarted):
			writeError(w, http.StatusConflict, "game already started")
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "game not found")
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
		default:
			writeJSON(w, http.StatusOK, resp)
		}
	}
}

func handleMove(games *Registry, rec *matches.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MoveRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Index == nil {
			writeError(w, http.StatusBadRequest, "index is required")
			return
		}

		resp, err := playMove(r.Context(), games, rec, gameIDFrom(r), *req.Index)
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleRematch(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameIDFrom(r)

		var resp GameResponse
		err := games.With(id, func(g *tictactoe.Game) error {
			if err := g.Rematch(); err != nil {
				return err
			}
			resp = gameResponse(id, g)
			return nil
		})
		switch {
		case errors.Is(err, tictactoe.ErrNotStarted):
			writeError(w, http.StatusConflict, "game not started")
		case err != nil:
			writeError(w, http.StatusNotFound, "game not found")
		default:
			writeJSON(w, http.StatusOK, resp)
		}
	}
}

func handleReset(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameIDFrom(r)

		var resp GameResponse
		err := games.With(id, func(g *tictactoe.Game) error {
			g.ResetToNameEntry()
			resp = gameResponse(id, g)
			return nil
		})
		if err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleDeleteGame(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := games.Delete(gameIDFrom(r)); err != nil {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
