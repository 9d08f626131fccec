package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/tictactoe/internal/matches"
	"github.com/playperu/tictactoe/internal/tictactoe"
)

// PlayFrame is written to the socket: once with type "state" on connect,
// then once per inbound frame with type "move" or "error".
type PlayFrame struct {
	Type     string        `json:"type"`
	Accepted bool          `json:"accepted,omitempty"`
	Game     *GameResponse `json:"game,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// handlePlay accepts {"index": n} frames for one game and answers each with
// the resulting game state.
func handlePlay(logger *slog.Logger, games *Registry, rec *matches.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := gameIDFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		var state GameResponse
		if err := games.With(id, func(g *tictactoe.Game) error {
			state = gameResponse(id, g)
			return nil
		}); err != nil {
			conn.Close(websocket.StatusPolicyViolation, "game not found")
			return
		}
		if err := wsjson.Write(ctx, conn, PlayFrame{Type: "state", Game: &state}); err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}

		for {
			_, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "game_id", id, "error", err)
				return
			}

			frame := playFrame(ctx, games, rec, id, msg)
			if err := wsjson.Write(ctx, conn, frame); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
			if frame.Error == "game not found" {
				conn.Close(websocket.StatusNormalClosure, "game removed")
				return
			}
		}
	}
}

func playFrame(ctx context.Context, games *Registry, rec *matches.Recorder, id string, msg []byte) PlayFrame {
	var req MoveRequest
	if err := json.Unmarshal(msg, &req); err != nil || req.Index == nil {
		return PlayFrame{Type: "error", Error: "index is required"}
	}

	resp, err := playMove(ctx, games, rec, id, *req.Index)
	if errors.Is(err, ErrNotFound) {
		return PlayFrame{Type: "error", Error: "game not found"}
	}
	return PlayFrame{Type: "move", Accepted: resp.Accepted, Game: &resp.Game}
}
