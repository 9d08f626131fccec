package server

import (
	"net/http"

	"github.com/playperu/tictactoe/internal/config"
	"github.com/playperu/tictactoe/internal/matches"
)

type ScoresResponse struct {
	Scores []matches.ScoreRecord `json:"scores"`
}

func handleFeed(rec *matches.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r, rec.FeedLimit(), config.MaxFeedLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rec.Feed(r.Context(), limit))
	}
}

func handleScores(rec *matches.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryLimit(r, rec.FeedLimit(), config.MaxFeedLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, ScoresResponse{
			Scores: rec.FetchRecentScores(r.Context(), limit),
		})
	}
}
