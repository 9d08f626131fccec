package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// nextEvent reads one SSE message and returns its event name and data.
func nextEvent(t *testing.T, sc *bufio.Scanner) (string, string) {
	t.Helper()
	var event, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "" && data != "":
			return event, data
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
	t.Fatalf("stream ended: %v", sc.Err())
	return "", ""
}

func TestFeedEventsPublishedAfterRecording(t *testing.T) {
	env := newTestEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/matches/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content-type = %q", got)
	}

	sc := bufio.NewScanner(resp.Body)
	event, data := nextEvent(t, sc)
	var initial FeedEvent
	if err := json.Unmarshal([]byte(data), &initial); err != nil {
		t.Fatalf("decode initial: %v", err)
	}
	if event != "feed" || len(initial.Feed.Matches) != 0 {
		t.Fatalf("initial event = %s %+v", event, initial)
	}

	id := env.createGame(t)
	env.startGame(t, id, "Alice", "Bob")
	for _, i := range []int{0, 3, 1, 4, 2} {
		env.move(t, id, i)
	}

	event, data = nextEvent(t, sc)
	var update FeedEvent
	if err := json.Unmarshal([]byte(data), &update); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if event != "feed" || update.Type != "feed" {
		t.Errorf("event = %q type = %q, want feed", event, update.Type)
	}
	if len(update.Feed.Matches) != 1 || update.Feed.Matches[0].Winner != "X" {
		t.Errorf("update matches = %+v, want one X win", update.Feed.Matches)
	}
}
