package tictactoe

import "time"

type Phase string

const (
	PhaseNameEntry  Phase = "name_entry"
	PhaseInProgress Phase = "in_progress"
	PhaseTerminal   Phase = "terminal"
)

// Game walks one interactive flow through name entry, play and the final
// result. A Game is not safe for concurrent use; callers serialize access.
type Game struct {
	now     func() time.Time
	session *Session
}

// NewGame returns a game waiting for player names. A nil now uses time.Now.
func NewGame(now func() time.Time) *Game {
	if now == nil {
		now = time.Now
	}
	return &Game{now: now}
}

func (g *Game) Phase() Phase {
	switch {
	case g.session == nil:
		return PhaseNameEntry
	case g.session.Outcome.Terminal():
		return PhaseTerminal
	default:
		return PhaseInProgress
	}
}

// Session returns a copy of the current session and whether one exists.
func (g *Game) Session() (Session, bool) {
	if g.session == nil {
		return Session{}, false
	}
	return *g.session, true
}

// Start leaves name entry once both names are non-blank.
func (g *Game) Start(playerX, playerO string) error {
	if g.session != nil {
		return ErrAlreadyStarted
	}
	s, err := StartSession(playerX, playerO, g.now())
	if err != nil {
		return err
	}
	g.session = &s
	return nil
}

// Move applies a move to the running session. Before Start it does nothing.
func (g *Game) Move(index int) MoveResult {
	if g.session == nil {
		return MoveResult{Index: index}
	}
	return g.session.ApplyMove(index)
}

// Rematch starts a new round between the same players.
func (g *Game) Rematch() error {
	if g.session == nil {
		return ErrNotStarted
	}
	g.session.Rematch(g.now())
	return nil
}

// ResetToNameEntry discards the session; new names are required to play.
func (g *Game) ResetToNameEntry() {
	g.session = nil
}
