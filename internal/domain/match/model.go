package match

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
)

var (
	ErrSamePlayer         = errors.New("hole match players must be distinct")
	ErrWinnerNotInPairing = errors.New("winner is not a player of this hole match")
)

// Match is one four-player round.
type Match struct {
	ID          string
	OwnerID     string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

// Player is a participant of a match. Seat is the creation order (0-3).
type Player struct {
	ID        string
	MatchID   string
	Name      string
	Seat      int
	Scorecard scorecard.Scorecard
}

// Hole is one of the 18 holes of a match with its two head-to-head matchups.
type Hole struct {
	ID      string
	MatchID string
	Number  int
	Matches [PairingsPerHole]HoleMatch
}

// Complete reports whether every matchup on the hole has a recorded outcome.
func (h Hole) Complete() bool {
	for _, hm := range h.Matches {
		if !hm.Outcome.Resolved() {
			return false
		}
	}
	return true
}

// HoleMatch is one head-to-head matchup on a hole.
type HoleMatch struct {
	ID        string
	HoleID    string
	MatchID   string
	Position  int
	Player1ID string
	Player2ID string
	Outcome   Outcome
}

func (hm HoleMatch) Involves(playerID string) bool {
	return playerID != "" && (playerID == hm.Player1ID || playerID == hm.Player2ID)
}

// Opponent returns the other player of the matchup.
func (hm HoleMatch) Opponent(playerID string) (string, bool) {
	switch playerID {
	case hm.Player1ID:
		return hm.Player2ID, true
	case hm.Player2ID:
		return hm.Player1ID, true
	default:
		return "", false
	}
}

func (hm HoleMatch) Validate() error {
	if hm.Player1ID == hm.Player2ID {
		return fmt.Errorf("%w: player=%s", ErrSamePlayer, hm.Player1ID)
	}
	return hm.ValidateOutcome(hm.Outcome)
}

// ValidateOutcome checks that a winner outcome names one of the two players.
func (hm HoleMatch) ValidateOutcome(o Outcome) error {
	switch o.Kind {
	case OutcomeUnset, OutcomeDraw:
		return nil
	case OutcomeWinner:
		if !hm.Involves(o.WinnerID) {
			return fmt.Errorf("%w: winner=%s players=%s,%s", ErrWinnerNotInPairing, o.WinnerID, hm.Player1ID, hm.Player2ID)
		}
		return nil
	default:
		return fmt.Errorf("unknown outcome kind %q", o.Kind)
	}
}

// OutcomeKind tags the state of a hole match.
type OutcomeKind string

const (
	OutcomeUnset  OutcomeKind = ""
	OutcomeDraw   OutcomeKind = "draw"
	OutcomeWinner OutcomeKind = "winner"
)

// Outcome is Unset, Draw, or Winner(WinnerID).
type Outcome struct {
	Kind     OutcomeKind
	WinnerID string
}

func Unset() Outcome {
	return Outcome{Kind: OutcomeUnset}
}

func Draw() Outcome {
	return Outcome{Kind: OutcomeDraw}
}

func WonBy(playerID string) Outcome {
	return Outcome{Kind: OutcomeWinner, WinnerID: playerID}
}

func (o Outcome) Resolved() bool {
	return o.Kind == OutcomeDraw || o.Kind == OutcomeWinner
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeDraw:
		return "draw"
	case OutcomeWinner:
		return "winner:" + o.WinnerID
	default:
		return "unset"
	}
}

// SortPlayersBySeat orders players in place by seat.
func SortPlayersBySeat(players []Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Seat < players[j].Seat
	})
}

// SeatIDs returns the player ids indexed by seat.
func SeatIDs(players []Player) ([PlayerCount]string, error) {
	var seats [PlayerCount]string
	if len(players) != PlayerCount {
		return seats, fmt.Errorf("expected %d players, got %d", PlayerCount, len(players))
	}
	for _, p := range players {
		if p.Seat < 0 || p.Seat >= PlayerCount {
			return seats, fmt.Errorf("player %s has invalid seat %d", p.ID, p.Seat)
		}
		if seats[p.Seat] != "" {
			return seats, fmt.Errorf("seat %d is taken twice", p.Seat)
		}
		seats[p.Seat] = p.ID
	}
	return seats, nil
}
