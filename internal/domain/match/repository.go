package match

import (
	"context"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
)

// Reader exposes committed match state.
type Reader interface {
	GetMatch(ctx context.Context, matchID string) (Match, bool, error)
	ListMatchesByOwner(ctx context.Context, ownerID string) ([]Match, error)
	ListMatchIDs(ctx context.Context) ([]string, error)
	GetPlayer(ctx context.Context, playerID string) (Player, bool, error)
	ListPlayers(ctx context.Context, matchID string) ([]Player, error)
	GetHole(ctx context.Context, holeID string) (Hole, bool, error)
	GetHoleByNumber(ctx context.Context, matchID string, holeNumber int) (Hole, bool, error)
	ListHoles(ctx context.Context, matchID string) ([]Hole, error)
	ListStandings(ctx context.Context, matchID string) ([]standing.Row, error)
}

// Writer mutates match state. It is only reachable through a UnitOfWork.
type Writer interface {
	// LockMatch takes the per-match writer lock for the rest of the unit of work.
	LockMatch(ctx context.Context, matchID string) (Match, bool, error)
	InsertMatch(ctx context.Context, m Match) error
	InsertPlayers(ctx context.Context, players []Player) error
	InsertHoles(ctx context.Context, holes []Hole) error
	InsertStandings(ctx context.Context, rows []standing.Row) error
	UpdateScorecard(ctx context.Context, playerID string, card scorecard.Scorecard) error
	UpdateHoleMatchOutcome(ctx context.Context, holeMatchID string, outcome Outcome) error
	UpsertStanding(ctx context.Context, row standing.Row) error
	MarkCompleted(ctx context.Context, m Match) error
	DeleteMatch(ctx context.Context, matchID string) (bool, error)
}

// UnitOfWork sees its own uncommitted writes through the Reader half.
type UnitOfWork interface {
	Reader
	Writer
}

// Store commits everything done inside WithinTx atomically, or nothing when fn returns an error.
type Store interface {
	Reader
	WithinTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
