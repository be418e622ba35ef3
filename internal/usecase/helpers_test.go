package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/cache"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
)

type sequenceIDGenerator struct {
	n atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("id-%03d", g.n.Add(1)), nil
}

type testServices struct {
	store     match.Store
	matches   *MatchService
	holes     *HoleService
	cards     *ScorecardService
	standings *StandingService
}

func newTestServices(t *testing.T, store match.Store) testServices {
	t.Helper()

	if store == nil {
		store = memory.NewMatchStore()
	}
	logger := logging.NewNop()
	standings := NewStandingService(store, cache.NewStore[[]standing.Entry](time.Minute), logger)
	matches := NewMatchService(store, &sequenceIDGenerator{}, standings, logger)
	matches.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }

	return testServices{
		store:     store,
		matches:   matches,
		holes:     NewHoleService(store, standings, logger),
		cards:     NewScorecardService(store, standings, logger),
		standings: standings,
	}
}

// createABCD creates a match for owner-1 with players A, B, C and D in seats 0-3.
func (s testServices) createABCD(t *testing.T) MatchDetail {
	t.Helper()

	detail, err := s.matches.CreateMatch(t.Context(), CreateMatchInput{
		OwnerID:     "owner-1",
		PlayerNames: []string{"A", "B", "C", "D"},
	})
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return detail
}

// resolveHole records a draw on both matchups of a hole.
func (s testServices) resolveHole(t *testing.T, matchID string, number int) {
	t.Helper()

	if _, err := s.holes.RecordHoleOutcomeByNumber(t.Context(), matchID, number, []match.Outcome{match.Draw(), match.Draw()}); err != nil {
		t.Fatalf("resolve hole %d: %v", number, err)
	}
}

func playerByName(t *testing.T, players []match.Player, name string) match.Player {
	t.Helper()

	for _, p := range players {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("player %q not found", name)
	return match.Player{}
}

func entryByName(t *testing.T, entries []standing.Entry, name string) standing.Entry {
	t.Helper()

	for _, e := range entries {
		if e.PlayerName == name {
			return e
		}
	}
	t.Fatalf("standings entry %q not found", name)
	return standing.Entry{}
}

var errInjected = errors.New("injected storage failure")

// faultyStore fails the named unit-of-work write after letting earlier writes through.
type faultyStore struct {
	match.Store
	failOn string
}

func (f faultyStore) WithinTx(ctx context.Context, fn func(ctx context.Context, uow match.UnitOfWork) error) error {
	return f.Store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		return fn(ctx, faultyUnitOfWork{UnitOfWork: uow, failOn: f.failOn})
	})
}

type faultyUnitOfWork struct {
	match.UnitOfWork
	failOn string
}

func (u faultyUnitOfWork) InsertHoles(ctx context.Context, holes []match.Hole) error {
	if u.failOn == "InsertHoles" {
		return errInjected
	}
	return u.UnitOfWork.InsertHoles(ctx, holes)
}

func (u faultyUnitOfWork) InsertStandings(ctx context.Context, rows []standing.Row) error {
	if u.failOn == "InsertStandings" {
		return errInjected
	}
	return u.UnitOfWork.InsertStandings(ctx, rows)
}

func (u faultyUnitOfWork) UpdateScorecard(ctx context.Context, playerID string, card scorecard.Scorecard) error {
	if u.failOn == "UpdateScorecard" {
		return errInjected
	}
	return u.UnitOfWork.UpdateScorecard(ctx, playerID, card)
}

func (u faultyUnitOfWork) UpsertStanding(ctx context.Context, row standing.Row) error {
	if u.failOn == "UpsertStanding" {
		return errInjected
	}
	return u.UnitOfWork.UpsertStanding(ctx, row)
}

func (u faultyUnitOfWork) DeleteMatch(ctx context.Context, matchID string) (bool, error) {
	if u.failOn == "DeleteMatch" {
		return false, errInjected
	}
	return u.UnitOfWork.DeleteMatch(ctx, matchID)
}
