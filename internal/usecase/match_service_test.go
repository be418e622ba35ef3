package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/repository/memory"
)

func TestMatchService_CreateMatch_BuildsPlayersHolesAndStandings(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	ctx := t.Context()

	detail, err := svc.matches.CreateMatch(ctx, CreateMatchInput{
		OwnerID:     "owner-1",
		PlayerNames: []string{"  Ann ", "Bob", "Cid", "Dee"},
	})
	require.NoError(t, err)
	require.Len(t, detail.Players, match.PlayerCount)
	assert.Equal(t, "Ann", detail.Players[0].Name, "names are stored trimmed")
	assert.False(t, detail.Match.Completed)

	holes, err := svc.store.ListHoles(ctx, detail.Match.ID)
	require.NoError(t, err)
	require.Len(t, holes, scorecard.HoleCount)

	seats, err := match.SeatIDs(detail.Players)
	require.NoError(t, err)
	for _, h := range holes {
		pairings, err := match.PairingsForHole(h.Number)
		require.NoError(t, err)
		for i, p := range pairings {
			assert.Equal(t, seats[p.SeatA], h.Matches[i].Player1ID, "hole %d position %d", h.Number, i)
			assert.Equal(t, seats[p.SeatB], h.Matches[i].Player2ID, "hole %d position %d", h.Number, i)
			assert.False(t, h.Matches[i].Outcome.Resolved())
		}
	}

	rows, err := svc.store.ListStandings(ctx, detail.Match.ID)
	require.NoError(t, err)
	require.Len(t, rows, match.PlayerCount)
	for _, row := range rows {
		assert.Zero(t, row.Thru)
		assert.Zero(t, row.Points)
	}
}

func TestMatchService_CreateMatch_HoleOnePairsAWithBAndCWithD(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	detail := svc.createABCD(t)

	view, err := svc.holes.GetHoleView(t.Context(), detail.Match.ID, 1)
	require.NoError(t, err)

	a := playerByName(t, detail.Players, "A")
	b := playerByName(t, detail.Players, "B")
	c := playerByName(t, detail.Players, "C")
	d := playerByName(t, detail.Players, "D")
	assert.Equal(t, [2]string{a.ID, b.ID}, [2]string{view.Hole.Matches[0].Player1ID, view.Hole.Matches[0].Player2ID})
	assert.Equal(t, [2]string{c.ID, d.ID}, [2]string{view.Hole.Matches[1].Player1ID, view.Hole.Matches[1].Player2ID})
}

func TestMatchService_CreateMatch_RejectsInvalidInputWithoutSideEffects(t *testing.T) {
	t.Parallel()

	cases := map[string]CreateMatchInput{
		"three names":   {OwnerID: "owner-1", PlayerNames: []string{"A", "B", "C"}},
		"five names":    {OwnerID: "owner-1", PlayerNames: []string{"A", "B", "C", "D", "E"}},
		"blank name":    {OwnerID: "owner-1", PlayerNames: []string{"A", "   ", "C", "D"}},
		"empty name":    {OwnerID: "owner-1", PlayerNames: []string{"A", "B", "", "D"}},
		"missing owner": {OwnerID: " ", PlayerNames: []string{"A", "B", "C", "D"}},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			store := memory.NewMatchStore()
			svc := newTestServices(t, store)

			_, err := svc.matches.CreateMatch(t.Context(), input)
			require.ErrorIs(t, err, ErrInvalidInput)

			ids, err := store.ListMatchIDs(t.Context())
			require.NoError(t, err)
			assert.Empty(t, ids)
		})
	}
}

func TestMatchService_CreateMatch_RollsBackOnStorageFailure(t *testing.T) {
	t.Parallel()

	for _, failOn := range []string{"InsertHoles", "InsertStandings"} {
		t.Run(failOn, func(t *testing.T) {
			t.Parallel()

			base := memory.NewMatchStore()
			svc := newTestServices(t, faultyStore{Store: base, failOn: failOn})

			_, err := svc.matches.CreateMatch(t.Context(), CreateMatchInput{
				OwnerID:     "owner-1",
				PlayerNames: []string{"A", "B", "C", "D"},
			})
			require.ErrorIs(t, err, ErrStorageFailure)
			require.ErrorIs(t, err, errInjected)
			assert.Contains(t, err.Error(), "failed to create match")

			ids, err := base.ListMatchIDs(t.Context())
			require.NoError(t, err)
			assert.Empty(t, ids, "no partial match may be visible")
			players, err := base.ListPlayers(t.Context(), "id-001")
			require.NoError(t, err)
			assert.Empty(t, players)
		})
	}
}

func TestMatchService_DeleteMatch(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	ctx := t.Context()
	detail := svc.createABCD(t)
	other := svc.createABCD(t)

	deleted, err := svc.matches.DeleteMatch(ctx, detail.Match.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok, err := svc.store.GetMatch(ctx, detail.Match.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	holes, _ := svc.store.ListHoles(ctx, detail.Match.ID)
	assert.Empty(t, holes)
	players, _ := svc.store.ListPlayers(ctx, detail.Match.ID)
	assert.Empty(t, players)
	rows, _ := svc.store.ListStandings(ctx, detail.Match.ID)
	assert.Empty(t, rows)

	holes, _ = svc.store.ListHoles(ctx, other.Match.ID)
	assert.Len(t, holes, scorecard.HoleCount)

	deleted, err = svc.matches.DeleteMatch(ctx, detail.Match.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "deleting twice reports nothing deleted")

	_, err = svc.standings.FormattedStandings(ctx, detail.Match.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchService_DeleteMatch_StorageFailureKeepsMatch(t *testing.T) {
	t.Parallel()

	base := memory.NewMatchStore()
	detail := newTestServices(t, base).createABCD(t)
	svc := newTestServices(t, faultyStore{Store: base, failOn: "DeleteMatch"})

	_, err := svc.matches.DeleteMatch(t.Context(), detail.Match.ID)
	require.ErrorIs(t, err, ErrStorageFailure)
	assert.Contains(t, err.Error(), "failed to delete match")

	_, ok, err := base.GetMatch(t.Context(), detail.Match.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMatchService_GetMatch_IsOwnerScoped(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	detail := svc.createABCD(t)

	got, err := svc.matches.GetMatch(t.Context(), "owner-1", detail.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, detail.Match.ID, got.Match.ID)
	require.Len(t, got.Players, match.PlayerCount)
	assert.Equal(t, "A", got.Players[0].Name)
	assert.Equal(t, "D", got.Players[3].Name)

	_, err = svc.matches.GetMatch(t.Context(), "owner-2", detail.Match.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.matches.GetMatch(t.Context(), "owner-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchService_ListMatches_NewestFirst(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.matches.now = func() time.Time { return now }
	first := svc.createABCD(t)
	now = now.Add(time.Hour)
	second := svc.createABCD(t)

	items, err := svc.matches.ListMatches(t.Context(), "owner-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.Match.ID, items[0].ID)
	assert.Equal(t, first.Match.ID, items[1].ID)

	items, err = svc.matches.ListMatches(t.Context(), "owner-2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMatchService_FirstIncompleteHole_Progresses(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	ctx := t.Context()
	detail := svc.createABCD(t)

	hole, open, err := svc.matches.FirstIncompleteHole(ctx, detail.Match.ID)
	require.NoError(t, err)
	require.True(t, open)
	assert.Equal(t, 1, hole.Number)

	svc.resolveHole(t, detail.Match.ID, 1)
	hole, open, err = svc.matches.FirstIncompleteHole(ctx, detail.Match.ID)
	require.NoError(t, err)
	require.True(t, open)
	assert.Equal(t, 2, hole.Number)

	for n := 2; n <= scorecard.HoleCount; n++ {
		svc.resolveHole(t, detail.Match.ID, n)
	}
	_, open, err = svc.matches.FirstIncompleteHole(ctx, detail.Match.ID)
	require.NoError(t, err)
	assert.False(t, open)

	_, _, err = svc.matches.FirstIncompleteHole(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMatchService_FirstIncompleteHole_HalfResolvedHoleIsOpen(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	detail := svc.createABCD(t)
	a := playerByName(t, detail.Players, "A")

	_, err := svc.holes.RecordHoleOutcomeByNumber(t.Context(), detail.Match.ID, 1, []match.Outcome{match.WonBy(a.ID), match.Unset()})
	require.NoError(t, err)

	hole, open, err := svc.matches.FirstIncompleteHole(t.Context(), detail.Match.ID)
	require.NoError(t, err)
	require.True(t, open)
	assert.Equal(t, 1, hole.Number)
}

func TestMatchService_FinishMatch_GatesOnOpenHole(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	ctx := t.Context()
	detail := svc.createABCD(t)
	for n := 1; n <= scorecard.HoleCount; n++ {
		if n == 5 {
			continue
		}
		svc.resolveHole(t, detail.Match.ID, n)
	}

	_, err := svc.matches.FinishMatch(ctx, detail.Match.ID)
	require.ErrorIs(t, err, ErrConflict)
	var incomplete *IncompleteHoleError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 5, incomplete.HoleNumber)

	m, _, _ := svc.store.GetMatch(ctx, detail.Match.ID)
	assert.False(t, m.Completed)

	svc.resolveHole(t, detail.Match.ID, 5)
	finishedAt := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	svc.matches.now = func() time.Time { return finishedAt }

	entries, err := svc.matches.FinishMatch(ctx, detail.Match.ID)
	require.NoError(t, err)
	require.Len(t, entries, match.PlayerCount)
	for _, e := range entries {
		assert.Equal(t, scorecard.HoleCount, e.Thru)
	}

	m, _, _ = svc.store.GetMatch(ctx, detail.Match.ID)
	require.True(t, m.Completed)
	require.NotNil(t, m.CompletedAt)
	assert.True(t, m.CompletedAt.Equal(finishedAt))

	svc.matches.now = func() time.Time { return finishedAt.Add(time.Hour) }
	again, err := svc.matches.FinishMatch(ctx, detail.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
	m, _, _ = svc.store.GetMatch(ctx, detail.Match.ID)
	assert.True(t, m.Completed)
	assert.True(t, m.CompletedAt.Equal(finishedAt), "completion time is kept")
}

func TestMatchService_FinishMatch_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestServices(t, nil)
	_, err := svc.matches.FinishMatch(t.Context(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.matches.FinishMatch(t.Context(), " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
