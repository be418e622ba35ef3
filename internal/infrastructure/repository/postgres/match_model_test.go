package postgres

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
)

func TestOutcomeColumnsRoundTrip(t *testing.T) {
	t.Parallel()

	for _, o := range []match.Outcome{match.Unset(), match.Draw(), match.WonBy("p-1")} {
		kind, winner := outcomeToColumns(o)
		got, err := outcomeFromColumns(kind, winner)
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}

	kind, winner := outcomeToColumns(match.Draw())
	assert.Equal(t, "draw", kind)
	assert.False(t, winner.Valid, "draw never stores a winner id")
}

func TestOutcomeFromColumns_RejectsBadRows(t *testing.T) {
	t.Parallel()

	_, err := outcomeFromColumns("winner", sql.NullString{})
	assert.Error(t, err)

	_, err = outcomeFromColumns("-1", sql.NullString{})
	assert.Error(t, err)
}

func TestPlayerFromRow(t *testing.T) {
	t.Parallel()

	var card scorecard.Scorecard
	card[0] = scorecard.ResultWin
	card[17] = scorecard.ResultDraw

	row := playerToRow(match.Player{ID: "p-1", MatchID: "m-1", Name: "Ann", Seat: 2, Scorecard: card})
	assert.Len(t, row.Scorecard, scorecard.HoleCount)
	assert.Equal(t, "", row.Scorecard[1])

	p, err := playerFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, card, p.Scorecard)
	assert.Equal(t, 2, p.Seat)

	_, err = playerFromRow(playerTableModel{PublicID: "p-2", Scorecard: pq.StringArray{"W"}})
	assert.Error(t, err)

	bad := make(pq.StringArray, scorecard.HoleCount)
	bad[3] = "X"
	_, err = playerFromRow(playerTableModel{PublicID: "p-3", Scorecard: bad})
	assert.True(t, errors.Is(err, scorecard.ErrInvalidResult))
}

func TestAssembleHoles(t *testing.T) {
	t.Parallel()

	holes := []holeTableModel{
		{PublicID: "h1", MatchID: "m", Number: 1},
		{PublicID: "h2", MatchID: "m", Number: 2},
	}
	matchups := []holeMatchTableModel{
		{PublicID: "h2-1", HoleID: "h2", MatchID: "m", Position: 1, Player1ID: "b", Player2ID: "d"},
		{PublicID: "h1-0", HoleID: "h1", MatchID: "m", Position: 0, Player1ID: "a", Player2ID: "b", Outcome: "winner", WinnerID: sql.NullString{String: "a", Valid: true}},
		{PublicID: "h2-0", HoleID: "h2", MatchID: "m", Position: 0, Player1ID: "a", Player2ID: "c", Outcome: "draw"},
		{PublicID: "h1-1", HoleID: "h1", MatchID: "m", Position: 1, Player1ID: "c", Player2ID: "d"},
	}

	got, err := assembleHoles(holes, matchups)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, match.WonBy("a"), got[0].Matches[0].Outcome)
	assert.Equal(t, "h1-1", got[0].Matches[1].ID)
	assert.Equal(t, match.Draw(), got[1].Matches[0].Outcome)
	assert.Equal(t, "d", got[1].Matches[1].Player2ID)

	_, err = assembleHoles(holes, matchups[:3])
	assert.Error(t, err, "a hole with a missing matchup is rejected")
}

func TestMatchFromRow(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := matchFromRow(matchTableModel{PublicID: "m", OwnerID: "o", CreatedAt: created})
	assert.Nil(t, m.CompletedAt)

	finished := created.Add(4 * time.Hour)
	m = matchFromRow(matchTableModel{PublicID: "m", OwnerID: "o", Completed: true, CompletedAt: sql.NullTime{Time: finished, Valid: true}, CreatedAt: created})
	require.NotNil(t, m.CompletedAt)
	assert.True(t, m.CompletedAt.Equal(finished))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, isNotFound(sql.ErrNoRows))
	assert.True(t, isNotFound(errors.Join(errors.New("get match"), sql.ErrNoRows)))
	assert.False(t, isNotFound(errors.New("pq: relation matches does not exist")))
}
