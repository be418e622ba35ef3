package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
)

var (
	matchColumns     = []string{"public_id", "owner_id", "completed", "completed_at", "created_at"}
	playerColumns    = []string{"public_id", "match_public_id", "name", "seat", "scorecard"}
	holeColumns      = []string{"public_id", "match_public_id", "hole_number"}
	holeMatchColumns = []string{"public_id", "hole_public_id", "match_public_id", "position", "player1_public_id", "player2_public_id", "outcome", "winner_player_public_id"}
	standingColumns  = []string{"match_public_id", "player_public_id", "thru", "wins", "draws", "losses", "points"}
)

type matchTableModel struct {
	PublicID    string       `db:"public_id"`
	OwnerID     string       `db:"owner_id"`
	Completed   bool         `db:"completed"`
	CompletedAt sql.NullTime `db:"completed_at"`
	CreatedAt   time.Time    `db:"created_at"`
}

type matchInsertModel struct {
	PublicID  string    `db:"public_id"`
	OwnerID   string    `db:"owner_id"`
	CreatedAt time.Time `db:"created_at"`
}

type playerTableModel struct {
	PublicID  string         `db:"public_id"`
	MatchID   string         `db:"match_public_id"`
	Name      string         `db:"name"`
	Seat      int            `db:"seat"`
	Scorecard pq.StringArray `db:"scorecard"`
}

type holeTableModel struct {
	PublicID string `db:"public_id"`
	MatchID  string `db:"match_public_id"`
	Number   int    `db:"hole_number"`
}

type holeMatchTableModel struct {
	PublicID  string         `db:"public_id"`
	HoleID    string         `db:"hole_public_id"`
	MatchID   string         `db:"match_public_id"`
	Position  int            `db:"position"`
	Player1ID string         `db:"player1_public_id"`
	Player2ID string         `db:"player2_public_id"`
	Outcome   string         `db:"outcome"`
	WinnerID  sql.NullString `db:"winner_player_public_id"`
}

type standingTableModel struct {
	MatchID  string `db:"match_public_id"`
	PlayerID string `db:"player_public_id"`
	Thru     int    `db:"thru"`
	Wins     int    `db:"wins"`
	Draws    int    `db:"draws"`
	Losses   int    `db:"losses"`
	Points   int    `db:"points"`
}

func matchFromRow(row matchTableModel) match.Match {
	m := match.Match{
		ID:        row.PublicID,
		OwnerID:   row.OwnerID,
		Completed: row.Completed,
		CreatedAt: row.CreatedAt.UTC(),
	}
	if row.CompletedAt.Valid {
		completedAt := row.CompletedAt.Time.UTC()
		m.CompletedAt = &completedAt
	}
	return m
}

func playerFromRow(row playerTableModel) (match.Player, error) {
	card, err := scorecard.FromStrings(row.Scorecard)
	if err != nil {
		return match.Player{}, fmt.Errorf("decode scorecard of player %s: %w", row.PublicID, err)
	}
	return match.Player{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		Name:      row.Name,
		Seat:      row.Seat,
		Scorecard: card,
	}, nil
}

func playerToRow(p match.Player) playerTableModel {
	return playerTableModel{
		PublicID:  p.ID,
		MatchID:   p.MatchID,
		Name:      p.Name,
		Seat:      p.Seat,
		Scorecard: pq.StringArray(p.Scorecard.Strings()),
	}
}

// outcomeToColumns maps a tagged outcome onto the outcome/winner column pair.
func outcomeToColumns(o match.Outcome) (string, sql.NullString) {
	if o.Kind == match.OutcomeWinner {
		return string(o.Kind), sql.NullString{String: o.WinnerID, Valid: true}
	}
	return string(o.Kind), sql.NullString{}
}

func outcomeFromColumns(kind string, winner sql.NullString) (match.Outcome, error) {
	switch match.OutcomeKind(kind) {
	case match.OutcomeUnset:
		return match.Unset(), nil
	case match.OutcomeDraw:
		return match.Draw(), nil
	case match.OutcomeWinner:
		if !winner.Valid || winner.String == "" {
			return match.Outcome{}, fmt.Errorf("winner outcome without winner id")
		}
		return match.WonBy(winner.String), nil
	default:
		return match.Outcome{}, fmt.Errorf("unknown outcome %q", kind)
	}
}

func holeMatchToRow(hm match.HoleMatch) holeMatchTableModel {
	kind, winner := outcomeToColumns(hm.Outcome)
	return holeMatchTableModel{
		PublicID:  hm.ID,
		HoleID:    hm.HoleID,
		MatchID:   hm.MatchID,
		Position:  hm.Position,
		Player1ID: hm.Player1ID,
		Player2ID: hm.Player2ID,
		Outcome:   kind,
		WinnerID:  winner,
	}
}

// assembleHoles attaches hole match rows to their holes, keeping the holes' order.
func assembleHoles(holes []holeTableModel, matchups []holeMatchTableModel) ([]match.Hole, error) {
	out := make([]match.Hole, len(holes))
	index := make(map[string]int, len(holes))
	for i, h := range holes {
		out[i] = match.Hole{ID: h.PublicID, MatchID: h.MatchID, Number: h.Number}
		index[h.PublicID] = i
	}

	filled := make([]int, len(holes))
	for _, row := range matchups {
		i, ok := index[row.HoleID]
		if !ok {
			continue
		}
		if row.Position < 0 || row.Position >= match.PairingsPerHole {
			return nil, fmt.Errorf("hole match %s has invalid position %d", row.PublicID, row.Position)
		}
		outcome, err := outcomeFromColumns(row.Outcome, row.WinnerID)
		if err != nil {
			return nil, fmt.Errorf("decode hole match %s: %w", row.PublicID, err)
		}
		out[i].Matches[row.Position] = match.HoleMatch{
			ID:        row.PublicID,
			HoleID:    row.HoleID,
			MatchID:   row.MatchID,
			Position:  row.Position,
			Player1ID: row.Player1ID,
			Player2ID: row.Player2ID,
			Outcome:   outcome,
		}
		filled[i]++
	}

	for i, n := range filled {
		if n != match.PairingsPerHole {
			return nil, fmt.Errorf("hole %s has %d hole matches, expected %d", out[i].ID, n, match.PairingsPerHole)
		}
	}
	return out, nil
}

func standingFromRow(row standingTableModel) standing.Row {
	return standing.Row{
		MatchID:  row.MatchID,
		PlayerID: row.PlayerID,
		Thru:     row.Thru,
		Wins:     row.Wins,
		Draws:    row.Draws,
		Losses:   row.Losses,
		Points:   row.Points,
	}
}

func standingToRow(row standing.Row) standingTableModel {
	return standingTableModel{
		MatchID:  row.MatchID,
		PlayerID: row.PlayerID,
		Thru:     row.Thru,
		Wins:     row.Wins,
		Draws:    row.Draws,
		Losses:   row.Losses,
		Points:   row.Points,
	}
}
