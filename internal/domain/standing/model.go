package standing

import (
	"sort"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
)

const (
	PointsPerWin  = 3
	PointsPerDraw = 1
)

// Row is the derived standings line for one player in one match.
type Row struct {
	MatchID  string
	PlayerID string
	Thru     int
	Wins     int
	Draws    int
	Losses   int
	Points   int
}

// Compute derives a standings row from a scorecard. It never patches an existing row.
func Compute(matchID, playerID string, card scorecard.Scorecard) Row {
	row := Row{
		MatchID:  matchID,
		PlayerID: playerID,
	}
	for _, result := range card {
		switch result {
		case scorecard.ResultWin:
			row.Wins++
		case scorecard.ResultDraw:
			row.Draws++
		case scorecard.ResultLoss:
			row.Losses++
		default:
			continue
		}
		row.Thru++
	}
	row.Points = row.Wins*PointsPerWin + row.Draws*PointsPerDraw

	return row
}

// Entry is a standings row joined with the player display fields.
type Entry struct {
	PlayerID   string
	PlayerName string
	Seat       int
	Thru       int
	Wins       int
	Draws      int
	Losses     int
	Points     int
}

func NewEntry(row Row, playerName string, seat int) Entry {
	return Entry{
		PlayerID:   row.PlayerID,
		PlayerName: playerName,
		Seat:       seat,
		Thru:       row.Thru,
		Wins:       row.Wins,
		Draws:      row.Draws,
		Losses:     row.Losses,
		Points:     row.Points,
	}
}

// Rank orders entries by points, then wins, both descending. Equal entries keep seat order.
func Rank(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Seat < out[j].Seat
	})

	return out
}
