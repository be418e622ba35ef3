package httpapi

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

type createMatchRequest struct {
	PlayerNames []string `json:"player_names" validate:"required,len=4,dive,required,max=100"`
}

// outcomeRequest is one matchup result. Result "unset" (or empty) leaves the matchup as it is.
type outcomeRequest struct {
	Result   string `json:"result" validate:"omitempty,oneof=unset draw winner"`
	PlayerID string `json:"player_id" validate:"required_if=Result winner"`
}

type recordOutcomeRequest struct {
	Winners []outcomeRequest `json:"winners" validate:"required,len=2,dive"`
}

// setResultRequest leaves Result unchecked so the scorecard messages reach the caller.
type setResultRequest struct {
	Result string `json:"result"`
}

func (o outcomeRequest) toOutcome() (match.Outcome, error) {
	switch o.Result {
	case "", "unset":
		return match.Unset(), nil
	case "draw":
		return match.Draw(), nil
	case "winner":
		return match.WonBy(o.PlayerID), nil
	default:
		return match.Outcome{}, fmt.Errorf("%w: unknown result %q", usecase.ErrInvalidInput, o.Result)
	}
}

type matchDTO struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	Completed   bool        `json:"completed"`
	CreatedAt   string      `json:"created_at"`
	CompletedAt string      `json:"completed_at,omitempty"`
	Players     []playerDTO `json:"players,omitempty"`
}

type playerDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Seat      int      `json:"seat"`
	Scorecard []string `json:"scorecard"`
}

type holeMatchDTO struct {
	ID        string `json:"id"`
	Position  int    `json:"position"`
	Player1ID string `json:"player1_id"`
	Player2ID string `json:"player2_id"`
	Result    string `json:"result"`
	WinnerID  string `json:"winner_id,omitempty"`
}

type holeDTO struct {
	ID       string         `json:"id"`
	Number   int            `json:"number"`
	Complete bool           `json:"complete"`
	Matches  []holeMatchDTO `json:"matches"`
}

type holeViewDTO struct {
	Hole     holeDTO `json:"hole"`
	NextHole int     `json:"next_hole,omitempty"`
}

type nextHoleDTO struct {
	AllComplete bool     `json:"all_complete"`
	Hole        *holeDTO `json:"hole,omitempty"`
}

type standingDTO struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Seat       int    `json:"seat"`
	Thru       int    `json:"thru"`
	Wins       int    `json:"wins"`
	Draws      int    `json:"draws"`
	Losses     int    `json:"losses"`
	Points     int    `json:"points"`
}

type rebuildDTO struct {
	Matches int      `json:"matches"`
	Rebuilt int      `json:"rebuilt"`
	Failed  []string `json:"failed,omitempty"`
}

func matchToDTO(m match.Match, players []match.Player) matchDTO {
	out := matchDTO{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if m.CompletedAt != nil {
		out.CompletedAt = m.CompletedAt.UTC().Format(time.RFC3339)
	}
	for _, p := range players {
		out.Players = append(out.Players, playerToDTO(p))
	}
	return out
}

func playerToDTO(p match.Player) playerDTO {
	return playerDTO{
		ID:        p.ID,
		Name:      p.Name,
		Seat:      p.Seat,
		Scorecard: p.Scorecard.Strings(),
	}
}

func holeToDTO(h match.Hole) holeDTO {
	out := holeDTO{
		ID:       h.ID,
		Number:   h.Number,
		Complete: h.Complete(),
		Matches:  make([]holeMatchDTO, 0, len(h.Matches)),
	}
	for _, hm := range h.Matches {
		item := holeMatchDTO{
			ID:        hm.ID,
			Position:  hm.Position,
			Player1ID: hm.Player1ID,
			Player2ID: hm.Player2ID,
			Result:    "unset",
		}
		switch hm.Outcome.Kind {
		case match.OutcomeDraw:
			item.Result = "draw"
		case match.OutcomeWinner:
			item.Result = "winner"
			item.WinnerID = hm.Outcome.WinnerID
		}
		out.Matches = append(out.Matches, item)
	}
	return out
}

func standingsToDTO(entries []standing.Entry) []standingDTO {
	out := make([]standingDTO, 0, len(entries))
	for i, e := range entries {
		out = append(out, standingDTO{
			Rank:       i + 1,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Seat:       e.Seat,
			Thru:       e.Thru,
			Wins:       e.Wins,
			Draws:      e.Draws,
			Losses:     e.Losses,
			Points:     e.Points,
		})
	}
	return out
}
