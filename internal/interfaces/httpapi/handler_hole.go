package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

func (h *Handler) GetHole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHole")
	defer span.End()

	detail, _, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	holeNumber, err := parseHoleNumber(r.PathValue("holeNumber"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.holeService.GetHoleView(ctx, detail.Match.ID, holeNumber)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, holeViewDTO{Hole: holeToDTO(view.Hole), NextHole: view.NextHole})
}

func (h *Handler) RecordHoleOutcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordHoleOutcome")
	defer span.End()

	detail, _, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	holeNumber, err := parseHoleNumber(r.PathValue("holeNumber"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordOutcomeRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	winners := make([]match.Outcome, 0, len(req.Winners))
	for _, item := range req.Winners {
		outcome, err := item.toOutcome()
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		winners = append(winners, outcome)
	}

	hole, err := h.holeService.RecordHoleOutcomeByNumber(ctx, detail.Match.ID, holeNumber, winners)
	if err != nil {
		h.logger.WarnContext(ctx, "record hole outcome failed", "match_id", detail.Match.ID, "hole_number", holeNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, holeToDTO(hole))
}

func (h *Handler) SetScorecardResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetScorecardResult")
	defer span.End()

	detail, _, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID := strings.TrimSpace(r.PathValue("playerID"))
	if !hasPlayer(detail.Players, playerID) {
		writeError(ctx, w, fmt.Errorf("%w: player=%s match=%s", usecase.ErrNotFound, playerID, detail.Match.ID))
		return
	}
	holeNumber, err := parseHoleNumber(r.PathValue("holeNumber"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setResultRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	player, err := h.scorecardService.SetResult(ctx, playerID, holeNumber, req.Result)
	if err != nil {
		h.logger.WarnContext(ctx, "set scorecard result failed", "player_id", playerID, "hole_number", holeNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(player))
}

func hasPlayer(players []match.Player, playerID string) bool {
	for _, p := range players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}
