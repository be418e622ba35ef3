package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createMatchRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.matchService.CreateMatch(ctx, usecase.CreateMatchInput{
		OwnerID:     principal.UserID,
		PlayerNames: req.PlayerNames,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "owner_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(detail.Match, detail.Players))
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.matchService.ListMatches(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "owner_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m, nil))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	detail, _, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(detail.Match, detail.Players))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	detail, principal, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	deleted, err := h.matchService.DeleteMatch(ctx, detail.Match.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "owner_id", principal.UserID, "match_id", detail.Match.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"match_id": detail.Match.ID, "deleted": deleted})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	detail, _, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.standingService.FormattedStandings(ctx, detail.Match.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "match_id", detail.Match.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(entries))
}

func (h *Handler) GetNextHole(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetNextHole")
	defer span.End()

	detail, _, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	hole, open, err := h.matchService.FirstIncompleteHole(ctx, detail.Match.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "find next hole failed", "match_id", detail.Match.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := nextHoleDTO{AllComplete: !open}
	if open {
		dto := holeToDTO(hole)
		out.Hole = &dto
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) FinishMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinishMatch")
	defer span.End()

	detail, principal, err := h.ownedMatch(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.matchService.FinishMatch(ctx, detail.Match.ID)
	if err != nil {
		h.logger.WarnContext(ctx, "finish match failed", "owner_id", principal.UserID, "match_id", detail.Match.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"match_id":  detail.Match.ID,
		"standings": standingsToDTO(entries),
	})
}
