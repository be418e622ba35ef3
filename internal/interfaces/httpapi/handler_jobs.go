package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

const maxRebuildWorkers = 64

// RebuildStandings recomputes every stored standings row from the scorecards.
// An optional ?workers= query overrides the configured pool size.
func (h *Handler) RebuildStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RebuildStandings")
	defer span.End()

	workers := h.rebuildWorkers
	if raw := strings.TrimSpace(r.URL.Query().Get("workers")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRebuildWorkers {
			writeError(ctx, w, fmt.Errorf("%w: workers must be between 1 and %d", usecase.ErrInvalidInput, maxRebuildWorkers))
			return
		}
		workers = n
	}

	result, err := h.standingService.RebuildAll(ctx, workers)
	if err != nil {
		h.logger.WarnContext(ctx, "rebuild standings job failed", "workers", workers, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rebuildDTO{
		Matches: result.Matches,
		Rebuilt: result.Rebuilt,
		Failed:  result.Failed,
	})
}
