package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/user"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	matchService     *usecase.MatchService
	holeService      *usecase.HoleService
	scorecardService *usecase.ScorecardService
	standingService  *usecase.StandingService
	rebuildWorkers   int
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	matchService *usecase.MatchService,
	holeService *usecase.HoleService,
	scorecardService *usecase.ScorecardService,
	standingService *usecase.StandingService,
	rebuildWorkers int,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchService:     matchService,
		holeService:      holeService,
		scorecardService: scorecardService,
		standingService:  standingService,
		rebuildWorkers:   rebuildWorkers,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeAndValidate reads a JSON body into dst, rejecting unknown fields.
func (h *Handler) decodeAndValidate(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

// ownedMatch resolves the path match for the caller. Matches of other owners read as not found.
func (h *Handler) ownedMatch(ctx context.Context, r *http.Request) (usecase.MatchDetail, user.Principal, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return usecase.MatchDetail{}, user.Principal{}, err
	}

	detail, err := h.matchService.GetMatch(ctx, principal.UserID, r.PathValue("matchID"))
	if err != nil {
		return usecase.MatchDetail{}, principal, err
	}
	return detail, principal, nil
}

func parseHoleNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: hole number must be an integer, got %q", usecase.ErrInvalidInput, raw)
	}
	return n, nil
}
