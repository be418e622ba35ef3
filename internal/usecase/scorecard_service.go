package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
)

type ScorecardService struct {
	store     match.Store
	standings *StandingService
	logger    *logging.Logger
}

func NewScorecardService(store match.Store, standings *StandingService, logger *logging.Logger) *ScorecardService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScorecardService{
		store:     store,
		standings: standings,
		logger:    logger,
	}
}

// SetResult replaces one slot of a player's scorecard and recomputes their standings row.
func (s *ScorecardService) SetResult(ctx context.Context, playerID string, holeNumber int, rawResult string) (match.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScorecardService.SetResult")
	defer span.End()

	if err := scorecard.ValidateHoleNumber(holeNumber); err != nil {
		return match.Player{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	result, err := scorecard.ParseResult(rawResult)
	if err != nil {
		return match.Player{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return match.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var updated match.Player
	err = s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		player, exists, err := uow.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}
		if _, err := lockOpenMatch(ctx, uow, player.MatchID); err != nil {
			return err
		}

		// re-read under the match lock
		player, exists, err = uow.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		card, err := player.Scorecard.With(holeNumber, result)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if err := uow.UpdateScorecard(ctx, playerID, card); err != nil {
			return err
		}
		player.Scorecard = card

		if _, err := recomputeStanding(ctx, uow, player); err != nil {
			return err
		}
		updated = player
		return nil
	})
	if err != nil {
		return match.Player{}, storageFailure(err, "failed to update scorecard")
	}

	s.standings.Invalidate(ctx, updated.MatchID)
	s.logger.InfoContext(ctx, "scorecard updated",
		"match_id", updated.MatchID,
		"player_id", playerID,
		"hole_number", holeNumber,
		"result", string(result),
	)
	return updated, nil
}
