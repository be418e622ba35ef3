package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
)

// HoleView is one hole as shown to the scorer: its matchups with the outcomes
// recorded so far and the hole to move to afterwards (0 after the last hole).
type HoleView struct {
	Hole     match.Hole
	NextHole int
}

// HoleService records hole outcomes and propagates them into scorecards and standings.
type HoleService struct {
	store     match.Store
	standings *StandingService
	logger    *logging.Logger
}

func NewHoleService(store match.Store, standings *StandingService, logger *logging.Logger) *HoleService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HoleService{
		store:     store,
		standings: standings,
		logger:    logger,
	}
}

type holeLookup func(ctx context.Context, uow match.UnitOfWork) (match.Hole, bool, error)

// RecordHoleOutcome applies one outcome per matchup of the hole, in the hole's matchup order.
// An unset outcome leaves that matchup untouched.
func (s *HoleService) RecordHoleOutcome(ctx context.Context, matchID, holeID string, winners []match.Outcome) (match.Hole, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HoleService.RecordHoleOutcome", matchAttr(matchID))
	defer span.End()

	holeID = strings.TrimSpace(holeID)
	if holeID == "" {
		return match.Hole{}, fmt.Errorf("%w: hole id is required", ErrInvalidInput)
	}
	return s.record(ctx, matchID, winners, "hole="+holeID, func(ctx context.Context, uow match.UnitOfWork) (match.Hole, bool, error) {
		return uow.GetHole(ctx, holeID)
	})
}

// RecordHoleOutcomeByNumber is RecordHoleOutcome addressed by hole number.
func (s *HoleService) RecordHoleOutcomeByNumber(ctx context.Context, matchID string, holeNumber int, winners []match.Outcome) (match.Hole, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HoleService.RecordHoleOutcomeByNumber", matchAttr(matchID))
	defer span.End()

	if err := scorecard.ValidateHoleNumber(holeNumber); err != nil {
		return match.Hole{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.record(ctx, strings.TrimSpace(matchID), winners, fmt.Sprintf("hole_number=%d", holeNumber), func(ctx context.Context, uow match.UnitOfWork) (match.Hole, bool, error) {
		return uow.GetHoleByNumber(ctx, strings.TrimSpace(matchID), holeNumber)
	})
}

func (s *HoleService) record(ctx context.Context, matchID string, winners []match.Outcome, holeRef string, lookup holeLookup) (match.Hole, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Hole{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if len(winners) != match.PairingsPerHole {
		return match.Hole{}, fmt.Errorf("%w: expected %d winners, got %d", ErrInvalidInput, match.PairingsPerHole, len(winners))
	}

	var updated match.Hole
	err := s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		if _, err := lockOpenMatch(ctx, uow, matchID); err != nil {
			return err
		}

		hole, exists, err := lookup(ctx, uow)
		if err != nil {
			return err
		}
		if !exists || hole.MatchID != matchID {
			return fmt.Errorf("%w: %s match=%s", ErrNotFound, holeRef, matchID)
		}

		for i, hm := range hole.Matches {
			if err := hm.ValidateOutcome(winners[i]); err != nil {
				return fmt.Errorf("%w: position %d: %w", ErrInvalidInput, i, err)
			}
		}

		if err := applyOutcomes(ctx, uow, &hole, winners); err != nil {
			return err
		}
		if err := recomputeMatchStandings(ctx, uow, matchID); err != nil {
			return err
		}
		updated = hole
		return nil
	})
	if err != nil {
		return match.Hole{}, storageFailure(err, "failed to update hole outcome")
	}

	s.standings.Invalidate(ctx, matchID)
	s.logger.InfoContext(ctx, "hole outcome recorded",
		"match_id", matchID,
		"hole_number", updated.Number,
		"outcome_1", updated.Matches[0].Outcome.String(),
		"outcome_2", updated.Matches[1].Outcome.String(),
	)
	return updated, nil
}

// applyOutcomes writes matchup outcomes and the matching scorecard slots through uow.
// Each scorecard is written once, as a whole.
func applyOutcomes(ctx context.Context, uow match.UnitOfWork, hole *match.Hole, winners []match.Outcome) error {
	cards := make(map[string]scorecard.Scorecard, match.PlayerCount)
	order := make([]string, 0, match.PlayerCount)

	setSlot := func(playerID string, result scorecard.Result) error {
		card, seen := cards[playerID]
		if !seen {
			player, exists, err := uow.GetPlayer(ctx, playerID)
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
			}
			card = player.Scorecard
			order = append(order, playerID)
		}
		next, err := card.With(hole.Number, result)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		cards[playerID] = next
		return nil
	}

	for i := range hole.Matches {
		hm := &hole.Matches[i]
		outcome := winners[i]

		var first, second scorecard.Result
		switch outcome.Kind {
		case match.OutcomeDraw:
			first, second = scorecard.ResultDraw, scorecard.ResultDraw
		case match.OutcomeWinner:
			first, second = scorecard.ResultWin, scorecard.ResultLoss
			if outcome.WinnerID == hm.Player2ID {
				first, second = scorecard.ResultLoss, scorecard.ResultWin
			}
		default:
			continue
		}

		if err := setSlot(hm.Player1ID, first); err != nil {
			return err
		}
		if err := setSlot(hm.Player2ID, second); err != nil {
			return err
		}
		if err := uow.UpdateHoleMatchOutcome(ctx, hm.ID, outcome); err != nil {
			return err
		}
		hm.Outcome = outcome
	}

	for _, playerID := range order {
		if err := uow.UpdateScorecard(ctx, playerID, cards[playerID]); err != nil {
			return err
		}
	}
	return nil
}

// lockOpenMatch takes the match write lock and rejects completed matches.
func lockOpenMatch(ctx context.Context, uow match.UnitOfWork, matchID string) (match.Match, error) {
	m, exists, err := uow.LockMatch(ctx, matchID)
	if err != nil {
		return match.Match{}, err
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	if m.Completed {
		return match.Match{}, fmt.Errorf("%w: match %s is already completed", ErrConflict, matchID)
	}
	return m, nil
}

func (s *HoleService) GetHoleView(ctx context.Context, matchID string, holeNumber int) (HoleView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HoleService.GetHoleView", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return HoleView{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if err := scorecard.ValidateHoleNumber(holeNumber); err != nil {
		return HoleView{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	hole, exists, err := s.store.GetHoleByNumber(ctx, matchID, holeNumber)
	if err != nil {
		return HoleView{}, storageFailure(err, "failed to load hole")
	}
	if !exists {
		return HoleView{}, fmt.Errorf("%w: hole_number=%d match=%s", ErrNotFound, holeNumber, matchID)
	}

	view := HoleView{Hole: hole}
	if holeNumber < scorecard.HoleCount {
		view.NextHole = holeNumber + 1
	}
	return view, nil
}
