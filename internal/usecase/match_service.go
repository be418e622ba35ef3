package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/id"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
)

type CreateMatchInput struct {
	OwnerID     string
	PlayerNames []string
}

// MatchDetail is a match with its players in seat order.
type MatchDetail struct {
	Match   match.Match
	Players []match.Player
}

// MatchService owns the lifecycle of a match: creation, completion and deletion.
type MatchService struct {
	store     match.Store
	idGen     id.Generator
	standings *StandingService
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(store match.Store, idGen id.Generator, standings *StandingService, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchService{
		store:     store,
		idGen:     idGen,
		standings: standings,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *MatchService) CreateMatch(ctx context.Context, input CreateMatchInput) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.CreateMatch")
	defer span.End()

	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return MatchDetail{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	names, err := normalizePlayerNames(input.PlayerNames)
	if err != nil {
		return MatchDetail{}, err
	}

	now := s.now().UTC()
	m := match.Match{OwnerID: ownerID, CreatedAt: now}
	if m.ID, err = s.idGen.NewID(); err != nil {
		return MatchDetail{}, fmt.Errorf("generate match id: %w", err)
	}

	players := make([]match.Player, match.PlayerCount)
	var seats [match.PlayerCount]string
	for seat, name := range names {
		playerID, err := s.idGen.NewID()
		if err != nil {
			return MatchDetail{}, fmt.Errorf("generate player id: %w", err)
		}
		players[seat] = match.Player{
			ID:      playerID,
			MatchID: m.ID,
			Name:    name,
			Seat:    seat,
		}
		seats[seat] = playerID
	}

	holes := make([]match.Hole, 0, scorecard.HoleCount)
	for number := 1; number <= scorecard.HoleCount; number++ {
		hole, err := s.buildHole(m.ID, number, seats)
		if err != nil {
			return MatchDetail{}, err
		}
		holes = append(holes, hole)
	}

	rows := make([]standing.Row, 0, len(players))
	for _, p := range players {
		rows = append(rows, standing.Compute(m.ID, p.ID, p.Scorecard))
	}

	err = s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		if err := uow.InsertMatch(ctx, m); err != nil {
			return err
		}
		if err := uow.InsertPlayers(ctx, players); err != nil {
			return err
		}
		if err := uow.InsertHoles(ctx, holes); err != nil {
			return err
		}
		return uow.InsertStandings(ctx, rows)
	})
	if err != nil {
		return MatchDetail{}, storageFailure(err, "failed to create match")
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", m.ID,
		"owner_id", ownerID,
	)

	return MatchDetail{Match: m, Players: players}, nil
}

func (s *MatchService) buildHole(matchID string, number int, seats [match.PlayerCount]string) (match.Hole, error) {
	holeID, err := s.idGen.NewID()
	if err != nil {
		return match.Hole{}, fmt.Errorf("generate hole id: %w", err)
	}
	matchups, err := match.BuildHoleMatches(number, seats)
	if err != nil {
		return match.Hole{}, fmt.Errorf("%w: %w", ErrConflict, err)
	}

	hole := match.Hole{ID: holeID, MatchID: matchID, Number: number}
	for i := range matchups {
		hmID, err := s.idGen.NewID()
		if err != nil {
			return match.Hole{}, fmt.Errorf("generate hole match id: %w", err)
		}
		matchups[i].ID = hmID
		matchups[i].HoleID = holeID
		matchups[i].MatchID = matchID
	}
	hole.Matches = matchups
	return hole, nil
}

func normalizePlayerNames(raw []string) ([]string, error) {
	if len(raw) != match.PlayerCount {
		return nil, fmt.Errorf("%w: exactly %d player names are required, got %d", ErrInvalidInput, match.PlayerCount, len(raw))
	}
	names := make([]string, len(raw))
	for i, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: player name %d is blank", ErrInvalidInput, i+1)
		}
		names[i] = name
	}
	return names, nil
}

// DeleteMatch reports false when there was no match to delete.
func (s *MatchService) DeleteMatch(ctx context.Context, matchID string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.DeleteMatch", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	var deleted bool
	err := s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		if _, exists, err := uow.LockMatch(ctx, matchID); err != nil || !exists {
			return err
		}
		var err error
		deleted, err = uow.DeleteMatch(ctx, matchID)
		return err
	})
	if err != nil {
		return false, storageFailure(err, "failed to delete match")
	}

	if deleted {
		s.standings.Invalidate(ctx, matchID)
		s.logger.InfoContext(ctx, "match deleted", "match_id", matchID)
	}
	return deleted, nil
}

// GetMatch is the owner-scoped lookup. A match of another owner is reported as not found.
func (s *MatchService) GetMatch(ctx context.Context, ownerID, matchID string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetMatch", matchAttr(matchID))
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	matchID = strings.TrimSpace(matchID)
	if ownerID == "" || matchID == "" {
		return MatchDetail{}, fmt.Errorf("%w: owner id and match id are required", ErrInvalidInput)
	}

	m, exists, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return MatchDetail{}, storageFailure(err, "failed to load match")
	}
	if !exists || m.OwnerID != ownerID {
		return MatchDetail{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	players, err := s.store.ListPlayers(ctx, matchID)
	if err != nil {
		return MatchDetail{}, storageFailure(err, "failed to load players")
	}
	match.SortPlayersBySeat(players)

	return MatchDetail{Match: m, Players: players}, nil
}

// ListMatches returns the owner's matches, newest first.
func (s *MatchService) ListMatches(ctx context.Context, ownerID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListMatches")
	defer span.End()

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}

	items, err := s.store.ListMatchesByOwner(ctx, ownerID)
	if err != nil {
		return nil, storageFailure(err, "failed to list matches")
	}
	return items, nil
}

// FirstIncompleteHole returns the lowest numbered hole with an unplayed matchup.
// The bool is false once every hole is resolved.
func (s *MatchService) FirstIncompleteHole(ctx context.Context, matchID string) (match.Hole, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.FirstIncompleteHole", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Hole{}, false, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if _, exists, err := s.store.GetMatch(ctx, matchID); err != nil {
		return match.Hole{}, false, storageFailure(err, "failed to load match")
	} else if !exists {
		return match.Hole{}, false, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	hole, found, err := firstIncompleteHole(ctx, s.store, matchID)
	if err != nil {
		return match.Hole{}, false, storageFailure(err, "failed to load holes")
	}
	return hole, found, nil
}

func firstIncompleteHole(ctx context.Context, reader match.Reader, matchID string) (match.Hole, bool, error) {
	holes, err := reader.ListHoles(ctx, matchID)
	if err != nil {
		return match.Hole{}, false, err
	}
	for _, h := range holes {
		if !h.Complete() {
			return h, true, nil
		}
	}
	return match.Hole{}, false, nil
}

// FinishMatch completes a match whose holes are all resolved and returns the final table.
// Finishing twice returns the table again and keeps the original completion time.
func (s *MatchService) FinishMatch(ctx context.Context, matchID string) ([]standing.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.FinishMatch", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	var (
		entries       []standing.Entry
		newlyFinished bool
	)
	err := s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		m, exists, err := uow.LockMatch(ctx, matchID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}

		if !m.Completed {
			hole, open, err := firstIncompleteHole(ctx, uow, matchID)
			if err != nil {
				return err
			}
			if open {
				return &IncompleteHoleError{HoleNumber: hole.Number}
			}

			completedAt := s.now().UTC()
			m.Completed = true
			m.CompletedAt = &completedAt
			if err := uow.MarkCompleted(ctx, m); err != nil {
				return err
			}
			newlyFinished = true
		}

		entries, err = rankedStandings(ctx, uow, matchID)
		return err
	})
	if err != nil {
		return nil, storageFailure(err, "failed to finish match")
	}

	if newlyFinished {
		s.standings.Invalidate(ctx, matchID)
		s.logger.InfoContext(ctx, "match finished", "match_id", matchID)
	}
	return entries, nil
}
