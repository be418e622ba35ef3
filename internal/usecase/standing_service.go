package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/cache"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
)

const standingsCachePrefix = "standings:"

const defaultRebuildWorkers = 4

// StandingService derives standings rows from scorecards and serves the ranked table.
type StandingService struct {
	store  match.Store
	cache  *cache.Store[[]standing.Entry]
	logger *logging.Logger
}

// NewStandingService accepts a nil cache, in which case every read goes to the store.
func NewStandingService(store match.Store, standingsCache *cache.Store[[]standing.Entry], logger *logging.Logger) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingService{
		store:  store,
		cache:  standingsCache,
		logger: logger,
	}
}

// Recompute overwrites one player's standings row from their scorecard.
func (s *StandingService) Recompute(ctx context.Context, matchID, playerID string) (standing.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.Recompute", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	playerID = strings.TrimSpace(playerID)
	if matchID == "" || playerID == "" {
		return standing.Row{}, fmt.Errorf("%w: match id and player id are required", ErrInvalidInput)
	}

	var row standing.Row
	err := s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		if _, exists, err := uow.LockMatch(ctx, matchID); err != nil {
			return err
		} else if !exists {
			return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
		}

		player, exists, err := uow.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		if !exists || player.MatchID != matchID {
			return fmt.Errorf("%w: player=%s match=%s", ErrNotFound, playerID, matchID)
		}

		row, err = recomputeStanding(ctx, uow, player)
		return err
	})
	if err != nil {
		return standing.Row{}, storageFailure(err, "failed to recompute standings")
	}

	s.Invalidate(ctx, matchID)
	return row, nil
}

// FormattedStandings returns the ranked table of a match.
func (s *StandingService) FormattedStandings(ctx context.Context, matchID string) ([]standing.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.FormattedStandings", matchAttr(matchID))
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if s.cache == nil {
		return s.loadStandings(ctx, s.store, matchID)
	}
	entries, err := s.cache.GetOrLoad(ctx, standingsCachePrefix+matchID, func(ctx context.Context) ([]standing.Entry, error) {
		return s.loadStandings(ctx, s.store, matchID)
	})
	if err != nil {
		return nil, err
	}
	return append([]standing.Entry(nil), entries...), nil
}

// Invalidate drops the cached table of a match. Mutating services call it after commit.
func (s *StandingService) Invalidate(ctx context.Context, matchID string) {
	if s == nil || s.cache == nil {
		return
	}
	s.cache.Delete(ctx, standingsCachePrefix+matchID)
}

// RebuildResult summarizes a RebuildAll run.
type RebuildResult struct {
	Matches int
	Rebuilt int
	Failed  []string
}

// RebuildAll recomputes the standings of every match, one unit of work per match.
func (s *StandingService) RebuildAll(ctx context.Context, workers int) (RebuildResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.RebuildAll")
	defer span.End()

	if workers < 1 {
		workers = defaultRebuildWorkers
	}

	matchIDs, err := s.store.ListMatchIDs(ctx)
	if err != nil {
		return RebuildResult{}, storageFailure(err, "failed to list matches")
	}
	span.SetAttributes(attribute.Int("rebuild.matches", len(matchIDs)))

	result := RebuildResult{Matches: len(matchIDs)}
	if len(matchIDs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return RebuildResult{}, fmt.Errorf("create rebuild pool: %w", err)
	}
	defer pool.Release()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, matchID := range matchIDs {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			rebuildErr := s.rebuildMatch(ctx, matchID)

			mu.Lock()
			defer mu.Unlock()
			if rebuildErr != nil {
				result.Failed = append(result.Failed, matchID)
				s.logger.WarnContext(ctx, "rebuild standings failed", "match_id", matchID, "error", rebuildErr)
				return
			}
			result.Rebuilt++
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			result.Failed = append(result.Failed, matchID)
			mu.Unlock()
			s.logger.WarnContext(ctx, "submit rebuild task failed", "match_id", matchID, "error", submitErr)
		}
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "standings rebuilt",
		"matches", result.Matches,
		"rebuilt", result.Rebuilt,
		"failed", len(result.Failed),
	)
	return result, nil
}

func (s *StandingService) rebuildMatch(ctx context.Context, matchID string) error {
	err := s.store.WithinTx(ctx, func(ctx context.Context, uow match.UnitOfWork) error {
		if _, exists, err := uow.LockMatch(ctx, matchID); err != nil || !exists {
			return err
		}
		return recomputeMatchStandings(ctx, uow, matchID)
	})
	if err != nil {
		return storageFailure(err, "failed to rebuild standings")
	}
	s.Invalidate(ctx, matchID)
	return nil
}

func (s *StandingService) loadStandings(ctx context.Context, reader match.Reader, matchID string) ([]standing.Entry, error) {
	if _, exists, err := reader.GetMatch(ctx, matchID); err != nil {
		return nil, storageFailure(err, "failed to load match")
	} else if !exists {
		return nil, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	entries, err := rankedStandings(ctx, reader, matchID)
	if err != nil {
		return nil, storageFailure(err, "failed to load standings")
	}
	return entries, nil
}

func rankedStandings(ctx context.Context, reader match.Reader, matchID string) ([]standing.Entry, error) {
	players, err := reader.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}
	rows, err := reader.ListStandings(ctx, matchID)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[string]standing.Row, len(rows))
	for _, row := range rows {
		byPlayer[row.PlayerID] = row
	}

	entries := make([]standing.Entry, 0, len(players))
	for _, p := range players {
		row, ok := byPlayer[p.ID]
		if !ok {
			row = standing.Row{MatchID: matchID, PlayerID: p.ID}
		}
		entries = append(entries, standing.NewEntry(row, p.Name, p.Seat))
	}
	return standing.Rank(entries), nil
}

func recomputeStanding(ctx context.Context, uow match.UnitOfWork, player match.Player) (standing.Row, error) {
	row := standing.Compute(player.MatchID, player.ID, player.Scorecard)
	if err := uow.UpsertStanding(ctx, row); err != nil {
		return standing.Row{}, err
	}
	return row, nil
}

func recomputeMatchStandings(ctx context.Context, uow match.UnitOfWork, matchID string) error {
	players, err := uow.ListPlayers(ctx, matchID)
	if err != nil {
		return err
	}
	for _, p := range players {
		if _, err := recomputeStanding(ctx, uow, p); err != nil {
			return err
		}
	}
	return nil
}
