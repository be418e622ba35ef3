package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	qb "github.com/riskibarqy/fourball-matchplay/internal/platform/querybuilder"
)

var (
	_ match.Store      = (*MatchStore)(nil)
	_ match.UnitOfWork = (*unitOfWork)(nil)
)

// MatchStore persists matches in PostgreSQL. Writers serialize per match with
// SELECT ... FOR UPDATE on the match row.
type MatchStore struct {
	queries
	db *sqlx.DB
}

func NewMatchStore(db *sqlx.DB) *MatchStore {
	return &MatchStore{queries: queries{ext: db}, db: db}
}

func (s *MatchStore) WithinTx(ctx context.Context, fn func(ctx context.Context, uow match.UnitOfWork) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &unitOfWork{queries: queries{ext: tx}}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// queries implements match.Reader over either the pool or an open transaction.
type queries struct {
	ext sqlx.ExtContext
}

func (q queries) GetMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	return q.getMatch(ctx, matchID, false)
}

func (q queries) getMatch(ctx context.Context, matchID string, forUpdate bool) (match.Match, bool, error) {
	builder := qb.Select(matchColumns...).From("matches").Where(qb.Eq("public_id", matchID))
	if forUpdate {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, q.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match: %w", err)
	}
	return matchFromRow(row), true, nil
}

func (q queries) ListMatchesByOwner(ctx context.Context, ownerID string) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("owner_id", ownerID)).
		OrderBy("created_at DESC", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, q.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list matches by owner: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (q queries) ListMatchIDs(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("public_id").From("matches").OrderBy("public_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match ids query: %w", err)
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, q.ext, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("list match ids: %w", err)
	}
	return ids, nil
}

func (q queries) GetPlayer(ctx context.Context, playerID string) (match.Player, bool, error) {
	query, args, err := qb.Select(playerColumns...).From("match_players").
		Where(qb.Eq("public_id", playerID)).
		ToSQL()
	if err != nil {
		return match.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, q.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Player{}, false, nil
		}
		return match.Player{}, false, fmt.Errorf("get player: %w", err)
	}

	p, err := playerFromRow(row)
	if err != nil {
		return match.Player{}, false, err
	}
	return p, true, nil
}

func (q queries) ListPlayers(ctx context.Context, matchID string) ([]match.Player, error) {
	query, args, err := qb.Select(playerColumns...).From("match_players").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("seat").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, q.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]match.Player, 0, len(rows))
	for _, row := range rows {
		p, err := playerFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (q queries) GetHole(ctx context.Context, holeID string) (match.Hole, bool, error) {
	return q.getHole(ctx, qb.Eq("public_id", holeID))
}

func (q queries) GetHoleByNumber(ctx context.Context, matchID string, holeNumber int) (match.Hole, bool, error) {
	return q.getHole(ctx, qb.Eq("match_public_id", matchID), qb.Eq("hole_number", holeNumber))
}

func (q queries) getHole(ctx context.Context, conds ...qb.Condition) (match.Hole, bool, error) {
	query, args, err := qb.Select(holeColumns...).From("match_holes").Where(conds...).ToSQL()
	if err != nil {
		return match.Hole{}, false, fmt.Errorf("build get hole query: %w", err)
	}

	var row holeTableModel
	if err := sqlx.GetContext(ctx, q.ext, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Hole{}, false, nil
		}
		return match.Hole{}, false, fmt.Errorf("get hole: %w", err)
	}

	matchups, err := q.listHoleMatches(ctx, qb.Eq("hole_public_id", row.PublicID))
	if err != nil {
		return match.Hole{}, false, err
	}
	holes, err := assembleHoles([]holeTableModel{row}, matchups)
	if err != nil {
		return match.Hole{}, false, err
	}
	return holes[0], true, nil
}

func (q queries) ListHoles(ctx context.Context, matchID string) ([]match.Hole, error) {
	query, args, err := qb.Select(holeColumns...).From("match_holes").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("hole_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list holes query: %w", err)
	}

	var rows []holeTableModel
	if err := sqlx.SelectContext(ctx, q.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list holes: %w", err)
	}
	if len(rows) == 0 {
		return []match.Hole{}, nil
	}

	matchups, err := q.listHoleMatches(ctx, qb.Eq("match_public_id", matchID))
	if err != nil {
		return nil, err
	}
	return assembleHoles(rows, matchups)
}

func (q queries) listHoleMatches(ctx context.Context, conds ...qb.Condition) ([]holeMatchTableModel, error) {
	query, args, err := qb.Select(holeMatchColumns...).From("hole_matches").
		Where(conds...).
		OrderBy("hole_public_id", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list hole matches query: %w", err)
	}

	var rows []holeMatchTableModel
	if err := sqlx.SelectContext(ctx, q.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list hole matches: %w", err)
	}
	return rows, nil
}

func (q queries) ListStandings(ctx context.Context, matchID string) ([]standing.Row, error) {
	query, args, err := qb.Select("s.match_public_id", "s.player_public_id", "s.thru", "s.wins", "s.draws", "s.losses", "s.points").
		From("match_standings s JOIN match_players p ON p.public_id = s.player_public_id").
		Where(qb.Eq("s.match_public_id", matchID)).
		OrderBy("p.seat").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}

	var rows []standingTableModel
	if err := sqlx.SelectContext(ctx, q.ext, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list standings: %w", err)
	}

	out := make([]standing.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standingFromRow(row))
	}
	return out, nil
}

type unitOfWork struct {
	queries
}

func (u *unitOfWork) LockMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	m, ok, err := u.getMatch(ctx, matchID, true)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("lock match: %w", err)
	}
	return m, ok, nil
}

func (u *unitOfWork) InsertMatch(ctx context.Context, m match.Match) error {
	query, args, err := qb.InsertModel("matches", matchInsertModel{
		PublicID:  m.ID,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	return nil
}

func (u *unitOfWork) InsertPlayers(ctx context.Context, players []match.Player) error {
	rows := make([]playerTableModel, 0, len(players))
	for _, p := range players {
		rows = append(rows, playerToRow(p))
	}
	query, args, err := qb.InsertModels("match_players", rows, "")
	if err != nil {
		return fmt.Errorf("build insert players query: %w", err)
	}
	if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert players: %w", err)
	}
	return nil
}

func (u *unitOfWork) InsertHoles(ctx context.Context, holes []match.Hole) error {
	holeRows := make([]holeTableModel, 0, len(holes))
	matchupRows := make([]holeMatchTableModel, 0, len(holes)*match.PairingsPerHole)
	for _, h := range holes {
		holeRows = append(holeRows, holeTableModel{PublicID: h.ID, MatchID: h.MatchID, Number: h.Number})
		for _, hm := range h.Matches {
			matchupRows = append(matchupRows, holeMatchToRow(hm))
		}
	}

	query, args, err := qb.InsertModels("match_holes", holeRows, "")
	if err != nil {
		return fmt.Errorf("build insert holes query: %w", err)
	}
	if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert holes: %w", err)
	}

	query, args, err = qb.InsertModels("hole_matches", matchupRows, "")
	if err != nil {
		return fmt.Errorf("build insert hole matches query: %w", err)
	}
	if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert hole matches: %w", err)
	}
	return nil
}

func (u *unitOfWork) InsertStandings(ctx context.Context, rows []standing.Row) error {
	models := make([]standingTableModel, 0, len(rows))
	for _, row := range rows {
		models = append(models, standingToRow(row))
	}
	query, args, err := qb.InsertModels("match_standings", models, "")
	if err != nil {
		return fmt.Errorf("build insert standings query: %w", err)
	}
	if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert standings: %w", err)
	}
	return nil
}

func (u *unitOfWork) UpdateScorecard(ctx context.Context, playerID string, card scorecard.Scorecard) error {
	query, args, err := qb.Update("match_players").
		Set("scorecard", pq.StringArray(card.Strings())).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update scorecard query: %w", err)
	}
	return u.execOne(ctx, "update scorecard player="+playerID, query, args)
}

func (u *unitOfWork) UpdateHoleMatchOutcome(ctx context.Context, holeMatchID string, outcome match.Outcome) error {
	kind, winner := outcomeToColumns(outcome)
	query, args, err := qb.Update("hole_matches").
		Set("outcome", kind).
		Set("winner_player_public_id", winner).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", holeMatchID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update hole match outcome query: %w", err)
	}
	return u.execOne(ctx, "update hole match outcome id="+holeMatchID, query, args)
}

func (u *unitOfWork) UpsertStanding(ctx context.Context, row standing.Row) error {
	query, args, err := qb.InsertModel("match_standings", standingToRow(row), `ON CONFLICT (player_public_id)
DO UPDATE SET
    thru = EXCLUDED.thru,
    wins = EXCLUDED.wins,
    draws = EXCLUDED.draws,
    losses = EXCLUDED.losses,
    points = EXCLUDED.points,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert standing query: %w", err)
	}
	if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert standing player=%s: %w", row.PlayerID, err)
	}
	return nil
}

func (u *unitOfWork) MarkCompleted(ctx context.Context, m match.Match) error {
	var completedAt sql.NullTime
	if m.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *m.CompletedAt, Valid: true}
	}
	query, args, err := qb.Update("matches").
		Set("completed", true).
		Set("completed_at", completedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark completed query: %w", err)
	}
	return u.execOne(ctx, "mark match completed id="+m.ID, query, args)
}

// DeleteMatch removes children first so the delete does not depend on ON DELETE CASCADE.
func (u *unitOfWork) DeleteMatch(ctx context.Context, matchID string) (bool, error) {
	for _, table := range []string{"hole_matches", "match_standings", "match_holes", "match_players"} {
		query, args, err := qb.DeleteFrom(table).Where(qb.Eq("match_public_id", matchID)).ToSQL()
		if err != nil {
			return false, fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := u.ext.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("delete %s of match %s: %w", table, matchID, err)
		}
	}

	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("public_id", matchID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match query: %w", err)
	}
	res, err := u.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete match rows affected: %w", err)
	}
	return affected > 0, nil
}

var errNoRowsAffected = errors.New("no rows affected")

func (u *unitOfWork) execOne(ctx context.Context, op, query string, args []any) error {
	res, err := u.ext.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, errNoRowsAffected)
	}
	return nil
}
