package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/riskibarqy/fourball-matchplay/internal/domain/match"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/scorecard"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
)

var errDuplicateKey = errors.New("duplicate key")

var (
	_ match.Store      = (*MatchStore)(nil)
	_ match.UnitOfWork = (*unitOfWork)(nil)
)

// MatchStore keeps matches in process memory. Every match has its own writer
// lock and committed snapshot. A unit of work locks each match it touches and
// edits a private copy that replaces the snapshot only on success, so units of
// work on different matches run in parallel.
type MatchStore struct {
	mu      sync.RWMutex
	matches map[string]*matchSlot
	index   map[entityKey]string // player, hole and hole match id -> match id
}

type matchSlot struct {
	lock  chan struct{}
	state *matchState // guarded by MatchStore.mu; nil once deleted
}

func newSlot() *matchSlot {
	return &matchSlot{lock: make(chan struct{}, 1)}
}

func (sl *matchSlot) acquire(ctx context.Context) error {
	select {
	case sl.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (sl *matchSlot) release() {
	<-sl.lock
}

type entityKind uint8

const (
	kindPlayer entityKind = iota + 1
	kindHole
	kindHoleMatch
)

type entityKey struct {
	kind entityKind
	id   string
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		matches: make(map[string]*matchSlot),
		index:   make(map[entityKey]string),
	}
}

func (s *MatchStore) WithinTx(ctx context.Context, fn func(ctx context.Context, uow match.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	u := &unitOfWork{
		store: s,
		held:  make(map[string]*matchSlot),
		work:  make(map[string]*matchState),
		index: make(map[entityKey]string),
	}
	defer u.releaseAll()

	if err := fn(ctx, u); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(u)
}

func (s *MatchStore) commit(u *unitOfWork) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, slot := range u.held {
		if cur, ok := s.matches[id]; ok && cur != slot {
			return fmt.Errorf("insert match %s: %w", id, errDuplicateKey)
		}
	}
	for key, matchID := range u.index {
		if cur, ok := s.index[key]; ok && cur != matchID {
			return fmt.Errorf("insert %s: %w", key.id, errDuplicateKey)
		}
	}

	for id, slot := range u.held {
		if old := slot.state; old != nil {
			for _, key := range old.keys() {
				delete(s.index, key)
			}
		}
		st := u.work[id]
		slot.state = st
		if st == nil {
			delete(s.matches, id)
			continue
		}
		s.matches[id] = slot
		for _, key := range st.keys() {
			s.index[key] = id
		}
	}
	return nil
}

func (s *MatchStore) slot(matchID string) *matchSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches[matchID]
}

// snapshot returns the committed state of a match. Snapshots are never mutated.
func (s *MatchStore) snapshot(matchID string) *matchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slot, ok := s.matches[matchID]; ok {
		return slot.state
	}
	return nil
}

func (s *MatchStore) snapshotOf(kind entityKind, id string) *matchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matchID, ok := s.index[entityKey{kind: kind, id: id}]
	if !ok {
		return nil
	}
	if slot, ok := s.matches[matchID]; ok {
		return slot.state
	}
	return nil
}

func (s *MatchStore) matchOf(kind entityKind, id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matchID, ok := s.index[entityKey{kind: kind, id: id}]
	return matchID, ok
}

func (s *MatchStore) snapshots() map[string]*matchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*matchState, len(s.matches))
	for id, slot := range s.matches {
		out[id] = slot.state
	}
	return out
}

func (s *MatchStore) GetMatch(_ context.Context, matchID string) (match.Match, bool, error) {
	st := s.snapshot(matchID)
	if st == nil {
		return match.Match{}, false, nil
	}
	return st.match, true, nil
}

func (s *MatchStore) ListMatchesByOwner(_ context.Context, ownerID string) ([]match.Match, error) {
	return matchesByOwner(s.snapshots(), ownerID), nil
}

func (s *MatchStore) ListMatchIDs(_ context.Context) ([]string, error) {
	return matchIDs(s.snapshots()), nil
}

func (s *MatchStore) GetPlayer(_ context.Context, playerID string) (match.Player, bool, error) {
	p, ok := s.snapshotOf(kindPlayer, playerID).player(playerID)
	return p, ok, nil
}

func (s *MatchStore) ListPlayers(_ context.Context, matchID string) ([]match.Player, error) {
	return s.snapshot(matchID).playerList(), nil
}

func (s *MatchStore) GetHole(_ context.Context, holeID string) (match.Hole, bool, error) {
	h, ok := s.snapshotOf(kindHole, holeID).holeByID(holeID)
	return h, ok, nil
}

func (s *MatchStore) GetHoleByNumber(_ context.Context, matchID string, holeNumber int) (match.Hole, bool, error) {
	h, ok := s.snapshot(matchID).holeByNumber(holeNumber)
	return h, ok, nil
}

func (s *MatchStore) ListHoles(_ context.Context, matchID string) ([]match.Hole, error) {
	return s.snapshot(matchID).holeList(), nil
}

func (s *MatchStore) ListStandings(_ context.Context, matchID string) ([]standing.Row, error) {
	return s.snapshot(matchID).standingRows(), nil
}

// matchState is everything stored for one match. A nil *matchState reads as
// an absent match.
type matchState struct {
	match     match.Match
	players   []match.Player          // seat order
	holes     map[int]match.Hole      // by hole number
	standings map[string]standing.Row // by player id
}

func newMatchState(m match.Match) *matchState {
	return &matchState{
		match:     m,
		holes:     make(map[int]match.Hole, scorecard.HoleCount),
		standings: make(map[string]standing.Row, match.PlayerCount),
	}
}

// clone copies the containers. Entity values hold no shared mutable data apart
// from Match.CompletedAt, which is only ever replaced.
func (st *matchState) clone() *matchState {
	return &matchState{
		match:     st.match,
		players:   slices.Clone(st.players),
		holes:     maps.Clone(st.holes),
		standings: maps.Clone(st.standings),
	}
}

func (st *matchState) keys() []entityKey {
	out := make([]entityKey, 0, len(st.players)+len(st.holes)*(1+match.PairingsPerHole))
	for _, p := range st.players {
		out = append(out, entityKey{kind: kindPlayer, id: p.ID})
	}
	for _, h := range st.holes {
		out = append(out, entityKey{kind: kindHole, id: h.ID})
		for _, hm := range h.Matches {
			out = append(out, entityKey{kind: kindHoleMatch, id: hm.ID})
		}
	}
	return out
}

func (st *matchState) playerIndex(playerID string) int {
	if st == nil {
		return -1
	}
	return slices.IndexFunc(st.players, func(p match.Player) bool { return p.ID == playerID })
}

func (st *matchState) player(playerID string) (match.Player, bool) {
	i := st.playerIndex(playerID)
	if i < 0 {
		return match.Player{}, false
	}
	return st.players[i], true
}

func (st *matchState) playerList() []match.Player {
	if st == nil {
		return []match.Player{}
	}
	return slices.Clone(st.players)
}

func (st *matchState) holeByNumber(number int) (match.Hole, bool) {
	if st == nil {
		return match.Hole{}, false
	}
	h, ok := st.holes[number]
	return h, ok
}

func (st *matchState) holeByID(holeID string) (match.Hole, bool) {
	if st == nil {
		return match.Hole{}, false
	}
	for _, h := range st.holes {
		if h.ID == holeID {
			return h, true
		}
	}
	return match.Hole{}, false
}

func (st *matchState) holeList() []match.Hole {
	out := make([]match.Hole, 0, scorecard.HoleCount)
	if st == nil {
		return out
	}
	for _, h := range st.holes {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (st *matchState) standingRows() []standing.Row {
	if st == nil {
		return []standing.Row{}
	}
	out := make([]standing.Row, 0, len(st.players))
	for _, p := range st.players {
		if row, ok := st.standings[p.ID]; ok {
			out = append(out, row)
		}
	}
	return out
}

func matchesByOwner(states map[string]*matchState, ownerID string) []match.Match {
	out := make([]match.Match, 0)
	for _, st := range states {
		if st != nil && st.match.OwnerID == ownerID {
			out = append(out, st.match)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func matchIDs(states map[string]*matchState) []string {
	out := make([]string, 0, len(states))
	for id, st := range states {
		if st != nil {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// unitOfWork locks every match it reads or writes until WithinTx returns.
type unitOfWork struct {
	store *MatchStore
	held  map[string]*matchSlot
	work  map[string]*matchState // private copies; nil once deleted in this unit
	index map[entityKey]string   // ids inserted in this unit
}

func (u *unitOfWork) releaseAll() {
	for _, slot := range u.held {
		slot.release()
	}
}

// open locks matchID and returns the private copy, or nil when the match does not exist.
func (u *unitOfWork) open(ctx context.Context, matchID string) (*matchState, error) {
	if st, ok := u.work[matchID]; ok {
		return st, nil
	}
	slot := u.store.slot(matchID)
	if slot == nil {
		return nil, nil
	}
	if err := slot.acquire(ctx); err != nil {
		return nil, err
	}
	st := u.store.snapshot(matchID)
	if st == nil || u.store.slot(matchID) != slot {
		// Deleted while we waited.
		slot.release()
		return nil, nil
	}
	u.held[matchID] = slot
	st = st.clone()
	u.work[matchID] = st
	return st, nil
}

func (u *unitOfWork) resolve(kind entityKind, id string) (string, bool) {
	if matchID, ok := u.index[entityKey{kind: kind, id: id}]; ok {
		return matchID, true
	}
	return u.store.matchOf(kind, id)
}

func (u *unitOfWork) openOf(ctx context.Context, kind entityKind, id string) (*matchState, error) {
	matchID, ok := u.resolve(kind, id)
	if !ok {
		return nil, nil
	}
	return u.open(ctx, matchID)
}

func (u *unitOfWork) claim(kind entityKind, id, matchID, what string) error {
	if _, exists := u.resolve(kind, id); exists {
		return fmt.Errorf("insert %s %s: %w", what, id, errDuplicateKey)
	}
	u.index[entityKey{kind: kind, id: id}] = matchID
	return nil
}

func (u *unitOfWork) states() map[string]*matchState {
	all := u.store.snapshots()
	for id, st := range u.work {
		all[id] = st
	}
	return all
}

func (u *unitOfWork) GetMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	st, err := u.open(ctx, matchID)
	if err != nil || st == nil {
		return match.Match{}, false, err
	}
	return st.match, true, nil
}

func (u *unitOfWork) ListMatchesByOwner(_ context.Context, ownerID string) ([]match.Match, error) {
	return matchesByOwner(u.states(), ownerID), nil
}

func (u *unitOfWork) ListMatchIDs(_ context.Context) ([]string, error) {
	return matchIDs(u.states()), nil
}

func (u *unitOfWork) GetPlayer(ctx context.Context, playerID string) (match.Player, bool, error) {
	st, err := u.openOf(ctx, kindPlayer, playerID)
	if err != nil {
		return match.Player{}, false, err
	}
	p, ok := st.player(playerID)
	return p, ok, nil
}

func (u *unitOfWork) ListPlayers(ctx context.Context, matchID string) ([]match.Player, error) {
	st, err := u.open(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return st.playerList(), nil
}

func (u *unitOfWork) GetHole(ctx context.Context, holeID string) (match.Hole, bool, error) {
	st, err := u.openOf(ctx, kindHole, holeID)
	if err != nil {
		return match.Hole{}, false, err
	}
	h, ok := st.holeByID(holeID)
	return h, ok, nil
}

func (u *unitOfWork) GetHoleByNumber(ctx context.Context, matchID string, holeNumber int) (match.Hole, bool, error) {
	st, err := u.open(ctx, matchID)
	if err != nil {
		return match.Hole{}, false, err
	}
	h, ok := st.holeByNumber(holeNumber)
	return h, ok, nil
}

func (u *unitOfWork) ListHoles(ctx context.Context, matchID string) ([]match.Hole, error) {
	st, err := u.open(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return st.holeList(), nil
}

func (u *unitOfWork) ListStandings(ctx context.Context, matchID string) ([]standing.Row, error) {
	st, err := u.open(ctx, matchID)
	if err != nil {
		return nil, err
	}
	return st.standingRows(), nil
}

func (u *unitOfWork) LockMatch(ctx context.Context, matchID string) (match.Match, bool, error) {
	return u.GetMatch(ctx, matchID)
}

func (u *unitOfWork) InsertMatch(ctx context.Context, m match.Match) error {
	if st, ok := u.work[m.ID]; ok {
		if st != nil {
			return fmt.Errorf("insert match %s: %w", m.ID, errDuplicateKey)
		}
		u.work[m.ID] = newMatchState(m)
		return nil
	}
	if u.store.snapshot(m.ID) != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, errDuplicateKey)
	}

	slot := newSlot()
	if err := slot.acquire(ctx); err != nil {
		return err
	}
	u.held[m.ID] = slot
	u.work[m.ID] = newMatchState(m)
	return nil
}

func (u *unitOfWork) InsertPlayers(ctx context.Context, players []match.Player) error {
	for _, p := range players {
		st, err := u.open(ctx, p.MatchID)
		if err != nil {
			return err
		}
		if st == nil {
			return fmt.Errorf("insert player %s: match %s does not exist", p.ID, p.MatchID)
		}
		if err := u.claim(kindPlayer, p.ID, p.MatchID, "player"); err != nil {
			return err
		}
		st.players = append(st.players, p)
		match.SortPlayersBySeat(st.players)
	}
	return nil
}

func (u *unitOfWork) InsertHoles(ctx context.Context, holes []match.Hole) error {
	for _, h := range holes {
		st, err := u.open(ctx, h.MatchID)
		if err != nil {
			return err
		}
		if st == nil {
			return fmt.Errorf("insert hole %s: match %s does not exist", h.ID, h.MatchID)
		}
		if _, exists := st.holes[h.Number]; exists {
			return fmt.Errorf("insert hole %d of match %s: %w", h.Number, h.MatchID, errDuplicateKey)
		}
		if err := u.claim(kindHole, h.ID, h.MatchID, "hole"); err != nil {
			return err
		}
		for _, hm := range h.Matches {
			if err := hm.Validate(); err != nil {
				return fmt.Errorf("insert hole match %s: %w", hm.ID, err)
			}
			if err := u.claim(kindHoleMatch, hm.ID, h.MatchID, "hole match"); err != nil {
				return err
			}
		}
		st.holes[h.Number] = h
	}
	return nil
}

func (u *unitOfWork) InsertStandings(ctx context.Context, rows []standing.Row) error {
	for _, row := range rows {
		st, err := u.openOf(ctx, kindPlayer, row.PlayerID)
		if err != nil {
			return err
		}
		if st.playerIndex(row.PlayerID) < 0 {
			return fmt.Errorf("insert standing: player %s does not exist", row.PlayerID)
		}
		if _, exists := st.standings[row.PlayerID]; exists {
			return fmt.Errorf("insert standing for player %s: %w", row.PlayerID, errDuplicateKey)
		}
		st.standings[row.PlayerID] = row
	}
	return nil
}

func (u *unitOfWork) UpdateScorecard(ctx context.Context, playerID string, card scorecard.Scorecard) error {
	st, err := u.openOf(ctx, kindPlayer, playerID)
	if err != nil {
		return err
	}
	i := st.playerIndex(playerID)
	if i < 0 {
		return fmt.Errorf("update scorecard: player %s does not exist", playerID)
	}
	st.players[i].Scorecard = card
	return nil
}

func (u *unitOfWork) UpdateHoleMatchOutcome(ctx context.Context, holeMatchID string, outcome match.Outcome) error {
	st, err := u.openOf(ctx, kindHoleMatch, holeMatchID)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("update outcome: hole match %s does not exist", holeMatchID)
	}
	for number, h := range st.holes {
		for i := range h.Matches {
			if h.Matches[i].ID != holeMatchID {
				continue
			}
			if err := h.Matches[i].ValidateOutcome(outcome); err != nil {
				return err
			}
			h.Matches[i].Outcome = outcome
			st.holes[number] = h
			return nil
		}
	}
	return fmt.Errorf("update outcome: hole match %s does not exist", holeMatchID)
}

func (u *unitOfWork) UpsertStanding(ctx context.Context, row standing.Row) error {
	st, err := u.openOf(ctx, kindPlayer, row.PlayerID)
	if err != nil {
		return err
	}
	if st.playerIndex(row.PlayerID) < 0 {
		return fmt.Errorf("upsert standing: player %s does not exist", row.PlayerID)
	}
	st.standings[row.PlayerID] = row
	return nil
}

func (u *unitOfWork) MarkCompleted(ctx context.Context, m match.Match) error {
	st, err := u.open(ctx, m.ID)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("mark completed: match %s does not exist", m.ID)
	}
	st.match.Completed = true
	st.match.CompletedAt = m.CompletedAt
	return nil
}

func (u *unitOfWork) DeleteMatch(ctx context.Context, matchID string) (bool, error) {
	st, err := u.open(ctx, matchID)
	if err != nil || st == nil {
		return false, err
	}
	u.work[matchID] = nil
	return true, nil
}
