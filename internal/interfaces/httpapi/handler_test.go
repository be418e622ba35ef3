package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fourball-matchplay/internal/domain/standing"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/account/static"
	"github.com/riskibarqy/fourball-matchplay/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/cache"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/id"
	"github.com/riskibarqy/fourball-matchplay/internal/platform/logging"
	"github.com/riskibarqy/fourball-matchplay/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ownerToken    = "token-owner"
	strangerToken = "token-stranger"
	jobToken      = "job-secret"
)

type envelope[T any] struct {
	APIVersion string `json:"apiVersion"`
	Data       T      `json:"data"`
	Error      *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
		Errors  []struct {
			Reason     string `json:"reason"`
			HoleNumber int    `json:"hole_number"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	store := memory.NewMatchStore()
	standings := usecase.NewStandingService(store, cache.NewStore[[]standing.Entry](time.Minute), logger)
	handler := NewHandler(
		usecase.NewMatchService(store, id.NewUUIDGenerator(), standings, logger),
		usecase.NewHoleService(store, standings, logger),
		usecase.NewScorecardService(store, standings, logger),
		standings,
		2,
		logger,
	)
	verifier := static.NewVerifier(map[string]string{
		ownerToken:    "owner-1",
		strangerToken: "owner-2",
	})
	return NewRouter(handler, verifier, logger, []string{"*"}, jobToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = sonic.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createTestMatch(t *testing.T, router http.Handler) matchDTO {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/v1/matches", ownerToken, map[string]any{
		"player_names": []string{"Alice", "Bob", "Carol", "Dave"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[matchDTO](t, rec).Data
}

func TestRouter_HealthzIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MatchRoutesRequireBearerToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/matches", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/matches", "unknown", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateMatch_ReturnsPlayersInSeatOrder(t *testing.T) {
	router := newTestRouter(t)

	created := createTestMatch(t, router)
	require.Len(t, created.Players, 4)
	assert.Equal(t, "owner-1", created.OwnerID)
	assert.False(t, created.Completed)
	for seat, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		assert.Equal(t, name, created.Players[seat].Name)
		assert.Equal(t, seat, created.Players[seat].Seat)
		assert.Len(t, created.Players[seat].Scorecard, 18)
	}

	rec := doRequest(t, router, http.MethodGet, "/v1/matches", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decodeBody[[]matchDTO](t, rec).Data
	require.Len(t, listed, 1)
	assert.Equal(t, created.ID, listed[0].ID)
}

func TestCreateMatch_RejectsWrongPlayerCount(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/matches", ownerToken, map[string]any{
		"player_names": []string{"Alice", "Bob", "Carol"},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", decodeBody[any](t, rec).Error.Status)

	rec = doRequest(t, router, http.MethodPost, "/v1/matches", ownerToken, map[string]any{
		"player_names": []string{"A", "B", "C", "D"},
		"unexpected":   true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMatchRoutes_OtherOwnerSeesNotFound(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)

	for _, path := range []string{
		"/v1/matches/" + created.ID,
		"/v1/matches/" + created.ID + "/standings",
		"/v1/matches/" + created.ID + "/holes/1",
	} {
		rec := doRequest(t, router, http.MethodGet, path, strangerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := doRequest(t, router, http.MethodDelete, "/v1/matches/"+created.ID, strangerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordHoleOutcome_UpdatesHoleAndStandings(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)
	base := "/v1/matches/" + created.ID

	rec := doRequest(t, router, http.MethodGet, base+"/holes/1", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeBody[holeViewDTO](t, rec).Data
	require.Len(t, view.Hole.Matches, 2)
	assert.Equal(t, 2, view.NextHole)
	assert.False(t, view.Hole.Complete)

	winner := view.Hole.Matches[0].Player1ID
	rec = doRequest(t, router, http.MethodPut, base+"/holes/1/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{
			{"result": "winner", "player_id": winner},
			{"result": "draw"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	hole := decodeBody[holeDTO](t, rec).Data
	assert.True(t, hole.Complete)
	assert.Equal(t, "winner", hole.Matches[0].Result)
	assert.Equal(t, winner, hole.Matches[0].WinnerID)
	assert.Equal(t, "draw", hole.Matches[1].Result)

	rec = doRequest(t, router, http.MethodGet, base+"/standings", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	table := decodeBody[[]standingDTO](t, rec).Data
	require.Len(t, table, 4)
	assert.Equal(t, 1, table[0].Rank)
	assert.Equal(t, winner, table[0].PlayerID)
	assert.Equal(t, standing.PointsPerWin, table[0].Points)
	assert.Equal(t, 1, table[0].Thru)

	rec = doRequest(t, router, http.MethodGet, base+"/next-hole", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	next := decodeBody[nextHoleDTO](t, rec).Data
	assert.False(t, next.AllComplete)
	require.NotNil(t, next.Hole)
	assert.Equal(t, 2, next.Hole.Number)
}

func TestRecordHoleOutcome_RejectsBadRequests(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)
	base := "/v1/matches/" + created.ID

	rec := doRequest(t, router, http.MethodPut, base+"/holes/abc/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{{"result": "draw"}, {"result": "draw"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, base+"/holes/19/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{{"result": "draw"}, {"result": "draw"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, base+"/holes/1/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{{"result": "draw"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, base+"/holes/1/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{{"result": "winner"}, {"result": "draw"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, base+"/holes/1/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{{"result": "winner", "player_id": "not-a-player"}, {"result": "draw"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinishMatch_ReportsFirstIncompleteHole(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)

	rec := doRequest(t, router, http.MethodPost, "/v1/matches/"+created.ID+"/finish", ownerToken, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody[any](t, rec)
	require.NotNil(t, body.Error)
	require.Len(t, body.Error.Errors, 1)
	assert.Equal(t, "holeIncomplete", body.Error.Errors[0].Reason)
	assert.Equal(t, 1, body.Error.Errors[0].HoleNumber)
}

func TestFinishMatch_AfterAllHolesDrawn(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)
	base := "/v1/matches/" + created.ID

	for hole := 1; hole <= 18; hole++ {
		rec := doRequest(t, router, http.MethodPut, base+"/holes/"+strconv.Itoa(hole)+"/outcome", ownerToken, map[string]any{
			"winners": []map[string]string{{"result": "draw"}, {"result": "draw"}},
		})
		require.Equal(t, http.StatusOK, rec.Code, "hole %d: %s", hole, rec.Body.String())
	}

	rec := doRequest(t, router, http.MethodGet, base+"/next-hole", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[nextHoleDTO](t, rec).Data.AllComplete)

	rec = doRequest(t, router, http.MethodPost, base+"/finish", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, base, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[matchDTO](t, rec).Data
	assert.True(t, detail.Completed)
	assert.NotEmpty(t, detail.CompletedAt)

	rec = doRequest(t, router, http.MethodPut, base+"/holes/3/outcome", ownerToken, map[string]any{
		"winners": []map[string]string{{"result": "draw"}, {"result": "draw"}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSetScorecardResult(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)
	player := created.Players[2]
	path := "/v1/matches/" + created.ID + "/players/" + player.ID + "/scorecard/5"

	rec := doRequest(t, router, http.MethodPut, path, ownerToken, map[string]string{"result": "W"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[playerDTO](t, rec).Data
	assert.Equal(t, "W", updated.Scorecard[4])

	rec = doRequest(t, router, http.MethodPut, path, ownerToken, map[string]string{"result": "X"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/v1/matches/"+created.ID+"/players/"+player.ID+"/scorecard/0", ownerToken, map[string]string{"result": "W"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPut, "/v1/matches/"+created.ID+"/players/someone-else/scorecard/5", ownerToken, map[string]string{"result": "W"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetScorecardResult_ReportsScorecardMessages(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)
	base := "/v1/matches/" + created.ID + "/players/" + created.Players[0].ID + "/scorecard/"

	tests := []struct {
		name    string
		hole    string
		result  string
		message string
	}{
		{name: "hole past eighteen", hole: "19", result: "", message: "Hole number must be between 1 and 18"},
		{name: "hole zero", hole: "0", result: "W", message: "Hole number must be between 1 and 18"},
		{name: "empty result", hole: "5", result: "", message: "Result must be one of: W, L, or D"},
		{name: "unknown result", hole: "5", result: "X", message: "Result must be one of: W, L, or D"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPut, base+tc.hole, ownerToken, map[string]string{"result": tc.result})
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decodeBody[any](t, rec)
			require.NotNil(t, body.Error)
			assert.Contains(t, body.Error.Message, tc.message)
		})
	}
}

func TestDeleteMatch(t *testing.T) {
	router := newTestRouter(t)
	created := createTestMatch(t, router)

	rec := doRequest(t, router, http.MethodDelete, "/v1/matches/"+created.ID, ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/v1/matches/"+created.ID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRebuildStandingsJob(t *testing.T) {
	router := newTestRouter(t)
	createTestMatch(t, router)

	rec := doRequest(t, router, http.MethodPost, "/v1/internal/jobs/rebuild-standings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/rebuild-standings?workers=3", nil)
	req.Header.Set("X-Internal-Job-Token", jobToken)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	result := decodeBody[rebuildDTO](t, res).Data
	assert.Equal(t, 1, result.Matches)
	assert.Equal(t, 1, result.Rebuilt)
	assert.Empty(t, result.Failed)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/rebuild-standings?workers=0", nil)
	req.Header.Set("X-Internal-Job-Token", jobToken)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}
