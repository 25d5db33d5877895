package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nursequest/nursequest/internal/app/economy"
	"github.com/nursequest/nursequest/internal/domain"
	"github.com/nursequest/nursequest/internal/health"
	"github.com/nursequest/nursequest/internal/infra/catalog"
	"github.com/nursequest/nursequest/internal/infra/memstore"
)

func newTestServer(t *testing.T) (*httptest.Server, *economy.ManualClock) {
	t.Helper()
	clock := economy.NewManualClock(time.Date(2025, 7, 2, 10, 0, 0, 0, time.Local))
	s := economy.NewSession(memstore.New(),
		economy.WithProfile("api"),
		economy.WithClock(clock),
		economy.WithRand(rand.New(rand.NewSource(1))),
	)
	compat, err := catalog.CompatTable()
	require.NoError(t, err)
	eng, err := economy.NewEngine(s, economy.Config{
		Cards:     catalog.Cards,
		Questions: catalog.Questions,
		Compat:    compat,
	})
	require.NoError(t, err)

	srv := NewServer(eng, nil)
	srv.EnableMetrics()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, clock
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

type failingStore struct{ *memstore.Store }

func (failingStore) Set(key, value string) error { return errors.New("read-only") }

func TestHealth_Degraded(t *testing.T) {
	s := economy.NewSession(memstore.New(), economy.WithProfile("api"))
	eng, err := economy.NewEngine(s, economy.Config{Cards: catalog.Cards, Questions: catalog.Questions})
	require.NoError(t, err)

	checker := health.NewChecker(failingStore{memstore.New()}, "")
	checker.RunOnce(context.Background())

	srv := NewServer(eng, nil)
	srv.SetHealth(checker)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, body := do(t, ts, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "degraded", body["status"])
	assert.Len(t, body["checks"], 1)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, ts, http.MethodGet, "/api/economy/snapshot", "")

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "nursequest_api_request_seconds")
}

func TestDailyQuizFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodPost, "/api/economy/quiz/daily", `{"correct":4,"total":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 60, body["coins"])
	assert.EqualValues(t, 44, body["xp"])

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/quiz/daily", `{"correct":4,"total":5}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = do(t, ts, http.MethodGet, "/api/economy/snapshot", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	wallet := body["wallet"].(map[string]any)
	assert.EqualValues(t, 60, wallet["coins"])
}

func TestInvalidScoreIsBadRequest(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := do(t, ts, http.MethodPost, "/api/economy/quiz/weekly", `{"correct":9,"total":5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "error")

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/quiz/weekly", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMissionClaim(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := do(t, ts, http.MethodPost, "/api/economy/missions/read/claim", `{"tier":1}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "requirement not met")

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/read", `{"articleId":"a1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/missions/read/claim", `{"tier":2}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "skipped tier")

	resp, body := do(t, ts, http.MethodPost, "/api/economy/missions/read/claim", `{"tier":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 10, body["coins"])

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/missions/nope/claim", `{"tier":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMissionsAndAchievementsLists(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/economy/missions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["missions"], len(economy.DefaultMissions()))

	resp, body = do(t, ts, http.MethodGet, "/api/economy/achievements", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["achievements"], len(economy.DefaultAchievements()))

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/achievements/first_quiz/claim", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPackFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := do(t, ts, http.MethodPost, "/api/economy/packs/open", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/login", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, ts, http.MethodPost, "/api/economy/packs/open", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["id"])
	assert.NotEmpty(t, body["cards"])

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/cards/recycle", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/packs/buy", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "not enough coins")
}

func TestToolLimit(t *testing.T) {
	ts, _ := newTestServer(t)
	body := `{"eye":4,"verbal":5,"motor":6}`
	for i := 0; i < 5; i++ {
		resp, out := do(t, ts, http.MethodPost, "/api/economy/tools/gcs", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.EqualValues(t, 4-i, out["remaining"])
	}
	resp, _ := do(t, ts, http.MethodPost, "/api/economy/tools/gcs", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	resp, _ = do(t, ts, http.MethodPost, "/api/economy/tools/news2", `{"spo2":150}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompat(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := do(t, ts, http.MethodGet, "/api/economy/tools/compat", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["drugs"])

	resp, body = do(t, ts, http.MethodGet, "/api/economy/tools/compat?a=eparina&b=amiodarone", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := body["result"].(map[string]any)
	assert.Equal(t, "incompatible", result["severity"])

	resp, _ = do(t, ts, http.MethodGet, "/api/economy/tools/compat?a=eparina&b=caffe", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExportImport(t *testing.T) {
	ts, _ := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/economy/login", "")

	resp, err := http.Get(ts.URL + "/api/economy/export")
	require.NoError(t, err)
	blob, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	other, _ := newTestServer(t)
	resp, _ = do(t, other, http.MethodPost, "/api/economy/import", string(blob))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := do(t, other, http.MethodGet, "/api/economy/snapshot", "")
	wallet := body["wallet"].(map[string]any)
	assert.EqualValues(t, economy.LoginCoins, wallet["coins"])

	resp, _ = do(t, other, http.MethodPost, "/api/economy/import", `{"version":7}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(domain.ErrAlreadyClaimed))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(domain.ErrLimitExceeded))
	assert.Equal(t, http.StatusNotFound, statusFor(domain.ErrUnknownDrug))
	assert.Equal(t, http.StatusBadRequest, statusFor(domain.ErrInvariant))
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.ErrUnexpectedEOF))
}

func TestQuizStats_Clear(t *testing.T) {
	ts, _ := newTestServer(t)
	q := catalog.Questions[0]

	resp, _ := do(t, ts, http.MethodPost, "/api/economy/quiz/answer",
		fmt.Sprintf(`{"questionId":%q,"selected":%d}`, q.ID, q.Answer))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, ts, http.MethodGet, "/api/economy/quiz/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["categories"], q.Category)
	assert.Contains(t, body["questions"], q.ID)

	resp, body = do(t, ts, http.MethodPost, "/api/economy/quiz/stats/clear", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["cleared"])

	_, body = do(t, ts, http.MethodGet, "/api/economy/quiz/stats", "")
	assert.Empty(t, body["categories"])
	assert.Empty(t, body["questions"])
}
