package ui

import (
	"bytes"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"newsdesk/adapters/classifier"
	"newsdesk/domain/prediction"
	"newsdesk/internal"
	"newsdesk/internal/dashboard"
	"newsdesk/internal/notify"
	"newsdesk/internal/session"
	"newsdesk/internal/stub"
	"newsdesk/internal/submission"
	"newsdesk/internal/testkit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/xuri/excelize/v2"
)

var testNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

type harness struct {
	server       *Server
	backend      *stub.Server
	notifier     *notify.Notifier
	historyCalls atomic.Int32
	predictCalls atomic.Int32
	sessionID    string
}

func init() {
	gin.SetMode(gin.TestMode)
}

// newHarness wires a Server to an in-process stub backend that counts the
// calls it receives.
func newHarness(t *testing.T, opts ...stub.Option) *harness {
	t.Helper()
	h := &harness{sessionID: session.NewID()}

	opts = append([]stub.Option{stub.WithClock(func() time.Time { return testNow })}, opts...)
	h.backend = stub.New(opts...)
	counting := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/history":
			h.historyCalls.Add(1)
		case r.Method == http.MethodPost && r.URL.Path == "/api/predict":
			h.predictCalls.Add(1)
		}
		h.backend.ServeHTTP(w, r)
	})
	backend := httptest.NewServer(counting)
	t.Cleanup(backend.Close)

	h.server = newTestServer(t, backend.URL)
	h.notifier = h.server.notifier
	return h
}

func newTestServer(t *testing.T, backendURL string) *Server {
	t.Helper()
	logger := internal.NewNopLogger()
	client := classifier.NewClient(classifier.WithBaseURL(backendURL), classifier.WithTimeout(5*time.Second))
	hub := notify.NewHub(logger)
	notifier := notify.NewNotifier(time.Minute, hub, logger)
	t.Cleanup(notifier.Close)

	srv, err := NewServer(Deps{
		Client:     client,
		Sessions:   session.NewStore(),
		Submission: submission.NewController(client, notifier, logger),
		Dashboard: dashboard.NewController(client, notifier, logger, dashboard.Options{
			Location: time.UTC,
			Now:      func() time.Time { return testNow },
		}),
		Notifier: notifier,
		Hub:      hub,
		Logger:   logger,
	}, Options{Location: time.UTC})
	require.NoError(t, err)
	srv.now = func() time.Time { return testNow }
	return srv
}

func (h *harness) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: h.sessionID})
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (h *harness) get(t *testing.T, path string) *httptest.ResponseRecorder {
	return h.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func fetchForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "fetch")
	return req
}

func seeded(n int) []prediction.Record {
	cfg := testkit.DefaultHistoryConfig()
	cfg.Count = n
	cfg.Days = 3
	cfg.End = testNow
	return testkit.NewHistoryGenerator(cfg).Generate()
}

func TestIndexShowsPlaceholderForEmptyHistory(t *testing.T) {
	h := newHarness(t)

	rec := h.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, 1, strings.Count(body, `class="placeholder"`))
	assert.Contains(t, body, "No predictions yet")
	assert.Contains(t, body, "</html>")
}

func TestHistoryTablesAreTruncated(t *testing.T) {
	h := newHarness(t, stub.WithHistory(seeded(12)))

	home := h.get(t, "/").Body.String()
	assert.Equal(t, 5, strings.Count(home, `<tr class="row-`))
	assert.NotContains(t, home, `class="placeholder"`)

	dash := h.get(t, "/dashboard").Body.String()
	assert.Equal(t, 10, strings.Count(dash, `<tr class="row-`))
	assert.Contains(t, dash, `data-phase="rendered"`)

	frag := h.get(t, "/history?limit=3").Body.String()
	assert.Equal(t, 3, strings.Count(frag, `<tr class="row-`))
	assert.NotContains(t, frag, "<html")
}

func TestHistoryRowsKeepBackendOrder(t *testing.T) {
	records := seeded(4)
	h := newHarness(t, stub.WithHistory(records))

	rest := h.get(t, "/history?limit=4").Body.String()
	for _, r := range records {
		cell := ">" + html.EscapeString(prediction.Truncate(r.Title, 60)) + "</td>"
		idx := strings.Index(rest, cell)
		require.NotEqual(t, -1, idx, "%s missing or out of order", r.Title)
		rest = rest[idx+len(cell):]
	}
}

func TestHistoryRejectsBadLimit(t *testing.T) {
	h := newHarness(t)
	for _, limit := range []string{"0", "-1", "101", "abc"} {
		rec := h.get(t, "/history?limit="+limit)
		assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
	}
	assert.Zero(t, h.historyCalls.Load())
}

func TestSubmitRendersVerdictAndReloadsHistoryOnce(t *testing.T) {
	h := newHarness(t, stub.WithScorer(func(string, string) float64 { return 0.92 }))

	rec := h.do(t, fetchForm("/predict", url.Values{
		"title": {"BREAKING: Aliens Found on Mars!"},
		"text":  {"Scientists say little green men were spotted near a crater."},
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "FAKE NEWS")
	assert.Contains(t, body, "92.0%")
	assert.Contains(t, body, "BREAKING: Aliens Found on Mars!")
	assert.Equal(t, 1, strings.Count(body, `<tr class="row-fake">`))
	assert.NotContains(t, body, "<html")

	assert.Equal(t, int32(1), h.predictCalls.Load())
	assert.Equal(t, int32(1), h.historyCalls.Load())

	notes := h.notifier.Active(h.sessionID)
	require.Len(t, notes, 1)
	assert.Equal(t, submission.MsgComplete, notes[0].Message)
}

func TestSubmitJSON(t *testing.T) {
	h := newHarness(t, stub.WithScorer(func(string, string) float64 { return 0.1 }))

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"title":"Council approves budget"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := h.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gjson.Get(rec.Body.String(), "success").Bool())
	assert.Equal(t, "REAL NEWS", gjson.Get(rec.Body.String(), "card.Label").String())
	assert.Equal(t, "High", gjson.Get(rec.Body.String(), "card.ConfidenceLevel").String())
}

func TestBlankSubmitNeverReachesBackend(t *testing.T) {
	h := newHarness(t)

	rec := h.do(t, fetchForm("/predict", url.Values{"title": {"  "}, "text": {""}}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, h.predictCalls.Load())
	assert.Zero(t, h.historyCalls.Load())

	notes := h.notifier.Active(h.sessionID)
	require.Len(t, notes, 1)
	assert.Equal(t, notify.SeverityWarning, notes[0].Severity)
	assert.Equal(t, submission.MsgBlankInput, notes[0].Message)
}

func TestSubmitFailureKeepsPreviousCard(t *testing.T) {
	h := newHarness(t, stub.WithScorer(func(string, string) float64 { return 0.92 }))
	require.Equal(t, http.StatusOK, h.do(t, fetchForm("/predict", url.Values{"title": {"first"}})).Code)

	h.server.submission = submission.NewController(
		classifier.NewClient(classifier.WithBaseURL("http://127.0.0.1:1"), classifier.WithTimeout(time.Second)),
		h.notifier, internal.NewNopLogger())

	rec := h.do(t, fetchForm("/predict", url.Values{"title": {"second"}}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "FAKE NEWS", "previous card still shown")
	assert.Contains(t, rec.Body.String(), "first")
}

func TestPlainFormPostRedirects(t *testing.T) {
	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader("title=hello"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := h.do(t, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSessionCookieIssued(t *testing.T) {
	h := newHarness(t)
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestDismissNotification(t *testing.T) {
	h := newHarness(t)
	note := h.notifier.Warning(h.sessionID, "heads up")

	rec := h.do(t, httptest.NewRequest(http.MethodPost, "/notifications/"+note.ID+"/dismiss", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, h.notifier.Active(h.sessionID))

	rec = h.do(t, httptest.NewRequest(http.MethodPost, "/notifications/"+note.ID+"/dismiss", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardJSONAndRefresh(t *testing.T) {
	h := newHarness(t, stub.WithHistory(seeded(6)))

	rec := h.get(t, "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(6), gjson.Get(rec.Body.String(), "view.stats.total").Int())
	assert.Equal(t, int64(1), gjson.Get(rec.Body.String(), "view.sequence").Int())

	req := httptest.NewRequest(http.MethodPost, "/dashboard/refresh", nil)
	req.Header.Set("Accept", "application/json")
	rec = h.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "view.sequence").Int())
	assert.Equal(t, "rendered", gjson.Get(rec.Body.String(), "phase").String())
}

func TestDashboardPartialDoesNotFetch(t *testing.T) {
	h := newHarness(t)
	h.get(t, "/dashboard")
	calls := h.historyCalls.Load()

	rec := h.get(t, "/dashboard?partial=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="dashboard-body"`)
	assert.Equal(t, calls, h.historyCalls.Load())
}

func TestCharts(t *testing.T) {
	h := newHarness(t, stub.WithHistory(seeded(8)))

	for _, name := range []string{"timeline", "distribution", "confidence"} {
		rec := h.get(t, "/dashboard/charts/"+name)
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"), name)
		assert.Contains(t, rec.Body.String(), "<svg", name)
	}
	assert.Equal(t, http.StatusNotFound, h.get(t, "/dashboard/charts/radar").Code)
}

func TestExportXLSX(t *testing.T) {
	h := newHarness(t, stub.WithHistory(seeded(7)))

	rec := h.get(t, "/dashboard/export.xlsx")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMIME, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "newsdesk-history-20261015-120000.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("History")
	require.NoError(t, err)
	assert.Len(t, rows, 8)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.get(t, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
	assert.True(t, gjson.Get(rec.Body.String(), "backend.ModelLoaded").Bool())

	down := newTestServer(t, "http://127.0.0.1:1")
	rec = httptest.NewRecorder()
	down.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "degraded", gjson.Get(rec.Body.String(), "status").String())
}

func TestAboutPage(t *testing.T) {
	h := newHarness(t)
	rec := h.get(t, "/about")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `<h2 id="how-to-read-a-verdict">`)
	assert.Contains(t, body, `target="_blank"`)
	assert.Contains(t, body, "CNN")
	assert.Contains(t, body, "95%")
	for _, label := range []string{"FAKE NEWS", "SUSPICIOUS", "REAL NEWS"} {
		assert.Contains(t, body, label)
	}
}

func TestBackendDownStillRendersPages(t *testing.T) {
	srv := newTestServer(t, "http://127.0.0.1:1")

	for _, path := range []string{"/", "/dashboard"} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Backend unreachable", path)
	}
}
