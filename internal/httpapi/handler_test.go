package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/metrics"
	"go-linkedin-scraper/internal/scraper"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRunner struct {
	page    *scraper.ResultPage
	err     error
	queries []scraper.SearchQuery
	ctx     context.Context
}

func (f *fakeRunner) Run(ctx context.Context, q scraper.SearchQuery) (*scraper.ResultPage, error) {
	f.ctx = ctx
	f.queries = append(f.queries, q)
	return f.page, f.err
}

type fakeNotifier struct {
	calls  int
	failed []error
	err    error
}

func (f *fakeNotifier) NotifyResults(scraper.SearchQuery, *scraper.ResultPage) error {
	f.calls++
	return f.err
}

func (f *fakeNotifier) NotifyError(_ scraper.SearchQuery, err error) error {
	f.failed = append(f.failed, err)
	return f.err
}

func newTestRouter(runner Runner) (*gin.Engine, *Handler) {
	reg := prometheus.NewRegistry()
	h := &Handler{Runner: runner, Metrics: metrics.New(reg), Timeout: time.Minute}
	return NewRouter(h, RouterOptions{Gatherer: reg}), h
}

func do(r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var decoded map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &decoded)
	return rr, decoded
}

func TestScrape_Success(t *testing.T) {
	runner := &fakeRunner{page: &scraper.ResultPage{Postings: []scraper.JobPosting{
		{Title: "Go Engineer", Company: "Acme", Description: "APIs", URL: "https://www.linkedin.com/jobs/view/1/"},
	}}}
	r, _ := newTestRouter(runner)

	rr, body := do(r, http.MethodPost, "/scrape", `{"keyword":"golang","location":"Madrid","exclude":["intern"],"modality":"remoto","time_filter":"24h"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	first := results[0].(map[string]any)
	assert.Equal(t, "Go Engineer", first["title"])
	assert.Equal(t, "https://www.linkedin.com/jobs/view/1/", first["link"])
	assert.NotContains(t, body, "message")

	require.Len(t, runner.queries, 1)
	q := runner.queries[0]
	assert.Equal(t, "golang", q.Keyword)
	assert.Equal(t, scraper.ModalityRemote, q.Modality)
	assert.Equal(t, scraper.Recency("24h"), q.Recency)
	assert.Equal(t, []string{"intern"}, q.Exclude)

	_, hasDeadline := runner.ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestScrape_DefaultsAndRootPath(t *testing.T) {
	runner := &fakeRunner{page: &scraper.ResultPage{}}
	r, _ := newTestRouter(runner)

	rr, body := do(r, http.MethodPost, "/", `{"keyword":null,"modality":"teletrabajo"}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{}, body["results"], "results is an empty list, never null")
	q := runner.queries[0]
	assert.Equal(t, scraper.DefaultKeyword, q.Keyword)
	assert.Equal(t, scraper.DefaultLocation, q.Location)
	assert.Equal(t, scraper.ModalityUnset, q.Modality)
}

func TestScrape_NoResults(t *testing.T) {
	runner := &fakeRunner{page: scraper.NoResults("No jobs matched the search.")}
	r, _ := newTestRouter(runner)

	rr, body := do(r, http.MethodPost, "/scrape", `{}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []any{}, body["results"])
	assert.Equal(t, "No jobs matched the search.", body["message"])
	assert.NotContains(t, body, "error")
}

func TestScrape_WrongMethod(t *testing.T) {
	r, _ := newTestRouter(&fakeRunner{})
	for _, path := range []string{"/", "/scrape"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			t.Run(method+" "+path, func(t *testing.T) {
				rr, body := do(r, method, path, "")
				assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
				assert.NotEmpty(t, body["error"])
			})
		}
	}
}

func TestScrape_MalformedBody(t *testing.T) {
	bodies := []string{
		``,
		`{`,
		`not json`,
		`null`,
		`["keyword"]`,
		`{"keyword": 42}`,
		`{"exclude": "intern"}`,
		`{"keyword":"go"} trailing`,
	}
	for _, b := range bodies {
		t.Run(b, func(t *testing.T) {
			runner := &fakeRunner{page: &scraper.ResultPage{}}
			r, _ := newTestRouter(runner)

			rr, body := do(r, http.MethodPost, "/scrape", b)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, body["error"])
			assert.Empty(t, runner.queries, "no browser for a bad request")
		})
	}
}

func TestScrape_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		fields map[string]any
	}{
		{
			name: "provisioning",
			err: &browser.ProvisioningError{
				Err:        errors.New("no chrome"),
				BinaryPath: "",
				DriverPath: "/opt/driver",
				Candidates: []browser.Candidate{{Path: "/usr/bin/chromium", Exists: false}},
				Attempts:   1,
			},
			status: http.StatusInternalServerError,
			fields: map[string]any{
				"chrome_bin":         "",
				"chromedriver_path":  "/opt/driver",
				"checked_candidates": []any{map[string]any{"path": "/usr/bin/chromium", "exists": false}},
			},
		},
		{
			name:   "login form timeout",
			err:    &scraper.LoginFormTimeoutError{URL: "https://www.linkedin.com/login"},
			status: http.StatusGatewayTimeout,
		},
		{
			name:   "post login timeout",
			err:    &scraper.PostLoginTimeoutError{URL: "https://www.linkedin.com/checkpoint/challenge", Title: "Security Verification"},
			status: http.StatusGatewayTimeout,
			fields: map[string]any{
				"current_url": "https://www.linkedin.com/checkpoint/challenge",
				"title":       "Security Verification",
			},
		},
		{
			name:   "reauth",
			err:    &scraper.ReauthRequiredError{URL: "https://www.linkedin.com/authwall"},
			status: http.StatusGatewayTimeout,
			fields: map[string]any{"current_url": "https://www.linkedin.com/authwall"},
		},
		{
			name:   "navigation",
			err:    fmt.Errorf("search: %w", &scraper.NavigationError{Stage: "search", URL: "https://x", Err: errors.New("net::ERR_ABORTED")}),
			status: http.StatusBadGateway,
			fields: map[string]any{"url": "https://x"},
		},
		{
			name:   "deadline",
			err:    context.DeadlineExceeded,
			status: http.StatusGatewayTimeout,
		},
		{
			name:   "anything else",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRouter(&fakeRunner{err: tt.err})
			rr, body := do(r, http.MethodPost, "/scrape", `{}`)

			assert.Equal(t, tt.status, rr.Code)
			assert.NotEmpty(t, body["error"])
			for k, v := range tt.fields {
				assert.Equal(t, v, body[k], k)
			}
		})
	}
}

func TestScrape_ProvisioningCandidatesNeverNull(t *testing.T) {
	r, _ := newTestRouter(&fakeRunner{err: &browser.ProvisioningError{Err: errors.New("x")}})
	rr, body := do(r, http.MethodPost, "/scrape", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, []any{}, body["checked_candidates"])
}

func TestScrape_Notifications(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	runner := &fakeRunner{page: &scraper.ResultPage{}}
	r, h := newTestRouter(runner)
	h.Notifier = notifier

	rr, _ := do(r, http.MethodPost, "/scrape", `{}`)
	assert.Equal(t, http.StatusOK, rr.Code, "notification failures do not fail the request")
	assert.Equal(t, 1, notifier.calls)
	assert.Empty(t, notifier.failed)

	runner.err = &scraper.LoginFormTimeoutError{URL: "https://www.linkedin.com/login"}
	rr, _ = do(r, http.MethodPost, "/scrape", `{}`)
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
	assert.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.failed, 1)
	assert.Equal(t, runner.err, notifier.failed[0])

	rr, _ = do(r, http.MethodPost, "/scrape", `not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Len(t, notifier.failed, 1, "malformed requests are not reported")
}

func TestRateLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	runner := &fakeRunner{page: &scraper.ResultPage{}}
	h := &Handler{Runner: runner, Metrics: metrics.New(reg)}
	r := NewRouter(h, RouterOptions{Limiter: NewLimiter(0.001, 1)})

	rr, _ := do(r, http.MethodPost, "/scrape", `{}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, body := do(r, http.MethodPost, "/scrape", `{}`)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, body["error"])
	assert.Len(t, runner.queries, 1)
}

func TestNewLimiterDisabled(t *testing.T) {
	assert.Nil(t, NewLimiter(0, 5))
}

func TestRecoversFromPanic(t *testing.T) {
	r, _ := newTestRouter(panicRunner{})
	rr, body := do(r, http.MethodPost, "/scrape", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", body["error"])
}

type panicRunner struct{}

func (panicRunner) Run(context.Context, scraper.SearchQuery) (*scraper.ResultPage, error) {
	panic("unexpected")
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(&fakeRunner{page: &scraper.ResultPage{}})
	do(r, http.MethodPost, "/scrape", `{}`)

	rr, body := do(r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrr := httptest.NewRecorder()
	r.ServeHTTP(mrr, req)
	assert.Equal(t, http.StatusOK, mrr.Code)
	assert.Contains(t, mrr.Body.String(), `linkedin_scraper_invocations_total{outcome="success"} 1`)
}
