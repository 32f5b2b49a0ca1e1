package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// Fakes embed the service interface and override only what a test calls.

type fakeWeekly struct {
	primary.WeeklyReportService
	adminToken string
	openErr    error
	submitted  *primary.SubmitWeeklyReportRequest
	link       *primary.CreateWeeklyLinkRequest
	filters    *primary.WeeklyReportFilters
}

func (f *fakeWeekly) Authorize(token string) error {
	if f.adminToken == "" || token != f.adminToken {
		return primary.ErrUnauthorized
	}
	return nil
}

func (f *fakeWeekly) OpenByToken(ctx context.Context, token string) (*primary.WeeklyReportForm, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &primary.WeeklyReportForm{
		Report:      &primary.WeeklyReport{ID: "WFR-001", Status: "DRAFT", FaenaName: "Faena Norte"},
		CompanyName: "Minera Andina",
		ExpiresAt:   "2024-07-15T12:00:00Z",
	}, nil
}

func (f *fakeWeekly) Submit(ctx context.Context, req primary.SubmitWeeklyReportRequest) (*primary.WeeklyReport, error) {
	f.submitted = &req
	return &primary.WeeklyReport{ID: "WFR-001", Status: "SUBMITTED", Semaphore: "GREEN"}, nil
}

func (f *fakeWeekly) CreateLink(ctx context.Context, req primary.CreateWeeklyLinkRequest) (*primary.WeeklyLink, error) {
	f.link = &req
	return &primary.WeeklyLink{Token: "tok", URL: "https://see.example.com/api/weekly-report/by-token?token=tok", ReportID: "WFR-001"}, nil
}

func (f *fakeWeekly) ListReports(ctx context.Context, filters primary.WeeklyReportFilters) ([]*primary.WeeklyReport, error) {
	f.filters = &filters
	return nil, nil
}

type fakeNps struct {
	primary.NpsService
	submitErr error
	submitted *primary.SubmitNpsRequest
}

func (f *fakeNps) OpenSurvey(ctx context.Context, token string) (*primary.NpsSurvey, error) {
	if token != "good" {
		return nil, secondary.ErrNotFound
	}
	return &primary.NpsSurvey{InviteID: "NPS-001", CompanyName: "Minera Andina", Locale: "es", Reasons: []string{"OTRO"}}, nil
}

func (f *fakeNps) SubmitResponse(ctx context.Context, req primary.SubmitNpsRequest) error {
	f.submitted = &req
	return f.submitErr
}

type fakeReports struct {
	primary.ReportService
	err error
}

func (f *fakeReports) EngagementReportPDF(ctx context.Context, engagementID string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.3"), nil
}

type fakeEngagements struct {
	primary.EngagementService
	filters primary.EngagementFilters
}

func (f *fakeEngagements) ListEngagements(ctx context.Context, filters primary.EngagementFilters) ([]*primary.Engagement, error) {
	f.filters = filters
	return []*primary.Engagement{{ID: "ENG-001"}, {ID: "ENG-002"}}, nil
}

type fakeKpis struct {
	primary.KpiService
}

func (f *fakeKpis) GetSeries(ctx context.Context, req primary.KpiSeriesRequest) (*primary.KpiSeries, error) {
	if req.Months == 99 {
		panic("boom")
	}
	v := 12.5
	return &primary.KpiSeries{
		Kpi:    &primary.Kpi{ID: req.KpiID, NameEs: "Margen", NameEn: "Margin", Unit: "%", Basis: "A"},
		Points: []primary.KpiSeriesPoint{{PeriodKey: "2024-06", Value: &v, Evaluated: &v}},
	}, nil
}

func (f *fakeKpis) TemplateCSV() []byte { return []byte("id;name_es\n") }

type fakeAccounts struct {
	primary.AccountService
}

func (f *fakeAccounts) ListAccountOptions(ctx context.Context, engagementID string) ([]primary.AccountOption, error) {
	switch engagementID {
	case "ENG-001":
		return []primary.AccountOption{{ID: "ACC-001", Label: "Mall Norte"}, {ID: "ACC-002", Label: "Unidad sin nombre"}}, nil
	case "ENG-002":
		return nil, nil
	}
	return nil, secondary.ErrNotFound
}

type testServer struct {
	handler     http.Handler
	weekly      *fakeWeekly
	nps         *fakeNps
	reports     *fakeReports
	engagements *fakeEngagements
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		weekly:      &fakeWeekly{adminToken: "admin-secret"},
		nps:         &fakeNps{},
		reports:     &fakeReports{},
		engagements: &fakeEngagements{},
	}
	srv := NewServer(Services{
		Engagements: ts.engagements,
		Accounts:    &fakeAccounts{},
		Kpis:        &fakeKpis{},
		Nps:         ts.nps,
		Weekly:      ts.weekly,
		Reports:     ts.reports,
	}, zap.NewNop())
	ts.handler = srv.Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestHealthAndRequestID(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)

	rec, _ = ts.do(t, http.MethodGet, "/healthz", "", map[string]string{"X-Request-Id": "req-42"})
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}

func TestCronKpiWeekly(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/cron/kpi-weekly", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "kpi-weekly", body["cron"])
	assert.Equal(t, float64(2), body["activeEngagements"])
	assert.Equal(t, "ACTIVE", ts.engagements.filters.Status)
}

func TestWeeklyByToken(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		openErr error
		status  int
		errMsg  string
	}{
		{"ok", "/api/weekly-report/by-token?token=abc", nil, http.StatusOK, ""},
		{"missing token", "/api/weekly-report/by-token", nil, http.StatusBadRequest, "token is required"},
		{"unknown token", "/api/weekly-report/by-token?token=abc", secondary.ErrNotFound, http.StatusNotFound, "not found"},
		{"expired", "/api/weekly-report/by-token?token=abc", primary.ErrTokenExpired, http.StatusGone, "link expired"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.weekly.openErr = tt.openErr

			rec, body := ts.do(t, http.MethodGet, tt.target, "", nil)
			assert.Equal(t, tt.status, rec.Code)
			if tt.errMsg != "" {
				assert.Equal(t, false, body["ok"])
				assert.Equal(t, tt.errMsg, body["error"])
				return
			}
			assert.Equal(t, "Minera Andina", body["companyName"])
			report := body["report"].(map[string]any)
			assert.Equal(t, "WFR-001", report["id"])
		})
	}
}

func TestWeeklySubmit(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodPost, "/api/weekly-report/submit", `{"token":" abc ","payload":{"semaforo":"GREEN"}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	require.NotNil(t, ts.weekly.submitted)
	assert.Equal(t, "abc", ts.weekly.submitted.Token)
	assert.JSONEq(t, `{"semaforo":"GREEN"}`, string(ts.weekly.submitted.Payload))

	rec, body = ts.do(t, http.MethodPost, "/api/weekly-report/submit", `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid JSON body", body["error"])

	rec, _ = ts.do(t, http.MethodGet, "/api/weekly-report/submit", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestWeeklyAdminEndpoints(t *testing.T) {
	ts := newTestServer(t)
	linkBody := `{"engagementId":"ENG-001","faenaId":"FAENA-001","weekStart":"2024-07-01","expiresInDays":7}`

	rec, body := ts.do(t, http.MethodPost, "/api/weekly-report/create-link", linkBody, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", body["error"])
	assert.Nil(t, ts.weekly.link)

	admin := map[string]string{"X-Admin-Token": "admin-secret"}
	rec, body = ts.do(t, http.MethodPost, "/api/weekly-report/create-link", linkBody, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok", body["link"].(map[string]any)["token"])
	assert.Equal(t, "admin-secret", ts.weekly.link.AdminToken)
	assert.Equal(t, 7, ts.weekly.link.ExpiresInDays)

	rec, _ = ts.do(t, http.MethodPost, "/api/weekly-report/create-link", `{"faenaId":"FAENA-001"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/weekly-report/list?engagementId=ENG-001", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body = ts.do(t, http.MethodGet, "/api/weekly-report/list?engagementId=ENG-001&status=submitted&limit=10", "", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["rows"])
	assert.Equal(t, primary.WeeklyReportFilters{EngagementID: "ENG-001", Status: "submitted", Limit: 10}, *ts.weekly.filters)

	rec, _ = ts.do(t, http.MethodGet, "/api/weekly-report/list", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/weekly-report/list?engagementId=ENG-001&limit=500", "", admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNpsEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/nps/good", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "NPS-001", body["inviteId"])

	rec, _ = ts.do(t, http.MethodGet, "/api/nps/bad", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/nps/good", `{"score":9,"reason":"OTRO"}`, map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"User-Agent":      "test-agent",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", ts.nps.submitted.Token)
	assert.Equal(t, 9.0, ts.nps.submitted.Score)
	assert.Equal(t, "203.0.113.7", ts.nps.submitted.ClientIP)
	assert.Equal(t, "test-agent", ts.nps.submitted.UserAgent)

	rec, body = ts.do(t, http.MethodPost, "/api/nps/good", `{"reason":"OTRO"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "score is required", body["error"])

	ts.nps.submitErr = primary.ErrAlreadySubmitted
	rec, _ = ts.do(t, http.MethodPost, "/api/nps/good", `{"score":3}`, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestKpiSeries(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/engagements/ENG-001/kpis/series?kpiId=KPI-001&months=6&locale=en", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Margin", body["name"])
	points := body["points"].([]any)
	require.Len(t, points, 1)
	assert.Equal(t, "2024-06", points[0].(map[string]any)["periodKey"])

	rec, _ = ts.do(t, http.MethodGet, "/api/engagements/ENG-001/kpis/series", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = ts.do(t, http.MethodGet, "/api/engagements/ENG-001/kpis/series?kpiId=KPI-001&months=seis", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccounts(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/engagements/ENG-001/accounts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["ok"])
	rows := body["rows"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]any{"id": "ACC-001", "label": "Mall Norte"}, rows[0])

	rec, body = ts.do(t, http.MethodGet, "/api/engagements/ENG-002/accounts", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["rows"])

	rec, _ = ts.do(t, http.MethodGet, "/api/engagements/ENG-404/accounts", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExports(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/api/export/report.pdf?engagementId=ENG-001", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="report-ENG-001.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3", rec.Body.String())

	rec, _ = ts.do(t, http.MethodGet, "/api/engagements/ENG-001/kpis/template.csv", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "id;name_es\n", rec.Body.String())

	rec, body := ts.do(t, http.MethodGet, "/api/export/report.pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "engagementId is required", body["error"])

	ts.reports.err = errors.New("disk full")
	rec, body = ts.do(t, http.MethodGet, "/api/export/report.pdf?engagementId=ENG-001", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal error", body["error"])
}

func TestPanicRecovered(t *testing.T) {
	ts := newTestServer(t)

	rec, body := ts.do(t, http.MethodGet, "/api/engagements/ENG-001/kpis/series?kpiId=KPI-001&months=99", "", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, false, body["ok"])
}

func TestListenAndServe_Shutdown(t *testing.T) {
	srv := NewServer(Services{}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{secondary.ErrNotFound, http.StatusNotFound},
		{badRequest("x"), http.StatusBadRequest},
		{primary.ErrTokenExpired, http.StatusGone},
		{primary.ErrAlreadySubmitted, http.StatusConflict},
		{secondary.ErrConflict, http.StatusConflict},
		{primary.ErrUnauthorized, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
