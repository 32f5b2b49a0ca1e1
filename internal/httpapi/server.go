// Package httpapi serves the public tokenized forms (weekly site reports,
// NPS surveys), the admin weekly-report endpoints and the file exports.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/ports/primary"
)

// Request body limit for JSON posts.
const maxBodyBytes = 1 << 20

// Services are the application services exposed over HTTP.
type Services struct {
	Engagements primary.EngagementService
	Accounts    primary.AccountService
	Kpis        primary.KpiService
	Roadmap     primary.RoadmapService
	Nps         primary.NpsService
	Weekly      primary.WeeklyReportService
	Reports     primary.ReportService
}

// Server routes HTTP requests to the services.
type Server struct {
	svc    Services
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer creates a Server and registers every route.
func NewServer(svc Services, logger *zap.Logger) *Server {
	s := &Server{svc: svc, logger: logger, mux: http.NewServeMux()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/cron/kpi-weekly", s.handleCronKpiWeekly)

	s.mux.HandleFunc("GET /api/weekly-report/by-token", s.handleWeeklyByToken)
	s.mux.HandleFunc("POST /api/weekly-report/submit", s.handleWeeklySubmit)
	s.mux.HandleFunc("POST /api/weekly-report/create-link", s.handleWeeklyCreateLink)
	s.mux.HandleFunc("GET /api/weekly-report/list", s.handleWeeklyList)

	s.mux.HandleFunc("GET /api/nps/{token}", s.handleNpsOpen)
	s.mux.HandleFunc("POST /api/nps/{token}", s.handleNpsSubmit)

	s.mux.HandleFunc("GET /api/engagements/{id}/accounts", s.handleAccounts)
	s.mux.HandleFunc("GET /api/engagements/{id}/kpis/series", s.handleKpiSeries)
	s.mux.HandleFunc("GET /api/engagements/{id}/kpis/export.xlsx", s.handleKpiExport)
	s.mux.HandleFunc("GET /api/engagements/{id}/kpis/template.csv", s.handleKpiTemplate)
	s.mux.HandleFunc("GET /api/engagements/{id}/roadmap/export.xlsx", s.handleRoadmapExport)
	s.mux.HandleFunc("GET /api/engagements/{id}/roadmap/template.csv", s.handleRoadmapTemplate)

	s.mux.HandleFunc("GET /api/export/summary.pdf", s.handleSummaryPDF)
	s.mux.HandleFunc("GET /api/export/weekly-report.pdf", s.handleWeeklyPDF)
	s.mux.HandleFunc("GET /api/export/report.pdf", s.handleReportPDF)
	s.mux.HandleFunc("GET /api/export/datapack/ops.pdf", s.handleOpsDataPackPDF)
}

// Handler returns the routes wrapped in request id, logging and recovery.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.withLogging(s.withRecover(s.mux)))
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    16 << 10,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("http server stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleCronKpiWeekly is a heartbeat for an external scheduler.
func (s *Server) handleCronKpiWeekly(w http.ResponseWriter, r *http.Request) {
	active, err := s.svc.Engagements.ListEngagements(r.Context(), primary.EngagementFilters{Status: "ACTIVE"})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "cron": "kpi-weekly", "activeEngagements": len(active)})
}
