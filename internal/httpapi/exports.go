package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/see/internal/ports/primary"
)

// GET /api/engagements/{id}/kpis/series?kpiId=&period=&months=&scope=
func (s *Server) handleKpiSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := primary.KpiSeriesRequest{
		EngagementID: r.PathValue("id"),
		KpiID:        strings.TrimSpace(q.Get("kpiId")),
		PeriodKey:    strings.TrimSpace(q.Get("period")),
		ScopeKey:     strings.TrimSpace(q.Get("scope")),
	}
	if req.KpiID == "" {
		s.writeError(w, r, badRequest("kpiId is required"))
		return
	}
	if raw := q.Get("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, badRequest("months must be a number"))
			return
		}
		req.Months = n
	}
	series, err := s.svc.Kpis.GetSeries(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":     true,
		"kpiId":  series.Kpi.ID,
		"name":   series.Kpi.Name(q.Get("locale")),
		"unit":   series.Kpi.Unit,
		"basis":  series.Kpi.Basis,
		"points": series.Points,
	})
}

func (s *Server) handleKpiExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.svc.Kpis.ExportXLSX(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, contentTypeXLSX, fmt.Sprintf("kpis-%s.xlsx", id), data)
}

func (s *Server) handleKpiTemplate(w http.ResponseWriter, r *http.Request) {
	writeFile(w, contentTypeCSV, "kpis-template.csv", s.svc.Kpis.TemplateCSV())
}

func (s *Server) handleRoadmapExport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	data, err := s.svc.Roadmap.ExportXLSX(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, contentTypeXLSX, fmt.Sprintf("roadmap-%s.xlsx", id), data)
}

func (s *Server) handleRoadmapTemplate(w http.ResponseWriter, r *http.Request) {
	writeFile(w, contentTypeCSV, "roadmap-template.csv", s.svc.Roadmap.TemplateCSV())
}

// requiredParam reads a trimmed query parameter, reporting it when missing.
func requiredParam(r *http.Request, name string) (string, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return "", badRequest("%s is required", name)
	}
	return v, nil
}

// GET /api/export/summary.pdf?engagementId=&period=&scope=
func (s *Server) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	engagementID, err := requiredParam(r, "engagementId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	period, err := requiredParam(r, "period")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.svc.Reports.CheckinSummaryPDF(r.Context(), engagementID, r.URL.Query().Get("scope"), period)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, contentTypePDF, fmt.Sprintf("checkin-%s-%s.pdf", engagementID, period), data)
}

// GET /api/export/weekly-report.pdf?reportId=
func (s *Server) handleWeeklyPDF(w http.ResponseWriter, r *http.Request) {
	reportID, err := requiredParam(r, "reportId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.svc.Reports.WeeklyReportPDF(r.Context(), reportID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, contentTypePDF, fmt.Sprintf("weekly-%s.pdf", reportID), data)
}

// GET /api/export/report.pdf?engagementId=
func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	engagementID, err := requiredParam(r, "engagementId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.svc.Reports.EngagementReportPDF(r.Context(), engagementID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, contentTypePDF, fmt.Sprintf("report-%s.pdf", engagementID), data)
}

// GET /api/export/datapack/ops.pdf?engagementId=&period=
func (s *Server) handleOpsDataPackPDF(w http.ResponseWriter, r *http.Request) {
	engagementID, err := requiredParam(r, "engagementId")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	period, err := requiredParam(r, "period")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.svc.Reports.OpsDataPackPDF(r.Context(), engagementID, period)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeFile(w, contentTypePDF, fmt.Sprintf("datapack-ops-%s-%s.pdf", engagementID, period), data)
}
