package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/see/internal/ports/primary"
)

const adminTokenHeader = "X-Admin-Token"

// GET /api/weekly-report/by-token?token=
func (s *Server) handleWeeklyByToken(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		s.writeError(w, r, badRequest("token is required"))
		return
	}
	form, err := s.svc.Weekly.OpenByToken(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"report":      form.Report,
		"companyName": form.CompanyName,
		"expiresAt":   form.ExpiresAt,
	})
}

type weeklySubmitBody struct {
	Token   string          `json:"token"`
	Payload json.RawMessage `json:"payload"`
}

// POST /api/weekly-report/submit {token, payload}
func (s *Server) handleWeeklySubmit(w http.ResponseWriter, r *http.Request) {
	var body weeklySubmitBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(body.Token) == "" {
		s.writeError(w, r, badRequest("token is required"))
		return
	}
	report, err := s.svc.Weekly.Submit(r.Context(), primary.SubmitWeeklyReportRequest{
		Token:   strings.TrimSpace(body.Token),
		Payload: body.Payload,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "report": report})
}

type weeklyLinkBody struct {
	EngagementID  string `json:"engagementId"`
	FaenaID       string `json:"faenaId"`
	WeekStart     string `json:"weekStart"`
	WeekEnd       string `json:"weekEnd"`
	ExpiresInDays int    `json:"expiresInDays"`
}

// POST /api/weekly-report/create-link, guarded by X-Admin-Token.
func (s *Server) handleWeeklyCreateLink(w http.ResponseWriter, r *http.Request) {
	adminToken := r.Header.Get(adminTokenHeader)
	if err := s.svc.Weekly.Authorize(adminToken); err != nil {
		s.writeError(w, r, err)
		return
	}
	var body weeklyLinkBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.FaenaID == "" || body.WeekStart == "" {
		s.writeError(w, r, badRequest("faenaId and weekStart are required"))
		return
	}
	link, err := s.svc.Weekly.CreateLink(r.Context(), primary.CreateWeeklyLinkRequest{
		AdminToken:    adminToken,
		EngagementID:  body.EngagementID,
		FaenaID:       body.FaenaID,
		WeekStart:     body.WeekStart,
		WeekEnd:       body.WeekEnd,
		ExpiresInDays: body.ExpiresInDays,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "link": link})
}

// GET /api/weekly-report/list?engagementId=&faenaId=&status=&limit=, guarded by X-Admin-Token.
func (s *Server) handleWeeklyList(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Weekly.Authorize(r.Header.Get(adminTokenHeader)); err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filters := primary.WeeklyReportFilters{
		EngagementID: strings.TrimSpace(q.Get("engagementId")),
		FaenaID:      strings.TrimSpace(q.Get("faenaId")),
		Status:       strings.TrimSpace(q.Get("status")),
		Limit:        200,
	}
	if filters.EngagementID == "" {
		s.writeError(w, r, badRequest("engagementId is required"))
		return
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			s.writeError(w, r, badRequest("limit must be between 1 and 200"))
			return
		}
		filters.Limit = n
	}
	rows, err := s.svc.Weekly.ListReports(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []*primary.WeeklyReport{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": rows})
}
