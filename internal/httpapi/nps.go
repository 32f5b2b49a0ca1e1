package httpapi

import (
	"net"
	"net/http"
	"strings"

	"github.com/example/see/internal/ports/primary"
)

// GET /api/nps/{token}
func (s *Server) handleNpsOpen(w http.ResponseWriter, r *http.Request) {
	survey, err := s.svc.Nps.OpenSurvey(r.Context(), r.PathValue("token"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":          true,
		"inviteId":    survey.InviteID,
		"companyName": survey.CompanyName,
		"contactName": survey.ContactName,
		"locale":      survey.Locale,
		"answered":    survey.Answered,
		"reasons":     survey.Reasons,
		"focuses":     survey.Focuses,
	})
}

type npsSubmitBody struct {
	Score   *float64 `json:"score"`
	Reason  string   `json:"reason"`
	Focus   string   `json:"focus"`
	Comment string   `json:"comment"`
}

// POST /api/nps/{token} {score, reason, focus, comment}
func (s *Server) handleNpsSubmit(w http.ResponseWriter, r *http.Request) {
	var body npsSubmitBody
	if err := decodeJSON(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.Score == nil {
		s.writeError(w, r, badRequest("score is required"))
		return
	}
	err := s.svc.Nps.SubmitResponse(r.Context(), primary.SubmitNpsRequest{
		Token:     r.PathValue("token"),
		Score:     *body.Score,
		Reason:    body.Reason,
		Focus:     body.Focus,
		Comment:   body.Comment,
		UserAgent: r.UserAgent(),
		ClientIP:  clientIP(r),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-Ip, then the
// connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-Ip")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
