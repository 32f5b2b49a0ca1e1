package httpapi

import (
	"net/http"

	"github.com/example/see/internal/ports/primary"
)

// GET /api/engagements/{id}/accounts
func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.Accounts.ListAccountOptions(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []primary.AccountOption{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rows": rows})
}
