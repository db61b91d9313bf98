package web

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"defight/internal/report"
)

// GET /duels/{id}/report
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Arena.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	pdf, err := report.Generate(rec)
	if err != nil {
		s.fail(w, fmt.Errorf("render report: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="duel-%s.pdf"`, rec.ID))
	if _, err := w.Write(pdf); err != nil {
		s.log().Warn("write report", zap.String("duel_id", rec.ID), zap.Error(err))
	}
}
