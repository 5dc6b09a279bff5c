package http

import (
	"net/http"

	"portfolio/internal/log"
	"portfolio/internal/services"
)

func (s *Server) handleExpenseAnalytics(w http.ResponseWriter, r *http.Request) {
	req, ok := s.reportRequest(w, r)
	if !ok {
		return
	}
	rep, err := s.analytics.ExpenseReport(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleBacklinkAnalytics(w http.ResponseWriter, r *http.Request) {
	req, ok := s.reportRequest(w, r)
	if !ok {
		return
	}
	rep, err := s.analytics.BacklinkReport(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req, ok := s.reportRequest(w, r)
	if !ok {
		return
	}
	d, err := s.analytics.Dashboard(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) reportRequest(w http.ResponseWriter, r *http.Request) (services.ReportRequest, bool) {
	req, err := ParseReportRequest(r.URL.Query(), s.analytics.Location())
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentAnalytics).DebugContext(r.Context(),
			"Rejected report request",
			log.FieldPeriod, r.URL.Query().Get("period"),
			log.FieldError, err)
		writeError(w, r, err)
		return services.ReportRequest{}, false
	}
	return req, true
}
