package http

import "net/http"

func (s *Server) handleListRecurringCosts(w http.ResponseWriter, r *http.Request) {
	costs, err := s.store.ListRecurringCosts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(costs, newRecurringCostResponse))
}

func (s *Server) handleCreateRecurringCost(w http.ResponseWriter, r *http.Request) {
	var in recurringCostPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	rc, err := in.toRecurringCost()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := rc.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateRecurringCost(r.Context(), rc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRecurringCostResponse(created))
}

func (s *Server) handleDeleteRecurringCost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteRecurringCost(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
