package http

import (
	"net/http"

	"portfolio/internal/log"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseProjectFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	expenses, err := s.store.ListExpenses(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(expenses, newExpenseResponse))
}

// handleCreateExpense stores the expense through the service so that it is
// announced to the export worker.
func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var in expensePayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := in.toExpense(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.expenses.CreateExpense(r.Context(), e)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.FromContext(r.Context()).WithComponent(log.ComponentExpense).InfoContext(r.Context(),
		"Expense created",
		log.NewFields().
			WithExpense(created.ID, created.Description, created.Amount.Cents, created.Category).
			WithOperation(log.OpCreate).
			ToSlice()...)
	writeJSON(w, http.StatusCreated, newExpenseResponse(created))
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	e, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExpenseResponse(e))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in expensePayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e, err := in.toExpense(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.expenses.UpdateExpense(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetExpense(w, r)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.expenses.DeleteExpense(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
