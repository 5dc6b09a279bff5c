package http

import "net/http"

func (s *Server) handleListBacklinks(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseProjectFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	backlinks, err := s.store.ListBacklinks(r.Context(), projectID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(backlinks, newBacklinkResponse))
}

func (s *Server) handleCreateBacklink(w http.ResponseWriter, r *http.Request) {
	var in backlinkPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := in.toBacklink(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := b.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateBacklink(r.Context(), b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newBacklinkResponse(created))
}

func (s *Server) handleGetBacklink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := s.store.GetBacklink(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBacklinkResponse(b))
}

func (s *Server) handleUpdateBacklink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in backlinkPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := in.toBacklink(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := b.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.UpdateBacklink(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetBacklink(w, r)
}

func (s *Server) handleDeleteBacklink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteBacklink(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
