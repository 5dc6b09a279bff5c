package http

import "net/http"

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(projects, newProjectResponse))
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in projectPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p := in.toProject(0)
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateProject(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProjectResponse(created))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newProjectResponse(p))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in projectPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p := in.toProject(id)
	if err := p.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.UpdateProject(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetProject(w, r)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteProject(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
