package http

import "net/http"

func (s *Server) handleListGithubAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.store.ListGithubAccounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(accounts, newGithubAccountResponse))
}

func (s *Server) handleCreateGithubAccount(w http.ResponseWriter, r *http.Request) {
	var in githubAccountPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	g := in.toGithubAccount(0)
	if err := g.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateGithubAccount(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGithubAccountResponse(created))
}

func (s *Server) handleGetGithubAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := s.store.GetGithubAccount(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newGithubAccountResponse(g))
}

func (s *Server) handleUpdateGithubAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in githubAccountPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	g := in.toGithubAccount(id)
	if err := g.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.UpdateGithubAccount(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetGithubAccount(w, r)
}

func (s *Server) handleDeleteGithubAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteGithubAccount(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	links, err := s.store.ListLinks(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(links, newLinkResponse))
}

func (s *Server) handleCreateLink(w http.ResponseWriter, r *http.Request) {
	var in linkPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	l := in.toLink(0)
	if err := l.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.store.CreateLink(r.Context(), l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newLinkResponse(created))
}

func (s *Server) handleGetLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, err := s.store.GetLink(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newLinkResponse(l))
}

func (s *Server) handleUpdateLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in linkPayload
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	l := in.toLink(id)
	if err := l.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.UpdateLink(r.Context(), l); err != nil {
		writeError(w, r, err)
		return
	}
	s.handleGetLink(w, r)
}

func (s *Server) handleDeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.DeleteLink(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
