package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vhvplatform/react-framework-sub001/internal/registry"
	"github.com/vhvplatform/react-framework-sub001/internal/templates"
)

type listResponse struct {
	Templates []registry.Metadata `json:"templates"`
}

type templateResponse struct {
	Name   string           `json:"name"`
	Path   string           `json:"path"`
	Config templates.Config `json:"config"`
}

func (s *Server) listTemplates(w http.ResponseWriter, _ *http.Request) {
	metas, err := s.reg.ListTemplateMetadata()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Templates: metas})
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	tmpl, err := s.reg.Get(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templateResponse{Name: name, Path: tmpl.Dir(), Config: tmpl.Config()})
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.reg.Remove(name); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("template removed", "template", name)
	w.WriteHeader(http.StatusNoContent)
}
