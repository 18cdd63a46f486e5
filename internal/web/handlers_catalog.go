package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/ropeworks/internal/core"
)

// Categories and types are short lists; they are not paginated.

func (s *Server) handleListWorkCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.service.ListWorkCategories(r.Context(), strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cats)
}

func (s *Server) handleGetWorkCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cat, err := s.service.GetWorkCategory(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cat)
}

func (s *Server) handleCreateWorkCategory(w http.ResponseWriter, r *http.Request) {
	var in core.WorkCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	cat, err := s.service.CreateWorkCategory(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, cat)
}

func (s *Server) handleUpdateWorkCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.WorkCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	cat, err := s.service.UpdateWorkCategory(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cat)
}

// handleListWorkTypes accepts work_category_id to narrow the list.
func (s *Server) handleListWorkTypes(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryID(r, "work_category_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	types, err := s.service.ListWorkTypes(r.Context(), categoryID, strings.TrimSpace(r.URL.Query().Get("search")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, types)
}

func (s *Server) handleGetWorkType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	wt, err := s.service.GetWorkType(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wt)
}

func (s *Server) handleCreateWorkType(w http.ResponseWriter, r *http.Request) {
	var in core.WorkTypeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	wt, err := s.service.CreateWorkType(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, wt)
}

func (s *Server) handleUpdateWorkType(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.WorkTypeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	wt, err := s.service.UpdateWorkType(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wt)
}
