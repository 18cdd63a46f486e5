package web

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/ropeworks/internal/core"
)

func (s *Server) handleListDailyReports(w http.ResponseWriter, r *http.Request) {
	employeeID, err := queryID(r, "employee_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	jobID, err := queryID(r, "work_job_id")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	q := r.URL.Query()
	page, err := s.service.ListDailyReports(r.Context(), core.DailyReportFilter{
		EmployeeID:  employeeID,
		WorkJobID:   jobID,
		From:        strings.TrimSpace(q.Get("from")),
		To:          strings.TrimSpace(q.Get("to")),
		PageRequest: parsePage(r),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleGetDailyReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.service.GetDailyReport(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleCreateDailyReport(w http.ResponseWriter, r *http.Request) {
	var in core.ReportInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.service.CreateDailyReport(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, report)
}

// handleUpdateDailyReport replaces the report and syncs its entries by id.
func (s *Server) handleUpdateDailyReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.ReportInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.service.UpdateDailyReport(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleDeleteDailyReport(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.service.DeleteDailyReport(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWorkEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.EntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.service.AddWorkEntry(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, report)
}

func (s *Server) handleUpdateWorkEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entryID, err := pathID(r, "entryID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.EntryInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.service.UpdateWorkEntry(r.Context(), id, entryID, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

// handleRemoveWorkEntry returns the report with its recomputed total.
func (s *Server) handleRemoveWorkEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	entryID, err := pathID(r, "entryID")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	report, err := s.service.RemoveWorkEntry(r.Context(), id, entryID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}
