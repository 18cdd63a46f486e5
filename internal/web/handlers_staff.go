package web

import (
	"net/http"

	"github.com/JonMunkholm/ropeworks/internal/core"
)

// =============================================================================
// Employees
// =============================================================================

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.ListEmployees(r.Context(), listFilter(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	emp, err := s.service.GetEmployee(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, emp)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var in core.EmployeeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	emp, err := s.service.CreateEmployee(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, emp)
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.EmployeeInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	emp, err := s.service.UpdateEmployee(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, emp)
}

// handleSetEmployeeWorkTypes replaces the employee's usual work type per
// category. Body: [{"work_category_id": 1, "work_type_id": 4}, ...].
func (s *Server) handleSetEmployeeWorkTypes(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var selections []core.WorkTypeSelection
	if err := decodeJSON(w, r, &selections); err != nil {
		s.fail(w, r, err)
		return
	}
	emp, err := s.service.SetEmployeeWorkTypes(r.Context(), id, selections)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, emp)
}

// =============================================================================
// Vehicles
// =============================================================================

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.ListVehicles(r.Context(), listFilter(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.service.GetVehicle(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in core.VehicleInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.service.CreateVehicle(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, v)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var in core.VehicleInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.service.UpdateVehicle(r.Context(), id, in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}
