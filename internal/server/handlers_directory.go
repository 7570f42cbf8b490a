package server

import (
	"fmt"
	"net/http"

	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/types"
)

// DepartmentsResponse lists the known departments
type DepartmentsResponse struct {
	Departments []types.Department `json:"departments"`
}

// SkillsResponse lists the skill options of a department
type SkillsResponse struct {
	Department types.Department `json:"department"`
	Skills     []string         `json:"skills"`
}

// ManagersResponse lists the manager candidates of a department
type ManagersResponse struct {
	Department types.Department `json:"department"`
	Managers   []types.Manager  `json:"managers"`
}

// department resolves the {department} path value.
func department(r *http.Request) (types.Department, error) {
	d := types.Department(r.PathValue("department"))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", directory.ErrUnknownDepartment, d)
	}
	return d, nil
}

// handleListDepartments lists the departments of the directory
func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := s.directory.Departments(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, DepartmentsResponse{Departments: depts})
}

// handleDepartmentOverview returns the skills and managers of a department
func (s *Server) handleDepartmentOverview(w http.ResponseWriter, r *http.Request) {
	d, err := department(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	overview, err := directory.Overview(r.Context(), s.directory, d)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, overview)
}

// handleDepartmentSkills returns the skill options of a department
func (s *Server) handleDepartmentSkills(w http.ResponseWriter, r *http.Request) {
	d, err := department(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	skills, err := s.directory.SkillsFor(r.Context(), d)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SkillsResponse{Department: d, Skills: skills})
}

// handleDepartmentManagers returns the manager candidates of a department,
// narrowed by the optional q search parameter
func (s *Server) handleDepartmentManagers(w http.ResponseWriter, r *http.Request) {
	d, err := department(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	query := types.ManagerSearchQuery{Department: string(d), Search: r.URL.Query().Get("q")}
	if err := query.Validate(); err != nil {
		s.errorResponse(w, requestError(err))
		return
	}

	managers, err := directory.SearchManagers(r.Context(), s.directory, d, query.Search)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ManagersResponse{Department: d, Managers: managers})
}
