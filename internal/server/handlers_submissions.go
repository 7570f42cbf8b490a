package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/onboarding-wizard/internal/types"
)

// SubmissionsResponse lists accepted submissions, newest first
type SubmissionsResponse struct {
	Submissions []types.Submission `json:"submissions"`
}

// handleListSubmissions lists the submission log
func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	var query types.ListSubmissionsQuery
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.errorResponse(w, &ErrValidation{Field: "limit", Message: "must be an integer"})
			return
		}
		query.Limit = limit
	}
	if err := query.Validate(); err != nil {
		s.errorResponse(w, requestError(err))
		return
	}

	subs, err := s.store.ListSubmissions(r.Context(), query.Limit)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if subs == nil {
		subs = []types.Submission{}
	}
	s.jsonResponse(w, http.StatusOK, SubmissionsResponse{Submissions: subs})
}
