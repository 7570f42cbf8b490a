package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/wizard"
)

// SessionResponse is a session snapshot plus the steps it can navigate to.
type SessionResponse struct {
	types.SessionSnapshot
	AvailableSteps []types.StepIdentity `json:"availableSteps"`
}

// CheckResponse is the result of validating a draft step without committing it.
type CheckResponse struct {
	Valid  bool               `json:"valid"`
	Input  rules.Input        `json:"input"`
	Errors map[string]string  `json:"errors,omitempty"`
	Fields []rules.FieldError `json:"fields,omitempty"`
}

func newSessionResponse(sess *wizard.Session) SessionResponse {
	return SessionResponse{
		SessionSnapshot: sess.Snapshot(),
		AvailableSteps:  sess.AvailableSteps(),
	}
}

// session resolves the {id} path value to a live session.
func (s *Server) session(r *http.Request) (*wizard.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return s.sessions.get(r.Context(), id)
}

// stepInput resolves the {step} path value and decodes the raw step object.
func stepInput(r *http.Request) (types.StepIdentity, rules.Input, error) {
	step, err := types.ParseStep(r.PathValue("step"))
	if err != nil {
		return 0, nil, &ErrValidation{Field: "step", Message: err.Error()}
	}
	var in rules.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return 0, nil, &ErrValidation{Field: "body", Message: "invalid JSON object: " + err.Error()}
	}
	if in == nil {
		in = rules.Input{}
	}
	return step, in, nil
}

// handleCreateSession starts a new wizard session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.create(r.Context())
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newSessionResponse(sess))
}

// handleGetSession returns a session snapshot
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionResponse(sess))
}

// handleDeleteSession discards a session
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	if err := s.sessions.delete(r.Context(), id); err != nil {
		s.errorResponse(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommitStep validates and stores the current step, then advances
func (s *Server) handleCommitStep(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	step, in, err := stepInput(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if _, err := sess.Commit(r.Context(), step, in); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.persistAndRespond(w, r, sess, http.StatusOK)
}

// handleCheckStep validates a draft without storing it
func (s *Server) handleCheckStep(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	step, in, err := stepInput(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	derived, err := sess.Check(r.Context(), step, in)
	resp := CheckResponse{Valid: err == nil, Input: derived}
	if err != nil {
		var fieldErr *rules.ValidationError
		if !errors.As(err, &fieldErr) {
			s.errorResponse(w, err)
			return
		}
		resp.Errors = fieldErr.Messages()
		resp.Fields = fieldErr.Errors
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleBack moves to the previous step
func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(sess *wizard.Session) error {
		_, err := sess.Back()
		return err
	})
}

// handleNext moves to the next step when the current one is stored
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(sess *wizard.Session) error {
		_, err := sess.Next()
		return err
	})
}

// handleGoTo jumps to a reachable step
func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req types.GotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, requestError(err))
		return
	}
	s.navigate(w, r, func(sess *wizard.Session) error {
		_, err := sess.GoTo(types.StepIdentity(req.Step))
		return err
	})
}

// handleReset clears the session
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, (*wizard.Session).Reset)
}

// handleSubmit runs the review gate and submits the payload
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	var req types.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, requestError(err))
		return
	}

	payload, err := sess.Submit(r.Context(), *req.Confirmed)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := s.sessions.save(r.Context(), sess); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, payload)
}

func (s *Server) navigate(w http.ResponseWriter, r *http.Request, move func(*wizard.Session) error) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := move(sess); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.persistAndRespond(w, r, sess, http.StatusOK)
}

func (s *Server) persistAndRespond(w http.ResponseWriter, r *http.Request, sess *wizard.Session, status int) {
	if err := s.sessions.save(r.Context(), sess); err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, status, newSessionResponse(sess))
}
