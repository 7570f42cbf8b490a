package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/onboarding-wizard/internal/directory"
	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/server/ratelimit"
	"github.com/jonathan/onboarding-wizard/internal/store"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/validation"
	"github.com/jonathan/onboarding-wizard/internal/wizard"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// newTestServer creates a server over an in-memory store with rate limiting disabled
func newTestServer(t *testing.T, st store.Store) *Server {
	t.Helper()
	if st == nil {
		st = store.NewMemory()
	}
	s, err := New(Config{
		Store:     st,
		Directory: directory.Default(),
		Clock:     fixedClock,
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func stepBodies() map[types.StepIdentity]map[string]any {
	return map[types.StepIdentity]map[string]any{
		types.StepPersonalInfo: {
			"fullName": "Ada Lovelace",
			"email":    "ada@example.com",
			"phone":    "+1-555-123-4567",
			"dob":      "1990-12-10",
		},
		types.StepJobDetails: {
			"department":    "Engineering",
			"positionTitle": "Backend Engineer",
			"startDate":     "2025-07-01",
			"jobType":       "Contract",
			"salary":        90000,
			"manager":       "Alice Johnson",
		},
		types.StepSkills: {
			"skills":           []string{"Go", "SQL", "Kubernetes"},
			"preferredHours":   map[string]string{"start": "09:00", "end": "17:00"},
			"remotePreference": 70,
			"managerApproved":  true,
		},
		types.StepEmergency: {
			"contactName":  "Charles Babbage",
			"relationship": "Friend",
			"phone":        "+44-207-946-0958",
		},
	}
}

func createSession(t *testing.T, s *Server) SessionResponse {
	t.Helper()
	w := do(t, s, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w)
}

func completeSteps(t *testing.T, s *Server, id uuid.UUID) {
	t.Helper()
	bodies := stepBodies()
	for _, step := range types.DataSteps {
		w := do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/%d", id, step), bodies[step])
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", step, w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, w))
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{Directory: directory.Default()})
	assert.Error(t, err)
	_, err = New(Config{Store: store.NewMemory()})
	assert.Error(t, err)
}

func TestDepartmentEndpoints(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Departments, decode[DepartmentsResponse](t, w).Departments)

	w = do(t, s, http.MethodGet, "/departments/Sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	overview := decode[types.DepartmentOverview](t, w)
	assert.Contains(t, overview.Skills, "CRM")
	assert.Len(t, overview.Managers, 2)

	w = do(t, s, http.MethodGet, "/departments/HR/skills", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[SkillsResponse](t, w).Skills, "Payroll")

	w = do(t, s, http.MethodGet, "/departments/Engineering/managers?q=alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	managers := decode[ManagersResponse](t, w).Managers
	require.Len(t, managers, 1)
	assert.Equal(t, "Alice Johnson", managers[0].Name)

	w = do(t, s, http.MethodGet, "/departments/Legal", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/departments/Engineering/managers?q="+string(bytes.Repeat([]byte("a"), 101)), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWizardFlow(t *testing.T) {
	s := newTestServer(t, nil)

	created := createSession(t, s)
	assert.Equal(t, types.StepPersonalInfo, created.CurrentStep)
	assert.Equal(t, []types.StepIdentity{types.StepPersonalInfo}, created.AvailableSteps)

	completeSteps(t, s, created.ID)

	w := do(t, s, http.MethodGet, "/sessions/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[SessionResponse](t, w)
	assert.Equal(t, types.StepReview, snap.CurrentStep)
	assert.True(t, snap.HasUnsaved)
	require.NotNil(t, snap.Data.Step2.Salary)
	assert.Equal(t, 150.0, *snap.Data.Step2.Salary, "contract rate is derived")

	w = do(t, s, http.MethodPost, "/sessions/"+created.ID.String()+"/submit", map[string]bool{"confirmed": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payload := decode[types.SubmissionPayload](t, w)
	assert.Equal(t, "2025-06-15T12:00:00.000Z", payload.SubmittedAt)
	assert.Equal(t, "Ada Lovelace", payload.Step1.FullName)

	w = do(t, s, http.MethodGet, "/submissions", nil)
	require.Equal(t, http.StatusOK, w.Code)
	subs := decode[SubmissionsResponse](t, w).Submissions
	require.Len(t, subs, 1)
	assert.Equal(t, created.ID, subs[0].SessionID)
	assert.True(t, fixedNow.Equal(subs[0].SubmittedAt))

	w = do(t, s, http.MethodGet, "/sessions/"+created.ID.String(), nil)
	assert.False(t, decode[SessionResponse](t, w).HasUnsaved, "submit clears the dirty flag")
}

func TestCommitStep_ValidationFailure(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID

	body := stepBodies()[types.StepPersonalInfo]
	body["email"] = "nope"
	delete(body, "phone")
	w := do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/personal-info", id), body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "validation failed", resp.Error)
	assert.Equal(t, "Invalid email", resp.Errors["email"])
	assert.Equal(t, "Phone is required", resp.Errors["phone"])
	codes := map[string]rules.Code{}
	for _, f := range resp.Fields {
		codes[f.Field] = f.Code
	}
	assert.Equal(t, rules.CodeRequired, codes["phone"])

	// Nothing was stored
	w = do(t, s, http.MethodGet, "/sessions/"+id.String(), nil)
	assert.Nil(t, decode[SessionResponse](t, w).Data.Step1)
}

func TestCommitStep_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"wrong step", fmt.Sprintf("/sessions/%s/steps/3", id), stepBodies()[types.StepSkills], http.StatusConflict},
		{"unknown step", fmt.Sprintf("/sessions/%s/steps/9", id), map[string]any{}, http.StatusBadRequest},
		{"array body", fmt.Sprintf("/sessions/%s/steps/1", id), []int{1}, http.StatusBadRequest},
		{"bad id", "/sessions/not-a-uuid/steps/1", map[string]any{}, http.StatusBadRequest},
		{"unknown session", fmt.Sprintf("/sessions/%s/steps/1", uuid.New()), map[string]any{}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestCheckStep(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID

	w := do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/job-details/check", id), stepBodies()[types.StepJobDetails])
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ok := decode[CheckResponse](t, w)
	assert.True(t, ok.Valid)
	assert.Equal(t, 150.0, ok.Input["salary"])

	body := stepBodies()[types.StepJobDetails]
	body["manager"] = "Hannah Lee"
	w = do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/job-details/check", id), body)
	require.Equal(t, http.StatusOK, w.Code)
	bad := decode[CheckResponse](t, w)
	assert.False(t, bad.Valid)
	assert.Equal(t, "Manager is not part of the Engineering department", bad.Errors["manager"])

	// Checking never stores or moves
	w = do(t, s, http.MethodGet, "/sessions/"+id.String(), nil)
	snap := decode[SessionResponse](t, w)
	assert.Nil(t, snap.Data.Step2)
	assert.Equal(t, types.StepPersonalInfo, snap.CurrentStep)

	w = do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/review/check", id), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNavigation(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID
	base := "/sessions/" + id.String()

	w := do(t, s, http.MethodPost, base+"/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "step 1 has no data yet")
	assert.Equal(t, []string{"step1"}, decode[ErrorResponse](t, w).Missing)

	completeSteps(t, s, id)

	w = do(t, s, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StepEmergency, decode[SessionResponse](t, w).CurrentStep)

	w = do(t, s, http.MethodPost, base+"/goto", map[string]int{"step": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StepJobDetails, decode[SessionResponse](t, w).CurrentStep)

	w = do(t, s, http.MethodPost, base+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StepSkills, decode[SessionResponse](t, w).CurrentStep)

	w = do(t, s, http.MethodPost, base+"/goto", map[string]int{"step": 7})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	reset := decode[SessionResponse](t, w)
	assert.Equal(t, types.StepPersonalInfo, reset.CurrentStep)
	assert.Nil(t, reset.Data.Step1)

	// Jumps are clamped to the furthest reachable step
	w = do(t, s, http.MethodPost, base+"/goto", map[string]int{"step": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.StepPersonalInfo, decode[SessionResponse](t, w).CurrentStep)
}

func TestSubmit_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	id := createSession(t, s).ID
	path := "/sessions/" + id.String() + "/submit"

	w := do(t, s, http.MethodPost, path, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code, "confirmed flag is required")

	w = do(t, s, http.MethodPost, path, map[string]bool{"confirmed": true})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, []string{"step1", "step2", "step3", "step4"}, decode[ErrorResponse](t, w).Missing)

	completeSteps(t, s, id)
	w = do(t, s, http.MethodPost, path, map[string]bool{"confirmed": false})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestSubmit_RevalidatesAgainstDirectory(t *testing.T) {
	dir := directory.Default()
	s, err := New(Config{
		Store:     store.NewMemory(),
		Directory: dir,
		Clock:     fixedClock,
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)

	id := createSession(t, s).ID
	completeSteps(t, s, id)

	// Alice leaves Engineering after the step was committed
	require.NoError(t, dir.SetManagers(types.DepartmentEngineering, []types.Manager{{ID: "m2", Name: "Brian Smith"}}))

	w := do(t, s, http.MethodPost, "/sessions/"+id.String()+"/submit", map[string]bool{"confirmed": true})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, decode[ErrorResponse](t, w).Errors, "step2.manager")
}

func TestCommit_DepartmentMissingFromDirectory(t *testing.T) {
	dir, err := directory.Parse([]byte(`
departments:
  - name: Engineering
    skills: [Go, SQL, Kubernetes]
    managers:
      - {id: m1, name: Alice Johnson}
`))
	require.NoError(t, err)
	s, err := New(Config{
		Store:     store.NewMemory(),
		Directory: dir,
		Clock:     fixedClock,
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)

	id := createSession(t, s).ID
	bodies := stepBodies()
	w := do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/personal-info", id), bodies[types.StepPersonalInfo])
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	job := bodies[types.StepJobDetails]
	job["department"] = "Sales"
	job["manager"] = "Fiona Garcia"
	w = do(t, s, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/job-details", id), job)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "The Sales department is not available", resp.Errors["department"])
	require.Len(t, resp.Fields, 1)
	assert.Equal(t, rules.CodeCrossDependency, resp.Fields[0].Code)
}

func TestSubmit_TransportFailure(t *testing.T) {
	st := store.NewMemory()
	s := newTestServer(t, st)
	id := createSession(t, s).ID
	completeSteps(t, s, id)

	require.NoError(t, st.Close())
	w := do(t, s, http.MethodPost, "/sessions/"+id.String()+"/submit", map[string]bool{"confirmed": true})
	assert.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())
}

func TestSessions_RestoredFromStore(t *testing.T) {
	st := store.NewMemory()
	first := newTestServer(t, st)
	id := createSession(t, first).ID
	w := do(t, first, http.MethodPost, fmt.Sprintf("/sessions/%s/steps/1", id), stepBodies()[types.StepPersonalInfo])
	require.Equal(t, http.StatusOK, w.Code)

	second := newTestServer(t, st)
	w = do(t, second, http.MethodGet, "/sessions/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[SessionResponse](t, w)
	assert.Equal(t, types.StepJobDetails, snap.CurrentStep)
	assert.Equal(t, "Ada Lovelace", snap.Data.Step1.FullName)

	w = do(t, second, http.MethodDelete, "/sessions/"+id.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, second, http.MethodGet, "/sessions/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, second, http.MethodDelete, "/sessions/"+id.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessions_CorruptSnapshotRejected(t *testing.T) {
	st := store.NewMemory()
	snap := types.SessionSnapshot{
		ID:          uuid.New(),
		CurrentStep: types.StepSkills,
		Data: types.AllFormData{Step2: &types.JobDetails{
			Department:    "Legal",
			PositionTitle: "Counsel",
			StartDate:     types.NewDate(2025, time.July, 1),
			JobType:       types.JobTypeFullTime,
			Manager:       "Nobody",
		}},
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
	require.NoError(t, st.SaveSession(context.Background(), snap))

	s := newTestServer(t, st)
	w := do(t, s, http.MethodGet, "/sessions/"+snap.ID.String(), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Error, "step2.department")
}

func TestListSubmissions_BadLimit(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodGet, "/submissions?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, http.MethodGet, "/submissions?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/submissions?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[SubmissionsResponse](t, w).Submissions)
}

func TestRateLimit(t *testing.T) {
	s, err := New(Config{
		Store:     store.NewMemory(),
		Directory: directory.Default(),
		RateLimit: &ratelimit.Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute},
	})
	require.NoError(t, err)
	defer s.Close()

	w := do(t, s, http.MethodGet, "/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = do(t, s, http.MethodGet, "/departments", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health is never limited
	w = do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	w := do(t, s, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"field errors", &rules.ValidationError{Errors: []rules.FieldError{{Field: "email"}}}, http.StatusUnprocessableEntity},
		{"not confirmed", validation.ErrNotConfirmed, http.StatusUnprocessableEntity},
		{"request", &ErrValidation{Field: "step"}, http.StatusBadRequest},
		{"no schema", validation.ErrNoSchema, http.StatusBadRequest},
		{"session not found", &ErrSessionNotFound{}, http.StatusNotFound},
		{"unknown department", fmt.Errorf("lookup: %w", directory.ErrUnknownDepartment), http.StatusNotFound},
		{"step order", &wizard.StepOrderError{}, http.StatusConflict},
		{"dependency", &wizard.DependencyError{}, http.StatusConflict},
		{"incomplete", &validation.IncompleteError{}, http.StatusConflict},
		{"in flight", wizard.ErrSubmissionInFlight, http.StatusConflict},
		{"transport", &wizard.SubmissionError{Cause: errors.New("down")}, http.StatusBadGateway},
		{"lookup", &validation.LookupError{}, http.StatusServiceUnavailable},
		{"corrupt", &ErrCorruptSession{}, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
