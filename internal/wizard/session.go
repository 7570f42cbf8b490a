package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/onboarding-wizard/internal/rules"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/validation"
)

// ReferenceData supplies the department-scoped skill options and manager candidates.
type ReferenceData interface {
	SkillsFor(ctx context.Context, department types.Department) ([]string, error)
	ManagersFor(ctx context.Context, department types.Department) ([]types.Manager, error)
}

// Submitter hands a finalized payload to the submission transport.
type Submitter interface {
	Submit(ctx context.Context, sessionID uuid.UUID, payload *types.SubmissionPayload) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, sessionID uuid.UUID, payload *types.SubmissionPayload) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, sessionID uuid.UUID, payload *types.SubmissionPayload) error {
	return f(ctx, sessionID, payload)
}

// Config wires a Session to its collaborators. Zero values are usable: no
// reference data checks, submissions that always succeed, the wall clock and
// a no-op logger.
type Config struct {
	Directory ReferenceData
	Submitter Submitter
	Clock     func() time.Time
	Logger    *zap.Logger
	// ResetAfterSubmit clears the form once a submission succeeds.
	ResetAfterSubmit bool
}

// Session is one wizard run. It serializes every operation on its State.
type Session struct {
	mu         sync.Mutex
	id         uuid.UUID
	state      *State
	cfg        Config
	log        *zap.Logger
	createdAt  time.Time
	updatedAt  time.Time
	submitting bool
}

// NewSession creates an empty session.
func NewSession(cfg Config) *Session {
	cfg = withDefaults(cfg)
	now := cfg.Clock().UTC()
	s := &Session{
		id:        uuid.New(),
		state:     NewState(),
		cfg:       cfg,
		createdAt: now,
		updatedAt: now,
	}
	s.log = cfg.Logger.With(zap.String("session_id", s.id.String()))
	return s
}

// RestoreSession rebuilds a session from a persisted snapshot.
func RestoreSession(snap types.SessionSnapshot, cfg Config) *Session {
	cfg = withDefaults(cfg)
	state := &State{
		Data:        snap.Data.Clone(),
		CurrentStep: clamp(snap.CurrentStep),
		HasUnsaved:  snap.HasUnsaved,
	}
	return &Session{
		id:        snap.ID,
		state:     state,
		cfg:       cfg,
		log:       cfg.Logger.With(zap.String("session_id", snap.ID.String())),
		createdAt: snap.CreatedAt,
		updatedAt: snap.UpdatedAt,
	}
}

func withDefaults(cfg Config) Config {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Submitter == nil {
		cfg.Submitter = SubmitterFunc(func(context.Context, uuid.UUID, *types.SubmissionPayload) error { return nil })
	}
	return cfg
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Snapshot returns a copy of the session for persistence or display.
func (s *Session) Snapshot() types.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() types.SessionSnapshot {
	return types.SessionSnapshot{
		ID:          s.id,
		CurrentStep: s.state.CurrentStep,
		HasUnsaved:  s.state.HasUnsaved,
		Data:        s.state.Data.Clone(),
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
}

// AvailableSteps returns the steps that can currently be navigated to.
func (s *Session) AvailableSteps() []types.StepIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AvailableSteps(&s.state.Data)
}

// Check validates raw input for step without storing it. The returned input has
// derivations applied (a Contract job type carries the fixed rate).
func (s *Session) Check(ctx context.Context, step types.StepIdentity, in rules.Input) (rules.Input, error) {
	s.mu.Lock()
	data := s.state.Data.Clone()
	s.mu.Unlock()

	derived := validation.ApplyDerivations(step, in)
	_, err := validation.ValidateStep(step, derived, s.deps(ctx, data))
	return derived, err
}

// Commit validates raw input for the current step, stores the record and advances.
// Nothing changes when validation fails.
func (s *Session) Commit(ctx context.Context, step types.StepIdentity, in rules.Input) (types.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrSubmissionInFlight
	}
	if step != s.state.CurrentStep {
		return nil, &StepOrderError{Current: s.state.CurrentStep, Requested: step}
	}

	derived := validation.ApplyDerivations(step, in)
	record, err := validation.ValidateStep(step, derived, s.deps(ctx, s.state.Data))
	if err != nil {
		s.log.Debug("step rejected", zap.Stringer("step", step), zap.Error(err))
		return nil, err
	}
	if err := s.state.SetStepData(step, record); err != nil {
		return nil, err
	}
	s.state.GoNext()
	s.touch()

	s.log.Info("step committed",
		zap.Stringer("step", step),
		zap.Stringer("current_step", s.state.CurrentStep),
		zap.Stringers("dependents", Dependents(step)),
	)
	stored := s.state.Data.Clone()
	return stored.Get(step), nil
}

// Back moves to the previous step. Stored data is kept.
func (s *Session) Back() (types.StepIdentity, error) {
	return s.navigate("back", func(st *State) error {
		st.GoBack()
		return nil
	})
}

// Next moves forward only when the current step already has a stored record.
func (s *Session) Next() (types.StepIdentity, error) {
	return s.navigate("next", func(st *State) error {
		if current := st.CurrentStep; current.HasRecord() && !st.Data.Has(current) {
			return &DependencyError{Step: clamp(current + 1), MissingDependencies: []types.StepIdentity{current}}
		}
		st.GoNext()
		return nil
	})
}

// GoTo jumps to step, clamped to the furthest reachable step.
func (s *Session) GoTo(step types.StepIdentity) (types.StepIdentity, error) {
	return s.navigate("goto", func(st *State) error {
		target := clamp(step)
		if highest := HighestReachable(&st.Data); target > highest {
			target = highest
		}
		st.GoTo(target)
		return nil
	})
}

// Reset clears the session's data and returns to the first step.
func (s *Session) Reset() error {
	_, err := s.navigate("reset", func(st *State) error {
		st.Reset()
		return nil
	})
	return err
}

func (s *Session) navigate(action string, move func(*State) error) (types.StepIdentity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return s.state.CurrentStep, ErrSubmissionInFlight
	}
	from := s.state.CurrentStep
	if err := move(s.state); err != nil {
		return from, err
	}
	s.touch()
	s.log.Debug("navigated",
		zap.String("action", action),
		zap.Stringer("from", from),
		zap.Stringer("to", s.state.CurrentStep),
	)
	return s.state.CurrentStep, nil
}

// Submit runs the review gate, re-validates every stored record against the live
// clock and directory, and hands the payload to the submitter. A second call while
// one is in flight returns ErrSubmissionInFlight. On transport failure the state
// is left as it was.
func (s *Session) Submit(ctx context.Context, confirmed bool) (*types.SubmissionPayload, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	}
	data := s.state.Data.Clone()
	now := s.cfg.Clock()
	payload, err := validation.Review(confirmed, data, now)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	deps, err := s.prefetch(ctx, data, now)
	if err != nil {
		return nil, err
	}
	if err := validation.Revalidate(data, deps); err != nil {
		s.log.Info("submission rejected on re-validation", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	if err := s.cfg.Submitter.Submit(ctx, s.id, payload); err != nil {
		s.log.Warn("submission failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, &SubmissionError{Message: "failed to submit onboarding form", Cause: err}
	}

	s.mu.Lock()
	s.state.Submit(payload.AllFormData)
	if s.cfg.ResetAfterSubmit {
		s.state.Reset()
	}
	s.touch()
	s.mu.Unlock()

	s.log.Info("submission accepted",
		zap.String("submitted_at", payload.SubmittedAt),
		zap.Duration("duration", time.Since(start)),
	)
	return payload, nil
}

// prefetch loads the reference data of the stored department concurrently, so the
// re-validation pass runs against one consistent view of the directory.
func (s *Session) prefetch(ctx context.Context, data types.AllFormData, now time.Time) (validation.Deps, error) {
	deps := validation.Deps{Now: now, Data: data}
	if s.cfg.Directory == nil || data.Step2 == nil {
		return deps, nil
	}
	dept := data.Step2.Department

	var (
		skills   []string
		managers []types.Manager
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		skills, err = s.cfg.Directory.SkillsFor(gctx, dept)
		return err
	})
	g.Go(func() error {
		var err error
		managers, err = s.cfg.Directory.ManagersFor(gctx, dept)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, validation.ErrUnknownDepartment) {
			// Surfaces as field errors during re-validation.
			live := s.deps(ctx, data)
			live.Now = now
			return live, nil
		}
		return deps, &validation.LookupError{Message: "failed to load reference data for " + string(dept), Cause: err}
	}

	deps.Skills = func(d types.Department) ([]string, error) {
		if d == dept {
			return skills, nil
		}
		return s.cfg.Directory.SkillsFor(ctx, d)
	}
	deps.Managers = func(d types.Department) ([]types.Manager, error) {
		if d == dept {
			return managers, nil
		}
		return s.cfg.Directory.ManagersFor(ctx, d)
	}
	return deps, nil
}

func (s *Session) deps(ctx context.Context, data types.AllFormData) validation.Deps {
	deps := validation.Deps{Now: s.cfg.Clock(), Data: data}
	if dir := s.cfg.Directory; dir != nil {
		deps.Skills = func(d types.Department) ([]string, error) { return dir.SkillsFor(ctx, d) }
		deps.Managers = func(d types.Department) ([]types.Manager, error) { return dir.ManagersFor(ctx, d) }
	}
	return deps
}

func (s *Session) touch() {
	s.updatedAt = s.cfg.Clock().UTC()
}
