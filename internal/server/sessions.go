package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/onboarding-wizard/internal/schemas"
	"github.com/jonathan/onboarding-wizard/internal/store"
	"github.com/jonathan/onboarding-wizard/internal/types"
	"github.com/jonathan/onboarding-wizard/internal/wizard"
)

// sessionRegistry keeps live sessions in memory and persists every change
// to the store. Sessions missing from memory are restored from the store.
type sessionRegistry struct {
	mu    sync.Mutex
	live  map[uuid.UUID]*wizard.Session
	store store.Store
	cfg   wizard.Config
	log   *zap.Logger
}

func newSessionRegistry(st store.Store, cfg wizard.Config, log *zap.Logger) *sessionRegistry {
	return &sessionRegistry{
		live:  make(map[uuid.UUID]*wizard.Session),
		store: st,
		cfg:   cfg,
		log:   log,
	}
}

// sessionConfig wires new sessions to the directory and the submission log.
func (s *Server) sessionConfig(cfg Config) wizard.Config {
	return wizard.Config{
		Directory:        cfg.Directory,
		Submitter:        wizard.SubmitterFunc(s.recordSubmission),
		Clock:            cfg.Clock,
		Logger:           cfg.Logger,
		ResetAfterSubmit: cfg.ResetAfterSubmit,
	}
}

// recordSubmission is the submission transport: accepted payloads are
// appended to the submission log.
func (s *Server) recordSubmission(ctx context.Context, sessionID uuid.UUID, payload *types.SubmissionPayload) error {
	at, err := payload.SubmittedTime()
	if err != nil {
		return fmt.Errorf("invalid submission timestamp: %w", err)
	}
	sub := types.Submission{
		ID:          uuid.New(),
		SessionID:   sessionID,
		Payload:     *payload,
		SubmittedAt: at,
	}
	if err := s.store.SaveSubmission(ctx, sub); err != nil {
		return err
	}
	s.log.Info("submission recorded",
		zap.String("submission_id", sub.ID.String()),
		zap.String("session_id", sessionID.String()),
	)
	return nil
}

func (r *sessionRegistry) create(ctx context.Context) (*wizard.Session, error) {
	sess := wizard.NewSession(r.cfg)
	if err := r.save(ctx, sess); err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.live[sess.ID()] = sess
	r.mu.Unlock()
	return sess, nil
}

func (r *sessionRegistry) get(ctx context.Context, id uuid.UUID) (*wizard.Session, error) {
	r.mu.Lock()
	sess, ok := r.live[id]
	r.mu.Unlock()
	if ok {
		return sess, nil
	}

	snap, err := r.store.GetSession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if snap == nil {
		return nil, &ErrSessionNotFound{SessionID: id}
	}
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have restored it meanwhile
	if sess, ok := r.live[id]; ok {
		return sess, nil
	}
	sess = wizard.RestoreSession(*snap, r.cfg)
	r.live[id] = sess
	r.log.Debug("session restored", zap.String("session_id", id.String()))
	return sess, nil
}

func (r *sessionRegistry) save(ctx context.Context, sess *wizard.Session) error {
	if err := r.store.SaveSession(ctx, sess.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (r *sessionRegistry) delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.get(ctx, id); err != nil {
		return err
	}
	if err := r.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	r.mu.Lock()
	delete(r.live, id)
	r.mu.Unlock()
	return nil
}

// checkSnapshot validates restored data against the persisted layout schema.
func checkSnapshot(snap *types.SessionSnapshot) error {
	raw, err := json.Marshal(snap.Data)
	if err != nil {
		return &ErrCorruptSession{SessionID: snap.ID, Cause: err}
	}
	if err := schemas.ValidateFormData(raw); err != nil {
		return &ErrCorruptSession{SessionID: snap.ID, Cause: err}
	}
	return nil
}
