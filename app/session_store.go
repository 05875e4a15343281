package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"energyexplain/domain/core"
	"energyexplain/domain/model"
	"energyexplain/domain/series"
	"energyexplain/internal"
	"energyexplain/internal/config"
	"energyexplain/internal/predictor"

	"golang.org/x/sync/singleflight"
)

// SessionState is one immutable {snapshot, model} pair. A retrain builds a
// new state and swaps it in; readers load the pointer once per request.
type SessionState struct {
	Snapshot  *series.Snapshot
	Model     *model.TrainedModel
	Options   predictor.Options
	TrainedAt time.Time

	generation uint64 // call order of the load or retrain that built it
}

type session struct {
	id        core.SessionID
	createdAt time.Time
	state     atomic.Pointer[SessionState]
	calls     atomic.Uint64
}

// SessionInfo describes a session without exposing its state pointer.
type SessionInfo struct {
	ID         core.SessionID    `json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	HasDataset bool              `json:"has_dataset"`
	SnapshotID core.SnapshotHash `json:"snapshot_id,omitempty"`
	Records    int               `json:"records,omitempty"`
	Target     model.Target      `json:"target,omitempty"`
}

// SessionStore owns every session and trains models for them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*session

	trainer  *predictor.Trainer
	defaults predictor.Options
	group    singleflight.Group
	logger   *internal.Logger
}

// NewSessionStore creates an empty store. cfg supplies the default target,
// test fraction and seed.
func NewSessionStore(trainer *predictor.Trainer, cfg config.TrainingConfig, logger *internal.Logger) *SessionStore {
	return &SessionStore{
		sessions: make(map[core.SessionID]*session),
		trainer:  trainer,
		defaults: predictor.Options{Target: cfg.Target, TestFraction: cfg.TestFraction, Seed: cfg.Seed},
		logger:   internal.OrDefault(logger).With("sessions"),
	}
}

// Trainer returns the trainer shared by all sessions.
func (s *SessionStore) Trainer() *predictor.Trainer { return s.trainer }

// DefaultOptions returns the configured training options.
func (s *SessionStore) DefaultOptions() predictor.Options { return s.defaults }

// Create opens a new empty session.
func (s *SessionStore) Create() SessionInfo {
	sess := &session{id: core.NewSessionID(), createdAt: time.Now().UTC()}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Debug("created session %s", sess.id)
	return sess.info()
}

// Delete drops a session.
func (s *SessionStore) Delete(id core.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return sessionNotFound(id)
	}
	delete(s.sessions, id)
	return nil
}

// Info describes a session.
func (s *SessionStore) Info(id core.SessionID) (SessionInfo, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return SessionInfo{}, err
	}
	return sess.info(), nil
}

// State returns the session's current state. It fails with
// ErrModelNotTrained when no dataset has been loaded yet.
func (s *SessionStore) State(id core.SessionID) (*SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	st := sess.state.Load()
	if st == nil {
		return nil, fmt.Errorf("%w: session %s has no dataset", core.ErrModelNotTrained, id)
	}
	return st, nil
}

// LoadDataset validates records, trains a model on them and publishes the
// new state. On any failure, including a cancelled ctx, the previous state
// stays in place. When calls overlap, the one started last wins.
func (s *SessionStore) LoadDataset(ctx context.Context, id core.SessionID, country string, records []series.Record, opts predictor.Options) (*SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	snapshot, err := series.NewSnapshot(country, records)
	if err != nil {
		return nil, err
	}
	return s.train(ctx, sess, snapshot, opts)
}

// Retrain refits the session's current snapshot with new options.
func (s *SessionStore) Retrain(ctx context.Context, id core.SessionID, opts predictor.Options) (*SessionState, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	current := sess.state.Load()
	if current == nil {
		return nil, fmt.Errorf("%w: session %s has no dataset", core.ErrModelNotTrained, id)
	}
	return s.train(ctx, sess, current.Snapshot, opts)
}

func (s *SessionStore) train(ctx context.Context, sess *session, snapshot *series.Snapshot, opts predictor.Options) (*SessionState, error) {
	gen := sess.calls.Add(1)
	key := trainKey(sess.id, snapshot.Hash(), opts)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.trainer.Train(snapshot.Records(), opts)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("session %s: shared retrain %s", sess.id, key)
		}
		st := &SessionState{
			Snapshot:   snapshot,
			Model:      res.Val.(*model.TrainedModel),
			Options:    opts,
			TrainedAt:  time.Now().UTC(),
			generation: gen,
		}
		if sess.publish(st) {
			s.logger.Info("session %s: published %s model for snapshot %s", sess.id, opts.Target, snapshot.Hash().Short())
		} else {
			s.logger.Debug("session %s: %s model for snapshot %s superseded by a later call", sess.id, opts.Target, snapshot.Hash().Short())
		}
		return st, nil
	}
}

func trainKey(id core.SessionID, hash core.SnapshotHash, opts predictor.Options) string {
	return fmt.Sprintf("%s|%s|%s|%g|%d", id, hash, opts.Target, opts.TestFraction, opts.Seed)
}

// publish installs st unless the session already holds a state from a call
// that started after st's.
func (sess *session) publish(st *SessionState) bool {
	for {
		cur := sess.state.Load()
		if cur != nil && cur.generation > st.generation {
			return false
		}
		if sess.state.CompareAndSwap(cur, st) {
			return true
		}
	}
}

func (s *SessionStore) lookup(id core.SessionID) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, sessionNotFound(id)
	}
	return sess, nil
}

func sessionNotFound(id core.SessionID) error {
	return fmt.Errorf("%w: %s", core.ErrSessionNotFound, id)
}

func (sess *session) info() SessionInfo {
	info := SessionInfo{ID: sess.id, CreatedAt: sess.createdAt}
	if st := sess.state.Load(); st != nil {
		info.HasDataset = true
		info.SnapshotID = st.Snapshot.Hash()
		info.Records = st.Snapshot.Len()
		info.Target = st.Model.Target()
	}
	return info
}
