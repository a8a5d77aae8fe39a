// internal/services/reputation/reputation-gate/sessions.go
package reputationgate

import (
	"context"
	"sync"
	"time"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/metrics"
	"site-builder/internal/models"
	submitlead "site-builder/internal/services/leads/submit-lead"

	"github.com/google/uuid"
)

// ConfigSource supplies the current business configuration.
type ConfigSource interface {
	Get() models.BusinessConfig
}

type session struct {
	gate     *Gate
	lastSeen time.Time
}

// Sessions keeps one Gate per visitor and drops gates idle longer than ttl.
type Sessions struct {
	mu        sync.Mutex
	sessions  map[string]*session
	configs   ConfigSource
	submitter submitlead.Submitter
	ttl       time.Duration
	now       func() time.Time
	logger    logger.Logger
}

func NewSessions(configs ConfigSource, submitter submitlead.Submitter, ttl time.Duration, log logger.Logger) *Sessions {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		sessions:  make(map[string]*session),
		configs:   configs,
		submitter: submitter,
		ttl:       ttl,
		now:       time.Now,
		logger:    log,
	}
}

// SetClock replaces the time source; used by tests.
func (s *Sessions) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Create opens a gate against the current config.
func (s *Sessions) Create() (*Gate, error) {
	id := uuid.New().String()
	gate, err := newGate(id, s.configs.Get(), s.submitter, s.logger)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[id] = &session{gate: gate, lastSeen: s.now()}
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.ReputationSessionsActive.Set(float64(count))
	return gate, nil
}

// Get returns a live gate and refreshes its idle timer.
func (s *Sessions) Get(id string) (*Gate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.now().Sub(sess.lastSeen) > s.ttl {
		return nil, apperrors.NewResourceNotFoundError("reputation session", id)
	}
	sess.lastSeen = s.now()
	return sess.gate, nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.ReputationSessionsActive.Set(float64(count))
	if removed > 0 {
		s.logger.Debug("expired reputation sessions removed", map[string]interface{}{"removed": removed})
	}
	return removed
}

// Len reports the number of tracked sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps on every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
