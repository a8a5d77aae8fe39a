// internal/services/reputation/reputation-gate/gate.go
package reputationgate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/metrics"
	"site-builder/internal/models"
	submitlead "site-builder/internal/services/leads/submit-lead"
)

const anonymousName = "Anonymous"

// Gate triages one visitor's star rating. The first rating is final: high
// ratings are sent to the public review link, low ones to a private form.
type Gate struct {
	mu         sync.Mutex
	id         string
	config     models.BusinessConfig
	submitter  submitlead.Submitter
	logger     logger.Logger
	state      State
	rating     int
	submitting bool
	lastError  string
}

// NewGate starts a gate in rating-pending for the given config snapshot.
func NewGate(cfg models.BusinessConfig, submitter submitlead.Submitter, log logger.Logger) (*Gate, error) {
	return newGate("", cfg, submitter, log)
}

func newGate(id string, cfg models.BusinessConfig, submitter submitlead.Submitter, log logger.Logger) (*Gate, error) {
	if !cfg.EnableReputationPage {
		return nil, apperrors.NewFeatureDisabledError("reputation")
	}
	return &Gate{
		id:        id,
		config:    cfg,
		submitter: submitter,
		logger:    log.WithFields(map[string]interface{}{"service": "reputation-gate", "sessionId": id}),
		state:     StateRatingPending,
	}, nil
}

// Rate locks the rating on first call. Later calls leave the rating
// untouched and return a RATING_LOCKED error.
func (g *Gate) Rate(stars int) (Snapshot, error) {
	if stars < 1 || stars > 5 {
		return g.Snapshot(), apperrors.NewValidationError(fmt.Sprintf("rating must be between 1 and 5, got %d", stars))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRatingPending {
		return g.snapshotLocked(), apperrors.NewRatingLockedError(g.rating)
	}

	g.rating = stars
	if stars >= PositiveThreshold {
		g.state = StateRedirect
	} else {
		g.state = StateFeedbackCollecting
	}
	metrics.ReputationRatings.WithLabelValues(strconv.Itoa(stars)).Inc()

	g.logger.Info("rating locked", map[string]interface{}{"rating": stars, "state": string(g.state)})
	return g.snapshotLocked(), nil
}

// SubmitFeedback forwards the private feedback as a feedback lead. The
// returned error covers precondition failures only; gateway failures come
// back in the Result and keep the form open for another attempt.
func (g *Gate) SubmitFeedback(ctx context.Context, in FeedbackInput) (submitlead.Result, error) {
	g.mu.Lock()
	if g.state != StateFeedbackCollecting {
		state := g.state
		g.mu.Unlock()
		return submitlead.Result{}, apperrors.NewInvalidStateError(string(state), "submit-feedback")
	}
	if g.submitting {
		g.mu.Unlock()
		return submitlead.Result{}, apperrors.NewInvalidStateError("submitting", "submit-feedback")
	}
	if strings.TrimSpace(in.Text) == "" {
		g.mu.Unlock()
		return submitlead.Result{}, apperrors.NewValidationError("feedback text is required")
	}
	g.submitting = true
	rating := g.rating
	cfg := g.config
	g.mu.Unlock()

	result := g.submitter.Submit(ctx, BuildFeedbackPayload(cfg, rating, in))

	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitting = false
	if result.Success {
		g.state = StateFeedbackSubmitted
		g.lastError = ""
		g.logger.Info("feedback submitted", map[string]interface{}{"rating": rating})
	} else {
		g.lastError = result.Error
		g.logger.Warn("feedback submission failed", map[string]interface{}{"error": result.Error})
	}
	return result, nil
}

// Snapshot returns the current view of the gate.
func (g *Gate) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *Gate) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:         g.id,
		State:      g.state,
		Rating:     g.rating,
		Submitting: g.submitting,
		LastError:  g.lastError,
	}
	if g.state == StateRedirect {
		s.RedirectURL = g.config.GoogleReviewLink
	}
	return s
}

// BuildFeedbackPayload builds the feedback lead for a low rating.
func BuildFeedbackPayload(cfg models.BusinessConfig, rating int, in FeedbackInput) *models.LeadPayload {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = anonymousName
	}
	p := submitlead.NewPayload(cfg, models.Lead{
		Type:    models.LeadFeedback,
		Name:    name,
		Phone:   "",
		Email:   strings.TrimSpace(in.Email),
		Message: fmt.Sprintf("Rating: %d Stars\nFeedback: %s", rating, in.Text),
	})
	p.Meta.IdempotencyKey = in.IdempotencyKey
	return p
}
