// internal/services/leads/lead-forms/flow.go
package leadforms

import (
	"time"

	"site-builder/internal/models"
)

// ResetDelay is how long a success screen stays before the flow resets.
const ResetDelay = 3 * time.Second

// Clock returns the current time. Tests pass a virtual clock.
type Clock func() time.Time

// ConfigSource supplies the current business configuration.
type ConfigSource interface {
	Get() models.BusinessConfig
}

// resetTimer tracks the pending auto-reset after a successful submission.
type resetTimer struct {
	at      time.Time
	pending bool
}

func (r *resetTimer) arm(now time.Time) {
	r.at = now.Add(ResetDelay)
	r.pending = true
}

// due reports whether the reset deadline has passed and disarms it if so.
func (r *resetTimer) due(now time.Time) bool {
	if !r.pending || now.Before(r.at) {
		return false
	}
	r.pending = false
	return true
}

func (r *resetTimer) deadline() *time.Time {
	if !r.pending {
		return nil
	}
	at := r.at
	return &at
}
