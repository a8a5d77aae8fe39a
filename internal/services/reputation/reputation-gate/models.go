// internal/services/reputation/reputation-gate/models.go
package reputationgate

// State is where a visitor is in the rating flow.
type State string

const (
	StateRatingPending      State = "rating-pending"
	StateRedirect           State = "redirect"
	StateFeedbackCollecting State = "feedback-collecting"
	StateFeedbackSubmitted  State = "feedback-submitted"
)

// PositiveThreshold is the lowest star count sent to the public review page.
const PositiveThreshold = 4

// Snapshot is a read-only view of a gate.
type Snapshot struct {
	ID          string `json:"id,omitempty"`
	State       State  `json:"state"`
	Rating      int    `json:"rating,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Submitting  bool   `json:"submitting"`
	LastError   string `json:"lastError,omitempty"`
}

// FeedbackInput is the private feedback form.
type FeedbackInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Text  string `json:"feedback"`
	// IdempotencyKey is taken from the request header, never the body.
	IdempotencyKey string `json:"-"`
}
