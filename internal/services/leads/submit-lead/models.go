// internal/services/leads/submit-lead/models.go
package submitlead

// Result is the tagged outcome of a submission. Error is set only when
// Success is false and is safe to show to the visitor.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func ok() Result { return Result{Success: true} }

func failed(msg string) Result { return Result{Success: false, Error: msg} }

const (
	outcomeSuccess   = "success"
	outcomeDuplicate = "duplicate"
	outcomeInFlight  = "in_flight"
	outcomeConfig    = "config_error"
	outcomeTimeout   = "timeout"
	outcomeStatus    = "status_error"
	outcomeTransport = "request_failed"
)

const inFlightMessage = "Submission already in progress, please wait a moment and try again"
