// internal/models/lead.go
package models

// LeadSource marks payloads produced by the site itself.
const LeadSource = "website-builder"

type LeadType string

const (
	LeadChat     LeadType = "chat"
	LeadQuote    LeadType = "quote"
	LeadBooking  LeadType = "booking"
	LeadFeedback LeadType = "feedback"
)

// Valid reports whether t is one of the four known lead types.
func (t LeadType) Valid() bool {
	switch t {
	case LeadChat, LeadQuote, LeadBooking, LeadFeedback:
		return true
	}
	return false
}

// LeadMeta carries owner routing information copied from BusinessConfig.
type LeadMeta struct {
	Source           string           `json:"source"`
	OwnerPhone       string           `json:"ownerPhone"`
	OwnerEmail       string           `json:"ownerEmail"`
	SMSSenderName    string           `json:"smsSenderName"`
	TelegramChatID   string           `json:"telegramChatId,omitempty"`
	NotificationType NotificationType `json:"notificationType"`
	IdempotencyKey   string           `json:"idempotencyKey,omitempty"`
}

// Lead is the visitor-supplied part of a submission.
type Lead struct {
	Type          LeadType `json:"type"`
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Email         string   `json:"email"`
	Message       string   `json:"message,omitempty"`
	RequestedSlot string   `json:"requestedSlot,omitempty"`
}

// LeadPayload is the body POSTed to the lead webhook.
type LeadPayload struct {
	Meta LeadMeta `json:"meta"`
	Lead Lead     `json:"lead"`
}
