// internal/services/leads/lead-relay/models.go
package leadrelay

import "site-builder/internal/common/validation"

type Output struct {
	NotificationID string            `json:"notificationId"`
	Status         string            `json:"status"` // "sent", "failed", "disabled"
	SentAt         string            `json:"sentAt"` // ISO 8601
	Channels       map[string]string `json:"channels,omitempty"`
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

// Channels
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelTelegram = "telegram"
)

var payloadSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"meta": {
			Type: "object",
			Properties: map[string]validation.Property{
				"source":           {Type: "string", MinLength: validation.Int(1)},
				"ownerPhone":       {Type: "string"},
				"ownerEmail":       {Type: "string"},
				"smsSenderName":    {Type: "string", MaxLength: validation.Int(11)},
				"telegramChatId":   {Type: "string"},
				"notificationType": {Type: "string", Enum: []string{"Email", "SMS", "Both"}},
				"idempotencyKey":   {Type: "string", MaxLength: validation.Int(128)},
			},
			Required: []string{"source", "notificationType"},
		},
		"lead": {
			Type: "object",
			Properties: map[string]validation.Property{
				"type":          {Type: "string", Enum: []string{"chat", "quote", "booking", "feedback"}},
				"name":          {Type: "string", MinLength: validation.Int(1), MaxLength: validation.Int(200)},
				"phone":         {Type: "string", MaxLength: validation.Int(50)},
				"email":         {Type: "string", MaxLength: validation.Int(254)},
				"message":       {Type: "string", MaxLength: validation.Int(5000)},
				"requestedSlot": {Type: "string"},
			},
			Required: []string{"type", "name"},
		},
	},
	Required: []string{"meta", "lead"},
}

type template struct {
	Subject string
	Body    string
}

const leadDetails = "Name: {{name}}\nPhone: {{phone}}\nEmail: {{email}}\n"

var templates = map[string]template{
	"chat": {
		Subject: "New chat message from {{name}}",
		Body:    "New chat message from your website.\n\n" + leadDetails + "\n{{message}}",
	},
	"quote": {
		Subject: "New quote request from {{name}}",
		Body:    "New quote request from your website.\n\n" + leadDetails + "\n{{message}}",
	},
	"booking": {
		Subject: "New booking request from {{name}}",
		Body:    "New booking request from your website.\n\n" + leadDetails + "Requested slot: {{requestedSlot}}\n\n{{message}}",
	},
	"feedback": {
		Subject: "New customer feedback from {{name}}",
		Body:    "New private feedback from your reputation page.\n\n" + leadDetails + "\n{{message}}",
	},
}
