// internal/services/leads/submit-lead/payload.go
package submitlead

import "site-builder/internal/models"

// BuildMeta copies the owner routing fields of cfg into lead metadata.
func BuildMeta(cfg models.BusinessConfig) models.LeadMeta {
	return models.LeadMeta{
		Source:           models.LeadSource,
		OwnerPhone:       cfg.Contact.Phone,
		OwnerEmail:       cfg.Contact.Email,
		SMSSenderName:    cfg.SMSSenderName,
		TelegramChatID:   cfg.TelegramChatID,
		NotificationType: cfg.OwnerNotificationType,
	}
}

// NewPayload builds a fresh payload for one submission.
func NewPayload(cfg models.BusinessConfig, lead models.Lead) *models.LeadPayload {
	return &models.LeadPayload{
		Meta: BuildMeta(cfg),
		Lead: lead,
	}
}
