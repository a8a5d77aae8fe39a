// internal/services/leads/lead-relay/handler.go
package leadrelay

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/metrics"
	"site-builder/internal/common/validation"
	"site-builder/internal/models"
)

const ServiceName = "lead-relay"

// Interfaces for the delivery channels; the common aws and telegram
// clients satisfy them.
type EmailSender interface {
	SendText(ctx context.Context, from, to, subject, body string) (string, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, phone, senderID, message string) (string, error)
}

type TelegramSender interface {
	SendText(chatID, text string) (string, error)
}

const insertLeadQuery = `INSERT INTO leads
	(id, lead_type, name, phone, email, message, requested_slot, source, idempotency_key, payload)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (idempotency_key) DO NOTHING`

type Relay struct {
	config   *Config
	db       *sql.DB
	email    EmailSender
	sms      SMSSender
	telegram TelegramSender
	now      func() time.Time
	logger   logger.Logger
}

type Option func(*Relay)

func WithEmailSender(s EmailSender) Option       { return func(r *Relay) { r.email = s } }
func WithSMSSender(s SMSSender) Option           { return func(r *Relay) { r.sms = s } }
func WithTelegramSender(s TelegramSender) Option { return func(r *Relay) { r.telegram = s } }

// NewRelay builds the relay. db may be nil, which disables the archive.
func NewRelay(config *Config, db *sql.DB, log logger.Logger, opts ...Option) *Relay {
	r := &Relay{
		config: config,
		db:     db,
		now:    time.Now,
		logger: log.WithFields(map[string]interface{}{"service": ServiceName}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandleRaw validates a webhook body and relays it.
func (r *Relay) HandleRaw(ctx context.Context, body []byte) (*Output, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse payload: %v", err))
	}
	if result := validation.ValidateInput(doc, payloadSchema); !result.Valid {
		return nil, apperrors.NewValidationError(result.Summary())
	}

	var payload models.LeadPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewValidationError(fmt.Sprintf("parse payload: %v", err))
	}
	return r.Handle(ctx, &payload)
}

// Handle notifies the owner over every configured channel and archives the
// lead. A channel failure marks the output failed; an archive failure is
// only logged.
func (r *Relay) Handle(ctx context.Context, p *models.LeadPayload) (*Output, error) {
	ctx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	tmpl, ok := templates[string(p.Lead.Type)]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown lead type: %s", p.Lead.Type))
	}

	data := map[string]interface{}{
		"name":          p.Lead.Name,
		"phone":         p.Lead.Phone,
		"email":         p.Lead.Email,
		"message":       p.Lead.Message,
		"requestedSlot": p.Lead.RequestedSlot,
	}
	subject := renderTemplate(tmpl.Subject, data)
	body := strings.TrimSpace(renderTemplate(tmpl.Body, data))

	log := r.logger.WithFields(map[string]interface{}{
		"leadType":         p.Lead.Type,
		"notificationType": p.Meta.NotificationType,
		"source":           p.Meta.Source,
	})

	notificationID := uuid.New().String()
	channels := map[string]string{}

	if wantsEmail(p.Meta.NotificationType) {
		channels[ChannelEmail] = r.sendEmail(ctx, log, p, subject, body)
	}
	if wantsSMS(p.Meta.NotificationType) {
		channels[ChannelSMS] = r.sendSMS(ctx, log, p, body)
	}
	if p.Meta.TelegramChatID != "" {
		channels[ChannelTelegram] = r.sendTelegram(log, p, subject+"\n\n"+body)
	}

	for channel, status := range channels {
		metrics.NotificationsSent.WithLabelValues(channel, status).Inc()
	}

	if err := r.archive(ctx, notificationID, p); err != nil {
		log.Warn("lead archive failed", map[string]interface{}{"error": err.Error()})
	}

	out := &Output{
		NotificationID: notificationID,
		Status:         overallStatus(channels),
		SentAt:         r.now().UTC().Format(time.RFC3339),
		Channels:       channels,
	}
	log.Info("lead relayed", map[string]interface{}{
		"notificationId": out.NotificationID,
		"status":         out.Status,
	})
	return out, nil
}

func wantsEmail(t models.NotificationType) bool {
	return t == models.NotifyEmail || t == models.NotifyBoth
}

func wantsSMS(t models.NotificationType) bool {
	return t == models.NotifySMS || t == models.NotifyBoth
}

func (r *Relay) sendEmail(ctx context.Context, log logger.Logger, p *models.LeadPayload, subject, body string) string {
	if !r.config.EmailEnabled || r.email == nil || p.Meta.OwnerEmail == "" {
		return StatusDisabled
	}
	if _, err := r.email.SendText(ctx, r.config.FromEmail, p.Meta.OwnerEmail, subject, body); err != nil {
		log.Error("email send failed", map[string]interface{}{
			"error": apperrors.NewNotificationSendFailedError(ChannelEmail, err).Details,
		})
		return StatusFailed
	}
	return StatusSent
}

func (r *Relay) sendSMS(ctx context.Context, log logger.Logger, p *models.LeadPayload, body string) string {
	if !r.config.SMSEnabled || r.sms == nil || p.Meta.OwnerPhone == "" {
		return StatusDisabled
	}
	sender := p.Meta.SMSSenderName
	if sender == "" {
		sender = r.config.DefaultSMSSenderID
	}
	if _, err := r.sms.SendSMS(ctx, p.Meta.OwnerPhone, sender, body); err != nil {
		log.Error("SMS send failed", map[string]interface{}{
			"error": apperrors.NewNotificationSendFailedError(ChannelSMS, err).Details,
		})
		return StatusFailed
	}
	return StatusSent
}

func (r *Relay) sendTelegram(log logger.Logger, p *models.LeadPayload, text string) string {
	if !r.config.TelegramEnabled || r.telegram == nil {
		return StatusDisabled
	}
	if _, err := r.telegram.SendText(p.Meta.TelegramChatID, text); err != nil {
		log.Error("telegram send failed", map[string]interface{}{
			"error": apperrors.NewNotificationSendFailedError(ChannelTelegram, err).Details,
		})
		return StatusFailed
	}
	return StatusSent
}

// overallStatus is failed if any channel failed, sent if any channel
// delivered, disabled otherwise.
func overallStatus(channels map[string]string) string {
	status := StatusDisabled
	for _, s := range channels {
		switch s {
		case StatusFailed:
			return StatusFailed
		case StatusSent:
			status = StatusSent
		}
	}
	return status
}

func (r *Relay) archive(ctx context.Context, id string, p *models.LeadPayload) error {
	if r.db == nil {
		return nil
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}

	var slot interface{}
	if p.Lead.RequestedSlot != "" {
		if t, err := time.Parse(time.RFC3339, p.Lead.RequestedSlot); err == nil {
			slot = t
		}
	}
	var key interface{}
	if p.Meta.IdempotencyKey != "" {
		key = p.Meta.IdempotencyKey
	}

	_, err = r.db.ExecContext(ctx, insertLeadQuery,
		id, string(p.Lead.Type), p.Lead.Name, p.Lead.Phone, p.Lead.Email, p.Lead.Message,
		slot, p.Meta.Source, key, raw,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// renderTemplate replaces {{key}} placeholders and drops unknown ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
