// internal/services/leads/lead-forms/chat.go
package leadforms

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/models"
	submitlead "site-builder/internal/services/leads/submit-lead"
)

type ChatStep string

const (
	ChatStepGreeting ChatStep = "greeting"
	ChatStepContact  ChatStep = "contact"
	ChatStepMessage  ChatStep = "message"
	ChatStepSuccess  ChatStep = "success"
)

type ChatState struct {
	Step      ChatStep   `json:"step"`
	Name      string     `json:"name,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Email     string     `json:"email,omitempty"`
	ResetAt   *time.Time `json:"resetAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

// ChatFlow is the chat widget conversation: name, contact, message.
type ChatFlow struct {
	mu        sync.Mutex
	configs   ConfigSource
	submitter submitlead.Submitter
	now       Clock
	logger    logger.Logger

	step      ChatStep
	name      string
	phone     string
	email     string
	reset     resetTimer
	lastError string
}

func NewChatFlow(configs ConfigSource, submitter submitlead.Submitter, now Clock, log logger.Logger) (*ChatFlow, error) {
	if !configs.Get().EnableChatWidget {
		return nil, apperrors.NewFeatureDisabledError("chat")
	}
	if now == nil {
		now = time.Now
	}
	return &ChatFlow{
		configs:   configs,
		submitter: submitter,
		now:       now,
		logger:    log.WithFields(map[string]interface{}{"flow": "chat"}),
		step:      ChatStepGreeting,
	}, nil
}

func (f *ChatFlow) SetName(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != ChatStepGreeting {
		return apperrors.NewInvalidStateError(string(f.step), "set-name")
	}
	if err := requireText("name", name); err != nil {
		return err
	}
	f.name = strings.TrimSpace(name)
	f.step = ChatStepContact
	return nil
}

// SetContact needs at least one of phone or email.
func (f *ChatFlow) SetContact(phone, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != ChatStepContact {
		return apperrors.NewInvalidStateError(string(f.step), "set-contact")
	}
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return apperrors.NewValidationError("phone or email is required")
	}
	if err := validateContact(f.name, phone, email, false, false); err != nil {
		return err
	}
	f.phone = strings.TrimSpace(phone)
	f.email = strings.TrimSpace(email)
	f.step = ChatStepMessage
	return nil
}

// Send submits the chat lead with the visitor's message.
func (f *ChatFlow) Send(ctx context.Context, message string) (submitlead.Result, error) {
	return f.SendKeyed(ctx, message, "")
}

// SendKeyed is Send with a caller-supplied idempotency key.
func (f *ChatFlow) SendKeyed(ctx context.Context, message, idempotencyKey string) (submitlead.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != ChatStepMessage {
		return submitlead.Result{}, apperrors.NewInvalidStateError(string(f.step), "send")
	}
	if err := requireText("message", message); err != nil {
		return submitlead.Result{}, err
	}

	payload := submitlead.NewPayload(f.configs.Get(), models.Lead{
		Type:    models.LeadChat,
		Name:    f.name,
		Phone:   f.phone,
		Email:   f.email,
		Message: message,
	})
	payload.Meta.IdempotencyKey = idempotencyKey

	result := f.submitter.Submit(ctx, payload)
	if !result.Success {
		f.lastError = result.Error
		f.logger.Warn("chat submission failed", map[string]interface{}{"error": result.Error})
		return result, nil
	}

	f.lastError = ""
	f.step = ChatStepSuccess
	f.reset.arm(f.now())
	return result, nil
}

// Tick resets to the greeting once the success screen has been shown long
// enough. Name and contact are kept for the next message.
func (f *ChatFlow) Tick(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != ChatStepSuccess || !f.reset.due(now) {
		return false
	}
	f.step = ChatStepGreeting
	return true
}

func (f *ChatFlow) State() ChatState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ChatState{
		Step:      f.step,
		Name:      f.name,
		Phone:     f.phone,
		Email:     f.email,
		ResetAt:   f.reset.deadline(),
		LastError: f.lastError,
	}
}
