// internal/services/leads/lead-forms/quote.go
package leadforms

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/models"
	submitlead "site-builder/internal/services/leads/submit-lead"
)

type QuoteStep string

const (
	QuoteStepForm    QuoteStep = "form"
	QuoteStepSuccess QuoteStep = "success"
)

// QuoteForm asks for a service from the configured list plus details.
type QuoteForm struct {
	Service string `json:"service"`
	Details string `json:"details"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`

	IdempotencyKey string `json:"-"`
}

type QuoteState struct {
	Step      QuoteStep  `json:"step"`
	ResetAt   *time.Time `json:"resetAt,omitempty"`
	LastError string     `json:"lastError,omitempty"`
}

type QuoteFlow struct {
	mu        sync.Mutex
	configs   ConfigSource
	submitter submitlead.Submitter
	now       Clock
	logger    logger.Logger

	step      QuoteStep
	reset     resetTimer
	lastError string
}

func NewQuoteFlow(configs ConfigSource, submitter submitlead.Submitter, now Clock, log logger.Logger) *QuoteFlow {
	if now == nil {
		now = time.Now
	}
	return &QuoteFlow{
		configs:   configs,
		submitter: submitter,
		now:       now,
		logger:    log.WithFields(map[string]interface{}{"flow": "quote"}),
		step:      QuoteStepForm,
	}
}

// QuoteMessage formats the lead message for a quote request.
func QuoteMessage(service, details string) string {
	return fmt.Sprintf("Service: %s\nDetails: %s", service, details)
}

func (f *QuoteFlow) Submit(ctx context.Context, form QuoteForm) (submitlead.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != QuoteStepForm {
		return submitlead.Result{}, apperrors.NewInvalidStateError(string(f.step), "submit")
	}
	cfg := f.configs.Get()
	if err := validateQuote(cfg, form); err != nil {
		return submitlead.Result{}, err
	}

	payload := submitlead.NewPayload(cfg, models.Lead{
		Type:    models.LeadQuote,
		Name:    strings.TrimSpace(form.Name),
		Phone:   strings.TrimSpace(form.Phone),
		Email:   strings.TrimSpace(form.Email),
		Message: QuoteMessage(form.Service, form.Details),
	})
	payload.Meta.IdempotencyKey = form.IdempotencyKey

	result := f.submitter.Submit(ctx, payload)
	if !result.Success {
		f.lastError = result.Error
		f.logger.Warn("quote submission failed", map[string]interface{}{"error": result.Error})
		return result, nil
	}

	f.lastError = ""
	f.step = QuoteStepSuccess
	f.reset.arm(f.now())
	return result, nil
}

func (f *QuoteFlow) Tick(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != QuoteStepSuccess || !f.reset.due(now) {
		return false
	}
	f.step = QuoteStepForm
	return true
}

func (f *QuoteFlow) State() QuoteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return QuoteState{Step: f.step, ResetAt: f.reset.deadline(), LastError: f.lastError}
}

func validateQuote(cfg models.BusinessConfig, form QuoteForm) error {
	if err := requireText("service", form.Service); err != nil {
		return err
	}
	if err := requireText("details", form.Details); err != nil {
		return err
	}
	known := false
	for _, s := range cfg.ServicesList {
		if s.Name == form.Service {
			known = true
			break
		}
	}
	if !known {
		return apperrors.NewValidationError(fmt.Sprintf("service: %q is not offered", form.Service))
	}
	return validateContact(form.Name, form.Phone, form.Email, true, true)
}
