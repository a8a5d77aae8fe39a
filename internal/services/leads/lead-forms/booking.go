// internal/services/leads/lead-forms/booking.go
package leadforms

import (
	"context"
	"strings"
	"sync"
	"time"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/models"
	slotgenerator "site-builder/internal/services/booking/slot-generator"
	submitlead "site-builder/internal/services/leads/submit-lead"
)

type BookingStep string

const (
	BookingStepDate    BookingStep = "date"
	BookingStepForm    BookingStep = "form"
	BookingStepSuccess BookingStep = "success"
)

// BookingForm is the contact form shown after a slot is picked.
type BookingForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Message string `json:"message"`
	// IdempotencyKey lets a repeated submit of the same form be suppressed.
	IdempotencyKey string `json:"-"`
}

type BookingState struct {
	Step      BookingStep `json:"step"`
	Date      string      `json:"date,omitempty"`
	Slot      string      `json:"slot,omitempty"`
	ResetAt   *time.Time  `json:"resetAt,omitempty"`
	LastError string      `json:"lastError,omitempty"`
}

// BookingFlow walks a visitor through date, slot and contact form.
type BookingFlow struct {
	mu        sync.Mutex
	configs   ConfigSource
	slots     *slotgenerator.Service
	submitter submitlead.Submitter
	now       Clock
	logger    logger.Logger

	step      BookingStep
	date      time.Time
	hasDate   bool
	slot      string
	reset     resetTimer
	lastError string
}

func NewBookingFlow(configs ConfigSource, slots *slotgenerator.Service, submitter submitlead.Submitter, now Clock, log logger.Logger) (*BookingFlow, error) {
	if !configs.Get().EnableBookingSystem {
		return nil, apperrors.NewFeatureDisabledError("booking")
	}
	if now == nil {
		now = time.Now
	}
	return &BookingFlow{
		configs:   configs,
		slots:     slots,
		submitter: submitter,
		now:       now,
		logger:    log.WithFields(map[string]interface{}{"flow": "booking"}),
		step:      BookingStepDate,
	}, nil
}

// SelectDate picks a calendar day and returns its slots.
func (f *BookingFlow) SelectDate(date time.Time) (*slotgenerator.DaySlots, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != BookingStepDate {
		return nil, apperrors.NewInvalidStateError(string(f.step), "select-date")
	}
	day, err := f.slots.DaySlots(date)
	if err != nil {
		return nil, err
	}
	if day.Disabled {
		return day, apperrors.NewValidationError("date " + day.Date + " is not bookable")
	}

	f.date = date
	f.hasDate = true
	f.slot = ""
	return day, nil
}

// SelectSlot picks one of the offered slots and moves on to the form.
func (f *BookingFlow) SelectSlot(slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != BookingStepDate || !f.hasDate {
		return apperrors.NewInvalidStateError(string(f.step), "select-slot")
	}
	if _, err := f.slots.ResolveSlot(f.date, slot); err != nil {
		return err
	}
	f.slot = slot
	f.step = BookingStepForm
	return nil
}

// Back returns from the form to the calendar.
func (f *BookingFlow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != BookingStepForm {
		return apperrors.NewInvalidStateError(string(f.step), "back")
	}
	f.step = BookingStepDate
	f.slot = ""
	f.lastError = ""
	return nil
}

// Submit sends the booking lead. A failed submission keeps the form step.
func (f *BookingFlow) Submit(ctx context.Context, form BookingForm) (submitlead.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != BookingStepForm {
		return submitlead.Result{}, apperrors.NewInvalidStateError(string(f.step), "submit")
	}
	if err := validateContact(form.Name, form.Phone, form.Email, true, true); err != nil {
		return submitlead.Result{}, err
	}
	at, err := f.slots.ResolveSlot(f.date, f.slot)
	if err != nil {
		return submitlead.Result{}, err
	}

	payload := submitlead.NewPayload(f.configs.Get(), models.Lead{
		Type:          models.LeadBooking,
		Name:          strings.TrimSpace(form.Name),
		Phone:         strings.TrimSpace(form.Phone),
		Email:         strings.TrimSpace(form.Email),
		Message:       form.Message,
		RequestedSlot: slotgenerator.RequestedSlot(at),
	})
	payload.Meta.IdempotencyKey = form.IdempotencyKey

	result := f.submitter.Submit(ctx, payload)
	if !result.Success {
		f.lastError = result.Error
		f.logger.Warn("booking submission failed", map[string]interface{}{"error": result.Error})
		return result, nil
	}

	f.lastError = ""
	f.step = BookingStepSuccess
	f.reset.arm(f.now())
	f.logger.Info("booking submitted", map[string]interface{}{"requestedSlot": payload.Lead.RequestedSlot})
	return result, nil
}

// Tick applies the auto-reset once its deadline has passed. It reports
// whether the flow was reset.
func (f *BookingFlow) Tick(now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != BookingStepSuccess || !f.reset.due(now) {
		return false
	}
	f.step = BookingStepDate
	f.slot = ""
	f.hasDate = false
	f.date = time.Time{}
	return true
}

func (f *BookingFlow) State() BookingState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := BookingState{
		Step:      f.step,
		Slot:      f.slot,
		ResetAt:   f.reset.deadline(),
		LastError: f.lastError,
	}
	if f.hasDate {
		s.Date = f.date.Format("2006-01-02")
	}
	return s
}
