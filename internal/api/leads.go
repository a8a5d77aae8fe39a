// internal/api/leads.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/models"
	slotgenerator "site-builder/internal/services/booking/slot-generator"
	leadforms "site-builder/internal/services/leads/lead-forms"
	submitlead "site-builder/internal/services/leads/submit-lead"
)

const maxIdempotencyKey = 128

// leadRequest is the union of the chat, quote and booking forms.
type leadRequest struct {
	Type    models.LeadType `json:"type"`
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Email   string          `json:"email"`
	Message string          `json:"message"`
	Date    string          `json:"date"`
	Slot    string          `json:"slot"`
	Service string          `json:"service"`
	Details string          `json:"details"`
}

func (s *Server) getSlots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, apperrors.NewValidationError("date query parameter is required"))
		return
	}
	date, err := slotgenerator.ParseDate(raw, s.deps.Location)
	if err != nil {
		writeError(w, apperrors.NewValidationError(err.Error()))
		return
	}
	day, err := s.deps.Slots.DaySlots(date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// postLead runs one of the lead flows end to end, so the server applies the
// same checks as the widgets do.
func (s *Server) postLead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	key, err := idempotencyKey(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var result submitlead.Result
	switch req.Type {
	case models.LeadBooking:
		result, err = s.submitBooking(r, req, key)
	case models.LeadChat:
		result, err = s.submitChat(r, req, key)
	case models.LeadQuote:
		flow := leadforms.NewQuoteFlow(s.deps.Store, s.deps.Gateway, s.deps.Now, s.logger)
		result, err = flow.Submit(r.Context(), leadforms.QuoteForm{
			Service: req.Service,
			Details: req.Details,
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,

			IdempotencyKey: key,
		})
	default:
		err = apperrors.NewValidationError(fmt.Sprintf("unsupported lead type %q", req.Type))
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, result)
}

func (s *Server) submitBooking(r *http.Request, req leadRequest, key string) (submitlead.Result, error) {
	flow, err := leadforms.NewBookingFlow(s.deps.Store, s.deps.Slots, s.deps.Gateway, s.deps.Now, s.logger)
	if err != nil {
		return submitlead.Result{}, err
	}
	date, err := slotgenerator.ParseDate(strings.TrimSpace(req.Date), s.deps.Location)
	if err != nil {
		return submitlead.Result{}, apperrors.NewValidationError(err.Error())
	}
	if _, err := flow.SelectDate(date); err != nil {
		return submitlead.Result{}, err
	}
	if err := flow.SelectSlot(strings.TrimSpace(req.Slot)); err != nil {
		return submitlead.Result{}, err
	}
	return flow.Submit(r.Context(), leadforms.BookingForm{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Message: req.Message,

		IdempotencyKey: key,
	})
}

func (s *Server) submitChat(r *http.Request, req leadRequest, key string) (submitlead.Result, error) {
	flow, err := leadforms.NewChatFlow(s.deps.Store, s.deps.Gateway, s.deps.Now, s.logger)
	if err != nil {
		return submitlead.Result{}, err
	}
	if err := flow.SetName(req.Name); err != nil {
		return submitlead.Result{}, err
	}
	if err := flow.SetContact(req.Phone, req.Email); err != nil {
		return submitlead.Result{}, err
	}
	return flow.SendKeyed(r.Context(), req.Message, key)
}

// testWebhook sends a fixed feedback lead through the gateway.
func (s *Server) testWebhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload := &models.LeadPayload{
		Meta: models.LeadMeta{
			Source:           "test-api",
			OwnerPhone:       "test-phone",
			OwnerEmail:       "test-email",
			SMSSenderName:    "TestSender",
			NotificationType: models.NotifyEmail,
		},
		Lead: models.Lead{
			Type:    models.LeadFeedback,
			Name:    "Test User",
			Phone:   "123456789",
			Email:   "test@example.com",
			Message: "This is a test message from /api/test-webhook",
		},
	}
	result := s.deps.Gateway.Submit(r.Context(), payload)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Test execution completed",
		"result":  result,
		"env_check": map[string]bool{
			"has_webhook_url": s.opts.WebhookConfigured,
		},
	})
}

// idempotencyKey reads the optional Idempotency-Key header. Widgets send one
// key per form fill so a double click is forwarded once.
func idempotencyKey(r *http.Request) (string, error) {
	key := strings.TrimSpace(r.Header.Get(submitlead.IdempotencyHeader))
	if len(key) > maxIdempotencyKey {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s: must be at most %d characters", submitlead.IdempotencyHeader, maxIdempotencyKey))
	}
	return key, nil
}

// writeResult answers 200 on success and 502 when the webhook refused the lead.
func writeResult(w http.ResponseWriter, result submitlead.Result) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, result)
}
