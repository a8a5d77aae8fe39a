// internal/services/leads/submit-lead/handler.go
package submitlead

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "site-builder/internal/common/errors"
	commonhttp "site-builder/internal/common/http"
	"site-builder/internal/common/logger"
	"site-builder/internal/common/metrics"
	"site-builder/internal/models"

	"github.com/google/uuid"
)

const (
	ServiceName = "submit-lead"

	IdempotencyHeader = "Idempotency-Key"

	maxErrorBody = 4 << 10
)

// Recorder receives per-submission outcomes. *observability.Observability implements it.
type Recorder interface {
	RecordOperation(ctx context.Context, operation, status string)
	RecordDuration(ctx context.Context, operation string, duration time.Duration, status string)
}

// Submitter is what lead producers depend on.
type Submitter interface {
	Submit(ctx context.Context, payload *models.LeadPayload) Result
}

type Gateway struct {
	config   *Config
	client   *commonhttp.Client
	dedupe   Deduper
	recorder Recorder
	logger   logger.Logger
}

type Option func(*Gateway)

// WithHTTPClient overrides the transport, e.g. with an httptest client.
func WithHTTPClient(c *commonhttp.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithDeduper enables idempotency-key suppression for config.DedupeWindow.
func WithDeduper(d Deduper) Option {
	return func(g *Gateway) { g.dedupe = d }
}

func WithRecorder(r Recorder) Option {
	return func(g *Gateway) { g.recorder = r }
}

func NewGateway(config *Config, log logger.Logger, opts ...Option) *Gateway {
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	g := &Gateway{
		config: config,
		// the per-request context carries the deadline
		client: commonhttp.NewClient(0),
		logger: log.WithFields(map[string]interface{}{"service": ServiceName}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Submit POSTs payload to the webhook once. It never returns a Go error or
// panics; every failure is folded into the Result.
func (g *Gateway) Submit(ctx context.Context, payload *models.LeadPayload) Result {
	start := time.Now()
	if payload == nil {
		return g.finish(ctx, "", start, outcomeTransport, failed("Failed to send request: empty payload"))
	}

	p := *payload
	if p.Meta.Source == "" {
		p.Meta.Source = models.LeadSource
	}
	if p.Meta.IdempotencyKey == "" {
		p.Meta.IdempotencyKey = uuid.New().String()
	}
	leadType := string(p.Lead.Type)

	log := g.logger.WithFields(map[string]interface{}{
		"leadType":       leadType,
		"idempotencyKey": p.Meta.IdempotencyKey,
	})

	if g.config.WebhookURL == "" {
		stdErr := apperrors.NewConfigurationError("webhook URL missing")
		log.Error("lead webhook not configured", map[string]interface{}{"errorCode": stdErr.Code})
		return g.finish(ctx, leadType, start, outcomeConfig, failed("Server configuration error: webhook URL missing"))
	}

	claimed := false
	if g.dedupe != nil && g.config.DedupeWindow > 0 {
		// a pending claim only has to outlive the request
		state, err := g.dedupe.Claim(ctx, p.Meta.IdempotencyKey, 2*g.config.Timeout)
		switch {
		case err != nil:
			log.Warn("idempotency claim failed, sending anyway", map[string]interface{}{"error": err.Error()})
		case state == ClaimDone:
			log.Info("duplicate submission suppressed", nil)
			return g.finish(ctx, leadType, start, outcomeDuplicate, ok())
		case state == ClaimPending:
			log.Info("duplicate submission while first is in flight", nil)
			return g.finish(ctx, leadType, start, outcomeInFlight, failed(inFlightMessage))
		default:
			claimed = true
		}
	}

	result, outcome := g.post(ctx, &p, log)
	if claimed {
		g.settleClaim(context.WithoutCancel(ctx), p.Meta.IdempotencyKey, result.Success, log)
	}
	return g.finish(ctx, leadType, start, outcome, result)
}

// settleClaim marks a key done after a 2xx, or releases it so a retry with
// the same key is forwarded.
func (g *Gateway) settleClaim(ctx context.Context, key string, accepted bool, log logger.Logger) {
	if accepted {
		if err := g.dedupe.Complete(ctx, key, g.config.DedupeWindow); err != nil {
			log.Warn("failed to mark idempotency claim done", map[string]interface{}{"error": err.Error()})
		}
		return
	}
	if err := g.dedupe.Release(ctx, key); err != nil {
		log.Warn("failed to release idempotency claim", map[string]interface{}{"error": err.Error()})
	}
}

func (g *Gateway) post(ctx context.Context, p *models.LeadPayload, log logger.Logger) (Result, string) {
	reqCtx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	headers := map[string]string{IdempotencyHeader: p.Meta.IdempotencyKey}
	if g.config.Secret != "" {
		headers["Authorization"] = "Bearer " + g.config.Secret
	}
	resp, err := g.client.PostJSON(reqCtx, g.config.WebhookURL, p, headers)
	if err != nil {
		if isTimeout(reqCtx, err) {
			stdErr := apperrors.NewWebhookTimeoutError(g.config.Timeout)
			log.Error("lead webhook timed out", map[string]interface{}{
				"errorCode": stdErr.Code,
				"timeout":   g.config.Timeout.String(),
			})
			return failed("Request timed out after " + formatTimeout(g.config.Timeout)), outcomeTimeout
		}
		stdErr := apperrors.NewWebhookRequestFailedError(err)
		log.Error("lead webhook request failed", map[string]interface{}{
			"errorCode": stdErr.Code,
			"error":     err.Error(),
		})
		return failed("Failed to send request: " + err.Error()), outcomeTransport
	}
	defer resp.Body.Close()

	if !isSuccessStatus(resp.StatusCode) {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		text := strings.TrimSpace(string(raw))
		if text == "" {
			text = "No body"
		}
		stdErr := apperrors.NewWebhookStatusError(resp.StatusCode, text)
		log.Error("lead webhook returned error status", map[string]interface{}{
			"errorCode": stdErr.Code,
			"status":    resp.StatusCode,
			"retryable": stdErr.Retryable,
		})
		return failed(fmt.Sprintf("Webhook failed with status %d: %s", resp.StatusCode, text)), outcomeStatus
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	log.Info("lead forwarded", map[string]interface{}{"status": resp.StatusCode})
	return ok(), outcomeSuccess
}

func (g *Gateway) finish(ctx context.Context, leadType string, start time.Time, outcome string, result Result) Result {
	elapsed := time.Since(start)
	if leadType == "" {
		leadType = "unknown"
	}
	metrics.LeadSubmissions.WithLabelValues(leadType, outcome).Inc()
	metrics.LeadSubmissionDuration.WithLabelValues(leadType).Observe(elapsed.Seconds())
	if g.recorder != nil {
		g.recorder.RecordOperation(ctx, ServiceName, outcome)
		g.recorder.RecordDuration(ctx, ServiceName, elapsed, outcome)
	}
	return result
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// formatTimeout renders whole-second budgets as "N seconds".
func formatTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		secs := int(d / time.Second)
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	return d.String()
}

func isSuccessStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

var _ Submitter = (*Gateway)(nil)
