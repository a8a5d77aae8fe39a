// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-builder/internal/api"
	"site-builder/internal/common/config"
	"site-builder/internal/common/logger"
	slotgenerator "site-builder/internal/services/booking/slot-generator"
	leadrelay "site-builder/internal/services/leads/lead-relay"
	submitlead "site-builder/internal/services/leads/submit-lead"
	reputationgate "site-builder/internal/services/reputation/reputation-gate"
	configstore "site-builder/internal/services/site/config-store"
	exportsite "site-builder/internal/services/site/export-site"
	generateimage "site-builder/internal/services/site/generate-image"
)

// ==========================
// Environment
// ==========================

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

// outbox records emails instead of calling SES.
type outbox struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (o *outbox) SendText(_ context.Context, _, to, subject, body string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, sentEmail{To: to, Subject: subject, Body: body})
	return "msg-" + subject, nil
}

func (o *outbox) all() []sentEmail {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]sentEmail(nil), o.sent...)
}

const (
	adminToken = "admin-e2e"
	hookSecret = "hook-e2e"
)

type environment struct {
	site   *httptest.Server
	hook   *httptest.Server
	redis  *redis.Client
	mr     *miniredis.Miniredis
	outbox *outbox
}

// Monday 19 Oct 2026, 09:00 UTC.
var now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }

// newEnvironment starts a relay server acting as the lead webhook and a site
// server whose gateway posts to it. Config lives in miniredis. The relay runs
// with default limits.
func newEnvironment(t *testing.T) *environment {
	t.Helper()
	log := logger.NewTestLogger(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := &environment{redis: client, mr: mr, outbox: &outbox{}}

	store := configstore.New(configstore.NewRedisPersister(client, config.DefaultStorageNamespace), log)
	require.NoError(t, store.Load(ctx))

	relay := leadrelay.NewRelay(&leadrelay.Config{
		EmailEnabled: true,
		FromEmail:    "leads@example.com",
		Timeout:      5 * time.Second,
	}, nil, log, leadrelay.WithEmailSender(env.outbox))

	hook := httptest.NewServer(api.NewServer(api.Deps{
		Store: store,
		Relay: relay,
	}, api.Options{HookSecret: hookSecret}, log).Handler())
	t.Cleanup(hook.Close)
	env.hook = hook

	gateway := submitlead.NewGateway(&submitlead.Config{
		WebhookURL:   hook.URL + "/hooks/lead",
		Timeout:      5 * time.Second,
		DedupeWindow: time.Minute,
		Secret:       hookSecret,
	}, log, submitlead.WithDeduper(submitlead.NewRedisDeduper(client)))

	env.site = httptest.NewServer(api.NewServer(api.Deps{
		Store:    store,
		Slots:    slotgenerator.NewService(store, now, log),
		Gateway:  gateway,
		Sessions: reputationgate.NewSessions(store, gateway, time.Minute, log),
		Images:   generateimage.NewGenerator(generateimage.DefaultConfig(), log),
		Exporter: exportsite.NewExporter(exportsite.DefaultConfig(), nil, log),
		Ready:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
		Location: time.UTC,
		Now:      now,
	}, api.Options{
		RateLimitPerMinute: 600,
		RateLimitBurst:     100,
		WebhookConfigured:  true,
		AdminToken:         adminToken,
	}, log).Handler())
	t.Cleanup(env.site.Close)

	return env
}

// call sends an admin-authenticated request to the site server.
func (e *environment) call(t *testing.T, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	return e.callWith(t, method, e.site.URL+path, body, map[string]string{"Authorization": "Bearer " + adminToken})
}

func (e *environment) callWith(t *testing.T, method, url, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

// ==========================
// Scenarios
// ==========================

func TestE2E_BookingReachesOwnerByEmail(t *testing.T) {
	env := newEnvironment(t)

	status, _ := env.call(t, http.MethodPatch, "/api/config/contact", `{"email":"owner@rauch-shk.de"}`)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.call(t, http.MethodPatch, "/api/config", `{"ownerNotificationType":"Email","telegramChatId":""}`)
	require.Equal(t, http.StatusOK, status)

	status, day := env.call(t, http.MethodGet, "/api/slots?date=2026-10-20", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, day["slots"], "08:45")

	status, result := env.call(t, http.MethodPost, "/api/leads",
		`{"type":"booking","date":"2026-10-20","slot":"08:45","name":"Anna Becker","phone":"+49301234567","email":"anna@example.com","message":"Bitte klingeln"}`)
	require.Equal(t, http.StatusOK, status, result)
	assert.Equal(t, true, result["success"])

	sent := env.outbox.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@rauch-shk.de", sent[0].To)
	assert.Equal(t, "New booking request from Anna Becker", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Requested slot: 2026-10-20T08:45:00.000Z")
	assert.Contains(t, sent[0].Body, "Bitte klingeln")
}

func TestE2E_NegativeRatingSendsPrivateFeedback(t *testing.T) {
	env := newEnvironment(t)

	status, _ := env.call(t, http.MethodPatch, "/api/config", `{"ownerNotificationType":"Email","telegramChatId":""}`)
	require.Equal(t, http.StatusOK, status)

	status, session := env.call(t, http.MethodPost, "/api/reputation/sessions", "")
	require.Equal(t, http.StatusCreated, status)
	id := session["id"].(string)

	status, snap := env.call(t, http.MethodPost, "/api/reputation/sessions/"+id+"/rating", `{"stars":2}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(reputationgate.StateFeedbackCollecting), snap["state"])

	status, out := env.call(t, http.MethodPost, "/api/reputation/sessions/"+id+"/feedback",
		`{"name":"Jonas","email":"jonas@example.com","feedback":"Termin wurde verschoben"}`)
	require.Equal(t, http.StatusOK, status, out)

	sent := env.outbox.all()
	require.Len(t, sent, 1)
	assert.Equal(t, "New customer feedback from Jonas", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Termin wurde verschoben")

	status, _ = env.call(t, http.MethodPost, "/api/reputation/sessions/"+id+"/rating", `{"stars":5}`)
	assert.Equal(t, http.StatusConflict, status)
}

func TestE2E_ConfigSurvivesRestart(t *testing.T) {
	env := newEnvironment(t)

	status, _ := env.call(t, http.MethodPatch, "/api/config/contact", `{"phone":"+49 30 999999"}`)
	require.Equal(t, http.StatusOK, status)
	require.True(t, env.mr.Exists(config.DefaultStorageNamespace))

	reloaded := configstore.New(configstore.NewRedisPersister(env.redis, config.DefaultStorageNamespace), logger.NewNoOpLogger())
	require.NoError(t, reloaded.Load(context.Background()))
	assert.Equal(t, "+49 30 999999", reloaded.Get().Contact.Phone)
}

func TestE2E_DoubleSubmitForwardedOnce(t *testing.T) {
	env := newEnvironment(t)
	status, _ := env.call(t, http.MethodPatch, "/api/config", `{"ownerNotificationType":"Email","telegramChatId":""}`)
	require.Equal(t, http.StatusOK, status)

	body := `{"type":"chat","name":"Anna","email":"anna@example.com","message":"Heizung ist kalt"}`
	headers := map[string]string{submitlead.IdempotencyHeader: "chat-fill-1"}
	for i := 0; i < 2; i++ {
		status, out := env.callWith(t, http.MethodPost, env.site.URL+"/api/leads", body, headers)
		require.Equal(t, http.StatusOK, status, out)
		assert.Equal(t, true, out["success"])
	}

	assert.Len(t, env.outbox.all(), 1)
	assert.True(t, env.mr.Exists("lead:idempotency:chat-fill-1"))
}

func TestE2E_RelayAcceptsBurstFromOneGateway(t *testing.T) {
	env := newEnvironment(t)
	status, _ := env.call(t, http.MethodPatch, "/api/config", `{"ownerNotificationType":"Email","telegramChatId":""}`)
	require.Equal(t, http.StatusOK, status)

	const leads = 8
	for i := 0; i < leads; i++ {
		status, out := env.callWith(t, http.MethodPost, env.site.URL+"/api/leads",
			`{"type":"chat","name":"Anna","email":"anna@example.com","message":"Hallo"}`, nil)
		require.Equal(t, http.StatusOK, status, "lead %d: %v", i, out)
	}
	assert.Len(t, env.outbox.all(), leads)
}

func TestE2E_RelayRequiresSecret(t *testing.T) {
	env := newEnvironment(t)

	status, out := env.callWith(t, http.MethodPost, env.hook.URL+"/hooks/lead", `{"meta":{},"lead":{}}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", out["code"])
	assert.Empty(t, env.outbox.all())
}

func TestE2E_AdminRoutesRequireToken(t *testing.T) {
	env := newEnvironment(t)

	status, _ := env.callWith(t, http.MethodPatch, env.site.URL+"/api/config/contact", `{"email":"evil@example.com"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, cfg := env.callWith(t, http.MethodGet, env.site.URL+"/api/config", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.NotEqual(t, "evil@example.com", cfg["contact"].(map[string]interface{})["email"])
}

func TestE2E_Readiness(t *testing.T) {
	env := newEnvironment(t)

	status, ready := env.call(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ready", ready["status"])

	env.mr.Close()
	status, _ = env.call(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
