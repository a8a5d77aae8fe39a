// internal/services/site/config-store/store_test.go
package configstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersister struct {
	loadErr error
	saveErr error
}

func (f *failingPersister) Load(context.Context) ([]byte, error) { return nil, f.loadErr }
func (f *failingPersister) Save(context.Context, []byte) error   { return f.saveErr }

func newTestStore(t *testing.T) (*Store, *MemoryPersister) {
	t.Helper()
	p := NewMemoryPersister()
	s := New(p, logger.NewTestLogger(t))
	require.NoError(t, s.Load(context.Background()))
	return s, p
}

func errorCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok, "expected StandardError, got %v", err)
	return stdErr.Code
}

// ==========================
// Load / Get
// ==========================

func TestLoad_DefaultsWhenEmpty(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Equal(t, models.DefaultBusinessConfig(), s.Get())
}

func TestLoad_MergesStoredOverDefaults(t *testing.T) {
	p := NewMemoryPersister()
	require.NoError(t, p.Save(context.Background(),
		[]byte(`{"state":{"config":{"companyName":"Müller Bad","slotDuration":30}},"version":0}`)))

	s := New(p, logger.NewNoOpLogger())
	require.NoError(t, s.Load(context.Background()))

	cfg := s.Get()
	assert.Equal(t, "Müller Bad", cfg.CompanyName)
	assert.Equal(t, 30, cfg.SlotDuration)
	assert.Equal(t, models.DefaultBusinessConfig().Slogan, cfg.Slogan)
}

func TestLoad_CorruptBlobKeepsDefaults(t *testing.T) {
	p := NewMemoryPersister()
	require.NoError(t, p.Save(context.Background(), []byte(`{not json`)))

	s := New(p, logger.NewNoOpLogger())
	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, models.DefaultBusinessConfig().CompanyName, s.Get().CompanyName)
}

func TestLoad_BackendError(t *testing.T) {
	s := New(&failingPersister{loadErr: errors.New("connection refused")}, logger.NewNoOpLogger())
	err := s.Load(context.Background())
	assert.Equal(t, apperrors.ErrCodePersistenceFailed, errorCode(t, err))
}

func TestGet_ReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)

	cfg := s.Get()
	cfg.ServicesList[0].Name = "changed"
	cfg.BlockedDays[0] = 3

	fresh := s.Get()
	assert.Equal(t, "Rohrbruch & Notdienst", fresh.ServicesList[0].Name)
	assert.Equal(t, 0, fresh.BlockedDays[0])
}

// ==========================
// Update
// ==========================

func TestUpdate_ReplacesWholeFields(t *testing.T) {
	s, p := newTestStore(t)

	cfg, err := s.Update(context.Background(), Patch{
		"companyName":    json.RawMessage(`"Weber Haustechnik"`),
		"availableHours": json.RawMessage(`{"start":"09:00","end":"17:00"}`),
		"blockedDays":    json.RawMessage(`[0]`),
	})
	require.NoError(t, err)

	assert.Equal(t, "Weber Haustechnik", cfg.CompanyName)
	assert.Equal(t, models.AvailableHours{Start: "09:00", End: "17:00"}, cfg.AvailableHours)
	assert.Equal(t, []int{0}, cfg.BlockedDays)
	assert.Equal(t, cfg, s.Get())

	// persisted in the envelope layout
	blob, err := p.Load(context.Background())
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(blob, &env))
	assert.Contains(t, string(env.State.Config), "Weber Haustechnik")
}

func TestUpdate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		patch Patch
	}{
		{name: "unknown field", patch: Patch{"colour": json.RawMessage(`"red"`)}},
		{name: "wrong type", patch: Patch{"slotDuration": json.RawMessage(`"45"`)}},
		{name: "slot duration outside set", patch: Patch{"slotDuration": json.RawMessage(`20`)}},
		{name: "bad clock", patch: Patch{"availableHours": json.RawMessage(`{"start":"8:00","end":"18:00"}`)}},
		{name: "start after end", patch: Patch{"availableHours": json.RawMessage(`{"start":"18:00","end":"08:00"}`)}},
		{name: "start equals end", patch: Patch{"availableHours": json.RawMessage(`{"start":"10:00","end":"10:00"}`)}},
		{name: "blocked day out of range", patch: Patch{"blockedDays": json.RawMessage(`[7]`)}},
		{name: "sms sender too long", patch: Patch{"smsSenderName": json.RawMessage(`"RauchSanitaerGmbH"`)}},
		{name: "bad color", patch: Patch{"primaryColor": json.RawMessage(`"blue"`)}},
		{name: "bad niche", patch: Patch{"niche": json.RawMessage(`"Roofing"`)}},
		{name: "review rating", patch: Patch{"reviews": json.RawMessage(`[{"id":"1","author":"a","rating":6,"text":"x"}]`)}},
		{name: "null required field", patch: Patch{"contact": json.RawMessage(`null`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestStore(t)
			before := s.Get()

			_, err := s.Update(context.Background(), tt.patch)
			assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, err))
			assert.Equal(t, before, s.Get())
		})
	}
}

func TestUpdate_NullClearsOptionalField(t *testing.T) {
	s, _ := newTestStore(t)
	cfg, err := s.Update(context.Background(), Patch{"githubRepo": json.RawMessage(`null`)})
	require.NoError(t, err)
	assert.Empty(t, cfg.GithubRepo)
}

func TestUpdate_SaveFailureLeavesConfig(t *testing.T) {
	s := New(&failingPersister{saveErr: errors.New("disk full")}, logger.NewNoOpLogger())

	_, err := s.Update(context.Background(), Patch{"companyName": json.RawMessage(`"X"`)})
	assert.Equal(t, apperrors.ErrCodePersistenceFailed, errorCode(t, err))
	assert.Equal(t, models.DefaultBusinessConfig().CompanyName, s.Get().CompanyName)
}

func TestUpdate_ConcurrentWriters(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(slogan string) {
			defer wg.Done()
			_, _ = s.Update(context.Background(), Patch{"slogan": json.RawMessage(`"` + slogan + `"`)})
			_ = s.Get()
		}(string(rune('a' + i)))
	}
	wg.Wait()

	assert.Len(t, s.Get().Slogan, 1)
}

// ==========================
// UpdateNested
// ==========================

func TestUpdateNested_MergesSubFields(t *testing.T) {
	s, _ := newTestStore(t)

	cfg, err := s.UpdateNested(context.Background(), "aboutSection", json.RawMessage(`{"title":"Wer wir sind"}`))
	require.NoError(t, err)

	def := models.DefaultBusinessConfig().AboutSection
	assert.Equal(t, "Wer wir sind", cfg.AboutSection.Title)
	assert.Equal(t, def.Text, cfg.AboutSection.Text)
	assert.Equal(t, def.Show, cfg.AboutSection.Show)

	cfg, err = s.UpdateNested(context.Background(), "contact", json.RawMessage(`{"phone":"+49 30 999"}`))
	require.NoError(t, err)
	assert.Equal(t, "+49 30 999", cfg.Contact.Phone)
	assert.Equal(t, models.DefaultBusinessConfig().Contact.Email, cfg.Contact.Email)
}

func TestUpdateNested_Rejects(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.UpdateNested(context.Background(), "companyName", json.RawMessage(`{"x":1}`))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, err))

	_, err = s.UpdateNested(context.Background(), "navLinks", json.RawMessage(`[true]`))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, err))

	_, err = s.UpdateNested(context.Background(), "navLinks", json.RawMessage(`{"blog":true}`))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, err))

	_, err = s.UpdateNested(context.Background(), "availableHours", json.RawMessage(`{"end":"07:00"}`))
	assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, err))
}

// ==========================
// Reset / Import / Export
// ==========================

func TestReset(t *testing.T) {
	s, p := newTestStore(t)
	_, err := s.Update(context.Background(), Patch{"companyName": json.RawMessage(`"X"`)})
	require.NoError(t, err)

	cfg, err := s.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultBusinessConfig(), cfg)

	reloaded := New(p, logger.NewNoOpLogger())
	require.NoError(t, reloaded.Load(context.Background()))
	assert.Equal(t, models.DefaultBusinessConfig(), reloaded.Get())
}

func TestImport_RoundTripsExport(t *testing.T) {
	src, _ := newTestStore(t)
	_, err := src.Update(context.Background(), Patch{
		"companyName": json.RawMessage(`"Export GmbH"`),
		"niche":       json.RawMessage(`"HeatingOnly"`),
	})
	require.NoError(t, err)

	exported, err := src.Export()
	require.NoError(t, err)

	dst, _ := newTestStore(t)
	cfg, err := dst.Import(context.Background(), exported)
	require.NoError(t, err)
	assert.Equal(t, src.Get(), cfg)
}

func TestImport_BareObjectMerges(t *testing.T) {
	s, _ := newTestStore(t)
	cfg, err := s.Import(context.Background(), []byte(`{"slogan":"Neu"}`))
	require.NoError(t, err)
	assert.Equal(t, "Neu", cfg.Slogan)
	assert.Equal(t, models.DefaultBusinessConfig().CompanyName, cfg.CompanyName)
}

func TestImport_RejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`[1,2]`,
		`{"slotDuration":"fast"}`,
		`{"unknownField":true}`,
		`{"state":{"config":{"reviews":"none"}}}`,
	} {
		t.Run(raw, func(t *testing.T) {
			s, _ := newTestStore(t)
			_, err := s.Import(context.Background(), []byte(raw))
			assert.Equal(t, apperrors.ErrCodeValidationFailed, errorCode(t, err))
			assert.Equal(t, models.DefaultBusinessConfig(), s.Get())
		})
	}
}
