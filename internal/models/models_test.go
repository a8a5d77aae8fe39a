package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBusinessConfig(t *testing.T) {
	cfg := DefaultBusinessConfig()

	assert.Equal(t, "Rauch Sanitär-Heizungsbau", cfg.CompanyName)
	assert.Equal(t, 45, cfg.SlotDuration)
	assert.Equal(t, AvailableHours{Start: "08:00", End: "18:00"}, cfg.AvailableHours)
	assert.Equal(t, []int{0, 6}, cfg.BlockedDays)
	assert.Len(t, cfg.ServicesList, 3)
	assert.Len(t, cfg.Reviews, 3)
	assert.Equal(t, NotifyBoth, cfg.OwnerNotificationType)
	assert.True(t, cfg.IsBlockedDay(0))
	assert.False(t, cfg.IsBlockedDay(3))
}

func TestBusinessConfig_CloneDoesNotAlias(t *testing.T) {
	cfg := DefaultBusinessConfig()
	clone := cfg.Clone()

	clone.BlockedDays[0] = 3
	clone.ServicesList[0].Name = "changed"
	clone.Reviews = append(clone.Reviews, ReviewItem{ID: "4"})

	assert.Equal(t, 0, cfg.BlockedDays[0])
	assert.Equal(t, "Rohrbruch & Notdienst", cfg.ServicesList[0].Name)
	assert.Len(t, cfg.Reviews, 3)
}

func TestBusinessConfig_JSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(DefaultBusinessConfig())
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"companyName", "smsSenderName", "telegramChatId", "availableHours", "blockedDays", "ownerNotificationType", "googleReviewLink"} {
		assert.Contains(t, fields, key)
	}
}

func TestDefaultsForNiche(t *testing.T) {
	assert.Equal(t, "/images/service-3.png", DefaultsForNiche(NichePlumbingOnly).HeroImage)
	assert.Equal(t, "/images/service-2.png", DefaultsForNiche(NicheHeatingOnly).HeroImage)
	assert.Equal(t, "Meisterbetrieb für Sanitär & Heizung", DefaultsForNiche(NicheGeneral).HeroTitle)
	assert.Equal(t, DefaultsForNiche(NicheGeneral), DefaultsForNiche("Unknown"))
}

func TestLeadType_Valid(t *testing.T) {
	for _, lt := range []LeadType{LeadChat, LeadQuote, LeadBooking, LeadFeedback} {
		assert.True(t, lt.Valid())
	}
	assert.False(t, LeadType("call").Valid())
}
