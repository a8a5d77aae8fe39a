// internal/services/booking/slot-generator/service.go
package slotgenerator

import (
	"fmt"
	"time"

	apperrors "site-builder/internal/common/errors"
	"site-builder/internal/common/logger"
	"site-builder/internal/models"
)

// ConfigSource supplies the current business configuration.
type ConfigSource interface {
	Get() models.BusinessConfig
}

// Clock returns the current time.
type Clock func() time.Time

type Service struct {
	configs ConfigSource
	now     Clock
	logger  logger.Logger
}

func NewService(configs ConfigSource, now Clock, log logger.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		configs: configs,
		now:     now,
		logger:  log.WithFields(map[string]interface{}{"service": "slot-generator"}),
	}
}

// DaySlots returns the selectable slots for date under the current config.
// Disabled days carry an empty slot list.
func (s *Service) DaySlots(date time.Time) (*DaySlots, error) {
	cfg := s.configs.Get()
	if !cfg.EnableBookingSystem {
		return nil, apperrors.NewFeatureDisabledError("booking")
	}

	out := &DaySlots{
		Date:     date.Format(dateLayout),
		Disabled: IsDateDisabled(date, s.now(), cfg.BlockedDays),
		Slots:    []string{},
		Duration: cfg.SlotDuration,
	}
	if !out.Disabled {
		out.Slots = Generate(date, cfg.AvailableHours, cfg.SlotDuration)
	}

	s.logger.Debug("day slots generated", map[string]interface{}{
		"date":     out.Date,
		"disabled": out.Disabled,
		"count":    len(out.Slots),
	})
	return out, nil
}

// ResolveSlot checks that slot is offered on date and returns its start time.
func (s *Service) ResolveSlot(date time.Time, slot string) (time.Time, error) {
	day, err := s.DaySlots(date)
	if err != nil {
		return time.Time{}, err
	}
	if day.Disabled {
		return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("date %s is not bookable", day.Date))
	}
	for _, offered := range day.Slots {
		if offered == slot {
			return SlotTime(date, slot)
		}
	}
	return time.Time{}, apperrors.NewValidationError(fmt.Sprintf("slot %s is not offered on %s", slot, day.Date))
}
