// internal/services/booking/slot-generator/models.go
package slotgenerator

// DaySlots is the booking view of one calendar day.
type DaySlots struct {
	Date     string   `json:"date"`
	Disabled bool     `json:"disabled"`
	Slots    []string `json:"slots"`
	Duration int      `json:"slotDuration"`
}
