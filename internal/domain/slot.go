package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Slot is a fixed-width candidate interval on a given date
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Available bool
}

// Matches returns true if the slot covers exactly [start, end)
func (s Slot) Matches(start, end types.TimeString) bool {
	return s.StartTime == start && s.EndTime == end
}

// DaySlots список слотов на одну дату
type DaySlots struct {
	Date  time.Time
	Slots []Slot
}

// AvailableCount returns the number of free slots of the day
func (d DaySlots) AvailableCount() int {
	count := 0
	for _, s := range d.Slots {
		if s.Available {
			count++
		}
	}
	return count
}
