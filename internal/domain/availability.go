package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// WeeklyAvailability represents an expert's recurring working hours for one day of week.
// There is at most one row per (expert, day of week); rows are never deleted, only deactivated.
type WeeklyAvailability struct {
	ID                  int64
	ExpertID            int64
	DayOfWeek           time.Weekday // 0 = Sunday ... 6 = Saturday
	IsActive            bool
	StartTime           types.TimeString
	EndTime             types.TimeString
	SlotDurationMinutes int
	BufferMinutes       int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsValid checks the row invariants: start < end and positive slot duration
func (w *WeeklyAvailability) IsValid() bool {
	if w.StartTime.Validate() != nil || w.EndTime.Validate() != nil {
		return false
	}
	return w.StartTime.IsBefore(w.EndTime) &&
		w.SlotDurationMinutes > 0 &&
		w.BufferMinutes >= 0 &&
		w.DayOfWeek >= time.Sunday && w.DayOfWeek <= time.Saturday
}

// Step returns the distance in minutes between the starts of two consecutive slots
func (w *WeeklyAvailability) Step() int {
	return w.SlotDurationMinutes + w.BufferMinutes
}

// WeeklySchedule индекс строк расписания по дню недели
type WeeklySchedule map[time.Weekday]*WeeklyAvailability

// NewWeeklySchedule строит индекс из списка строк
func NewWeeklySchedule(rows []*WeeklyAvailability) WeeklySchedule {
	schedule := make(WeeklySchedule, len(rows))
	for _, row := range rows {
		schedule[row.DayOfWeek] = row
	}
	return schedule
}

// ForDate возвращает активную строку расписания для даты или nil
func (s WeeklySchedule) ForDate(date time.Time) *WeeklyAvailability {
	row, ok := s[date.Weekday()]
	if !ok || !row.IsActive {
		return nil
	}
	return row
}

// IsConfigured возвращает true, если у эксперта есть хотя бы одна строка (даже неактивная)
func (s WeeklySchedule) IsConfigured() bool {
	return len(s) > 0
}

// BlockedDate is a calendar-date exception: the expert is unavailable for the whole day
type BlockedDate struct {
	ID        int64
	ExpertID  int64
	Date      time.Time
	Reason    *string
	CreatedAt time.Time
}

// BlockedDates множество заблокированных дат (ключ YYYY-MM-DD)
type BlockedDates map[string]struct{}

// NewBlockedDates строит множество заблокированных дат
func NewBlockedDates(dates []*BlockedDate) BlockedDates {
	set := make(BlockedDates, len(dates))
	for _, d := range dates {
		set[DateKey(d.Date)] = struct{}{}
	}
	return set
}

// Contains проверяет, заблокирована ли дата
func (b BlockedDates) Contains(date time.Time) bool {
	_, ok := b[DateKey(date)]
	return ok
}

// DateKey возвращает ключ календарной даты YYYY-MM-DD
func DateKey(date time.Time) string {
	return date.Format(DateFormat)
}

// DateOnly обнуляет время, оставляя календарную дату в исходном часовом поясе
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsDateBefore сравнивает только календарные даты (без времени и часового пояса)
func IsDateBefore(date, other time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := other.Date()
	if y1 != y2 {
		return y1 < y2
	}
	if m1 != m2 {
		return m1 < m2
	}
	return d1 < d2
}

// IsSameDay проверяет, что две даты относятся к одному календарному дню
func IsSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// CandidateSlots returns every slot the row produces for a day, all marked available.
// Slots start at StartTime and advance by Step() while the slot end fits before EndTime
func (w *WeeklyAvailability) CandidateSlots() []Slot {
	if !w.IsValid() {
		return nil
	}

	start, end := w.StartTime.Minutes(), w.EndTime.Minutes()
	slots := make([]Slot, 0, (end-start)/w.Step()+1)

	for from := start; from+w.SlotDurationMinutes <= end; from += w.Step() {
		slotStart, err := types.NewTimeStringFromMinutes(from)
		if err != nil {
			break
		}
		slotEnd, err := types.NewTimeStringFromMinutes(from + w.SlotDurationMinutes)
		if err != nil {
			break
		}
		slots = append(slots, Slot{StartTime: slotStart, EndTime: slotEnd, Available: true})
	}

	return slots
}

// HasSlot проверяет, что интервал [start, end) совпадает с одним из слотов шаблона
func (w *WeeklyAvailability) HasSlot(start, end types.TimeString) bool {
	for _, s := range w.CandidateSlots() {
		if s.Matches(start, end) {
			return true
		}
	}
	return false
}
