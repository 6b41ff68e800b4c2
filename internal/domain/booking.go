package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// BookingStatus represents the status of a consultation booking
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents a confirmed consultation reservation
type Booking struct {
	ID          int64
	CaseID      int64
	ExpertID    int64
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	MeetingLink *string
	Status      BookingStatus
	CreatedAt   time.Time
}

// IsActive returns true if the booking still occupies its interval
func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// Overlaps reports whether [start, end) intersects the booking interval.
// Touching intervals (one ends exactly where the other starts) do not overlap.
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return IntervalsOverlap(b.StartTime, b.EndTime, start, end)
}

// IntervalsOverlap проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd)
func IntervalsOverlap(aStart, aEnd, bStart, bEnd types.TimeString) bool {
	return aStart.IsBefore(bEnd) && aEnd.IsAfter(bStart)
}

// BookingsFilter фильтр для получения бронирований эксперта
type BookingsFilter struct {
	ExpertID        int64      // Обязательный параметр
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	IncludeInactive bool       // Включать ли отменённые бронирования
}

// IsSingleDay возвращает true, если фильтр ограничен одной датой
func (f BookingsFilter) IsSingleDay() bool {
	return f.StartDate != nil && f.EndDate != nil && IsSameDay(*f.StartDate, *f.EndDate)
}
