package book_consultation

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CaseID <= 0 {
		return fmt.Errorf("%w: caseId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	if err := req.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
	}

	if !req.StartTime.IsBefore(req.EndTime) {
		return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
	}

	return nil
}

// validateNotStarted проверяет, что слот еще не начался с учетом минимального запаса
func validateNotStarted(date time.Time, start types.TimeString, now time.Time, noticeMinutes int) error {
	if domain.IsDateBefore(date, now) {
		return fmt.Errorf("%w: date %s is in the past", ErrSlotUnavailable, domain.DateKey(date))
	}

	startsAt := start.On(date, now.Location())
	minStart := now.Add(time.Duration(noticeMinutes) * time.Minute)
	if !startsAt.After(minStart) {
		return fmt.Errorf("%w: slot %s %s has already started", ErrSlotUnavailable, domain.DateKey(date), start)
	}

	return nil
}

// findOverlap возвращает активное бронирование, пересекающееся с интервалом
func findOverlap(bookings []*domain.Booking, start, end types.TimeString) *domain.Booking {
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(start, end) {
			return b
		}
	}
	return nil
}
