package get_available_slots

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Options настраивает фильтрацию слотов текущего дня
type Options struct {
	// HidePastSlotsToday убирает слоты сегодняшнего дня, которые начинаются раньше
	// now + MinNoticeMinutes. По умолчанию выключено: сегодняшние слоты отдаются все
	HidePastSlotsToday bool
	MinNoticeMinutes   int
}

// Params входные данные генератора. Все даты в часовом поясе эксперта
type Params struct {
	StartDate time.Time
	NumDays   int
	Schedule  domain.WeeklySchedule
	Blocked   domain.BlockedDates
	// Bookings активные бронирования эксперта, сгруппированные по domain.DateKey
	Bookings map[string][]*domain.Booking
	Now      time.Time
	Options  Options
}

// GenerateSlots возвращает ленивую последовательность слотов по дням в окне
// [StartDate, StartDate+NumDays). Последовательность конечна и может
// перебираться повторно: каждый проход пересчитывает дни заново
func GenerateSlots(p Params) iter.Seq[domain.DaySlots] {
	start := domain.DateOnly(p.StartDate)

	return func(yield func(domain.DaySlots) bool) {
		for i := 0; i < p.NumDays; i++ {
			date := start.AddDate(0, 0, i)
			if !yield(generateDay(date, p)) {
				return
			}
		}
	}
}

// generateDay вычисляет слоты одной даты
func generateDay(date time.Time, p Params) domain.DaySlots {
	day := domain.DaySlots{Date: date, Slots: []domain.Slot{}}

	// Шаг 1: прошедшие даты не бронируются
	if domain.IsDateBefore(date, p.Now) {
		return day
	}

	// Шаг 2: заблокированная дата перекрывает недельный шаблон
	if p.Blocked.Contains(date) {
		return day
	}

	// Шаг 3: нет активной строки расписания на этот день недели
	row := p.Schedule.ForDate(date)
	if row == nil {
		return day
	}

	// Шаг 4: слоты шаблона с учетом буфера
	candidates := row.CandidateSlots()

	// Шаг 5: для сегодняшнего дня опционально скрываем уже начавшиеся слоты
	if p.Options.HidePastSlotsToday && domain.IsSameDay(date, p.Now) {
		candidates = dropStartedSlots(candidates, p.Now, p.Options.MinNoticeMinutes)
	}

	// Шаг 6: слоты, пересекающиеся с бронированиями, помечаются занятыми
	bookings := p.Bookings[domain.DateKey(date)]
	for i := range candidates {
		candidates[i].Available = !isBooked(candidates[i], bookings)
	}

	day.Slots = candidates
	return day
}

// isBooked проверяет пересечение слота с активными бронированиями.
// Граничащие интервалы (бронирование заканчивается там, где начинается слот) не пересекаются.
// Буфер к бронированию не добавляется
func isBooked(slot domain.Slot, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(slot.StartTime, slot.EndTime) {
			return true
		}
	}
	return false
}

// dropStartedSlots оставляет слоты, начинающиеся не раньше now + noticeMinutes
func dropStartedSlots(slots []domain.Slot, now time.Time, noticeMinutes int) []domain.Slot {
	minStart := now.Hour()*60 + now.Minute() + noticeMinutes

	result := make([]domain.Slot, 0, len(slots))
	for _, s := range slots {
		if s.StartTime.Minutes() >= minStart {
			result = append(result, s)
		}
	}
	return result
}

// groupByDate группирует бронирования по календарной дате
func groupByDate(bookings []*domain.Booking) map[string][]*domain.Booking {
	grouped := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		key := domain.DateKey(b.BookingDate)
		grouped[key] = append(grouped[key], b)
	}
	return grouped
}
