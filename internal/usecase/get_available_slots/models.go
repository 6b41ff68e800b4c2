package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Config параметры генерации слотов из конфигурации сервиса
type Config struct {
	Location        *time.Location // Часовой пояс эксперта
	DefaultExpertID int64          // Используется, если эксперт не указан в запросе
	MaxDays         int            // Максимальная длина окна
	Options         Options
}

// Request модель запроса на получение доступных слотов
type Request struct {
	ExpertID  int64     // 0 - эксперт по умолчанию
	StartDate time.Time // Первая дата окна (без времени)
	NumDays   int       // 0 - domain.DefaultNumDays
}

// Response модель ответа со слотами по дням
type Response struct {
	ExpertID int64
	// NoAvailabilityConfigured у эксперта нет ни одной строки недельного расписания.
	// В этом случае Days пуст, и это не то же самое, что "все занято"
	NoAvailabilityConfigured bool
	Days                     []domain.DaySlots
}
