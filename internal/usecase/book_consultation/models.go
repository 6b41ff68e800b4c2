package book_consultation

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Config параметры бронирования из конфигурации сервиса
type Config struct {
	Location           *time.Location
	DefaultExpertID    int64
	MaxConflictRetries int
	// MinNoticeMinutes минимальный запас до начала слота; 0 - можно записаться на любой еще не начавшийся слот
	MinNoticeMinutes int
}

// Request модель запроса на бронирование консультации
type Request struct {
	UserID    int64 // Кто бронирует (из заголовков аутентификации)
	IsStaff   bool  // Сотрудник может бронировать по любому обращению
	CaseID    int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
}

// Response подтверждение бронирования
type Response struct {
	BookingID   int64
	CaseID      int64
	CaseNumber  string
	CaseStatus  domain.CaseStatus
	ExpertID    int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	MeetingLink *string
	// Warnings сбои внешних сервисов после коммита. Бронирование при этом действительно
	Warnings []string
}
