package book_consultation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/meeting"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByExpertWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateMeetingLink(ctx context.Context, id int64, link string) error
}

// CaseRepository интерфейс репозитория обращений
type CaseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ConsultationCase, error)
	Update(ctx context.Context, c *domain.ConsultationCase) error
}

// ScheduleRepository интерфейс репозитория расписания
type ScheduleRepository interface {
	GetWeeklyByDay(ctx context.Context, expertID int64, day time.Weekday) (*domain.WeeklyAvailability, error)
	IsDateBlocked(ctx context.Context, expertID int64, date time.Time) (bool, error)
}

// MeetingProvider создает ссылку на видеовстречу
type MeetingProvider interface {
	CreateMeeting(ctx context.Context, req meeting.Request) (string, error)
}

// Notifier отправляет клиенту подтверждение записи
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, msg notifier.BookingConfirmation) error
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	IncBookingCreated()
	IncBookingConflict(reason string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
