package schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания эксперта
type ScheduleRepository interface {
	UpsertWeekly(ctx context.Context, row *domain.WeeklyAvailability) (*domain.WeeklyAvailability, error)
	GetWeeklyByExpert(ctx context.Context, expertID int64) ([]*domain.WeeklyAvailability, error)
	CreateBlockedDate(ctx context.Context, blocked *domain.BlockedDate) (*domain.BlockedDate, error)
	GetBlockedDates(ctx context.Context, expertID int64, from, to time.Time) ([]*domain.BlockedDate, error)
	DeleteBlockedDate(ctx context.Context, expertID int64, date time.Time) error
}

// Validator проверяет теги validate у запросов
type Validator interface {
	Struct(s interface{}) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
