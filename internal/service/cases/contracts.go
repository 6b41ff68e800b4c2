package cases

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// CaseRepository интерфейс репозитория обращений
type CaseRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ConsultationCase, error)
	Update(ctx context.Context, c *domain.ConsultationCase) error
	List(ctx context.Context, q domain.CaseQuery) ([]*domain.ConsultationCase, error)
	Count(ctx context.Context, q domain.CaseQuery) (int, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveByCase(ctx context.Context, caseID int64) (*domain.Booking, error)
	GetByExpertWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	CancelByCase(ctx context.Context, caseID int64) (int64, error)
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
