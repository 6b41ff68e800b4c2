package create_case

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// CaseRepository интерфейс репозитория обращений
type CaseRepository interface {
	NextSequence(ctx context.Context, year int) (int, error)
	Create(ctx context.Context, c *domain.ConsultationCase) (*domain.ConsultationCase, error)
}

// Validator проверяет теги validate у запроса
type Validator interface {
	Struct(s interface{}) error
}

// Notifier отправляет клиенту подтверждение приема обращения
type Notifier interface {
	SendCaseReceived(ctx context.Context, msg notifier.CaseReceived) error
}

// Metrics бизнес-метрики обращений
type Metrics interface {
	IncCaseCreated(caseType string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
