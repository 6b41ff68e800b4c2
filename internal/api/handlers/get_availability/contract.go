package get_availability

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetWeekly(ctx context.Context, expertID int64) (*models.WeeklyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
