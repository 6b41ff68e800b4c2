package delete_blocked_date

import (
	"context"
	"time"
)

type ScheduleService interface {
	DeleteBlockedDate(ctx context.Context, expertID int64, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
