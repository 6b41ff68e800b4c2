package get_expert_bookings

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

type BookingService interface {
	GetExpertBookings(ctx context.Context, req *models.ExpertBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
