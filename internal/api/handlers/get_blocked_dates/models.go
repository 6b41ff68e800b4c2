package get_blocked_dates

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule/models"
)

// defaultWindowDays окно по умолчанию, если "to" не указан
const defaultWindowDays = 90

// ToServiceRequest конвертирует параметры запроса в модель сервиса.
// Без "from" период начинается сегодня
func ToServiceRequest(expertID int64, fromStr, toStr string, today time.Time) (*models.ListBlockedDatesRequest, error) {
	from := domain.DateOnly(today)
	if fromStr != "" {
		parsed, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return nil, fmt.Errorf("from: %w", err)
		}
		from = parsed
	}

	to := from.AddDate(0, 0, defaultWindowDays)
	if toStr != "" {
		parsed, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return nil, fmt.Errorf("to: %w", err)
		}
		to = parsed
	}

	return &models.ListBlockedDatesRequest{ExpertID: expertID, From: from, To: to}, nil
}
