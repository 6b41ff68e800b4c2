package get_expert_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

// ToServiceRequest конвертирует параметры запроса в модель сервиса
func ToServiceRequest(expertID int64, startDateStr, endDateStr, includeInactiveStr string) (*models.ExpertBookingsRequest, error) {
	req := &models.ExpertBookingsRequest{ExpertID: expertID}

	if startDateStr != "" {
		startDate, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
		req.StartDate = &startDate
	}

	if endDateStr != "" {
		endDate, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("endDate: %w", err)
		}
		req.EndDate = &endDate
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
