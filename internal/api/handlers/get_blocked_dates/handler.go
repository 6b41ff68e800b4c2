package get_blocked_dates

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgInvalidParams   = "некорректный период, ожидается from и to в формате YYYY-MM-DD"
)

type Handler struct {
	service  ScheduleService
	location *time.Location
	logger   Logger
}

func NewHandler(service ScheduleService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/experts/{expertId}/blocked-dates
// Query params: from, to (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := strconv.ParseInt(mux.Vars(r)["expertId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/blocked-dates - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(expertID, query.Get("from"), query.Get("to"), time.Now().In(h.location))
	if err != nil {
		h.logger.Warn("GET /experts/{id}/blocked-dates - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListBlockedDates(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("GET /experts/{id}/blocked-dates - Invalid period: expert_id=%d", expertID)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("GET /experts/{id}/blocked-dates - Failed to list blocked dates: expert_id=%d, error=%v",
				expertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /experts/{id}/blocked-dates - Blocked dates retrieved: expert_id=%d, count=%d",
		expertID, len(result.BlockedDates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
