package get_expert_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgInvalidParams   = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/experts/{expertId}/bookings
// Query params: startDate, endDate, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := strconv.ParseInt(mux.Vars(r)["expertId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/bookings - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(expertID, query.Get("startDate"), query.Get("endDate"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /experts/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetExpertBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, cases.ErrInvalidInput):
			h.logger.Warn("GET /experts/{id}/bookings - Invalid period: expert_id=%d", expertID)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /experts/{id}/bookings - Failed to get bookings: expert_id=%d, error=%v", expertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /experts/{id}/bookings - Bookings retrieved: expert_id=%d, count=%d",
		expertID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
