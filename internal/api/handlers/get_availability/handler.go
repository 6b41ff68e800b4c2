package get_availability

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/experts/{expertId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := strconv.ParseInt(mux.Vars(r)["expertId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/availability - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	result, err := h.service.GetWeekly(r.Context(), expertID)
	if err != nil {
		h.logger.Error("GET /experts/{id}/availability - Failed to get availability: expert_id=%d, error=%v",
			expertID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /experts/{id}/availability - Availability retrieved: expert_id=%d, rows=%d",
		expertID, len(result.Rows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
