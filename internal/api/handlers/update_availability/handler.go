package update_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule/models"
)

const (
	msgInvalidExpertID    = "некорректный ID эксперта"
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle PUT /api/v1/experts/{expertId}/availability
// Доступно только сотрудникам (middleware.RequireStaff)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := strconv.ParseInt(mux.Vars(r)["expertId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /experts/{id}/availability - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	var req models.ReplaceWeeklyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /experts/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ExpertID = expertID

	result, err := h.service.ReplaceWeekly(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /experts/{id}/availability - Validation failed: expert_id=%d, error=%v", expertID, err)
			handlers.RespondValidationError(w, err)

		default:
			h.logger.Error("PUT /experts/{id}/availability - Failed to save availability: expert_id=%d, error=%v",
				expertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /experts/{id}/availability - Availability saved: expert_id=%d, rows=%d",
		expertID, len(result.Rows))
	handlers.RespondJSON(w, http.StatusOK, result)
}
