package create_blocked_date

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
	msgAlreadyBlocked     = "дата уже заблокирована"
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

// Handle POST /api/v1/experts/{expertId}/blocked-dates
// Доступно только сотрудникам (middleware.RequireStaff)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := strconv.ParseInt(mux.Vars(r)["expertId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /experts/{id}/blocked-dates - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	var req models.CreateBlockedDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /experts/{id}/blocked-dates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ExpertID = expertID

	result, err := h.service.CreateBlockedDate(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /experts/{id}/blocked-dates - Validation failed: expert_id=%d, error=%v", expertID, err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, schedule.ErrBlockedDateExists):
			h.logger.Warn("POST /experts/{id}/blocked-dates - Already blocked: expert_id=%d, date=%s", expertID, req.Date)
			handlers.RespondConflict(w, msgAlreadyBlocked)

		default:
			h.logger.Error("POST /experts/{id}/blocked-dates - Failed to block date: expert_id=%d, error=%v", expertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /experts/{id}/blocked-dates - Date blocked: expert_id=%d, date=%s", expertID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
