package delete_blocked_date

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/schedule"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotFound        = "дата не заблокирована"
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

// Handle DELETE /api/v1/experts/{expertId}/blocked-dates/{date}
// Доступно только сотрудникам (middleware.RequireStaff)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	expertID, err := strconv.ParseInt(vars["expertId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /experts/{id}/blocked-dates/{date} - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	date, err := time.Parse(domain.DateFormat, vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /experts/{id}/blocked-dates/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	if err := h.service.DeleteBlockedDate(r.Context(), expertID, date); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlockedDateNotFound):
			h.logger.Warn("DELETE /experts/{id}/blocked-dates/{date} - Not found: expert_id=%d, date=%s",
				expertID, vars["date"])
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /experts/{id}/blocked-dates/{date} - Failed to unblock: expert_id=%d, error=%v",
				expertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /experts/{id}/blocked-dates/{date} - Date unblocked: expert_id=%d, date=%s",
		expertID, vars["date"])
	w.WriteHeader(http.StatusNoContent)
}
