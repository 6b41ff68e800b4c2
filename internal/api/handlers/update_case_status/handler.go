package update_case_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

const (
	msgInvalidCaseID      = "некорректный ID обращения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "обращение не найдено"
	msgInvalidData        = "некорректные данные для смены статуса"
	msgInvalidTransition  = "недопустимая смена статуса обращения"
)

type Handler struct {
	service CaseService
	logger  Logger
}

func NewHandler(service CaseService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/consultations/{caseId}/status
// Доступно только сотрудникам (middleware.RequireStaff)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caseID, err := strconv.ParseInt(mux.Vars(r)["caseId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /consultations/{id}/status - Invalid case ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCaseID)
		return
	}

	var req models.UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /consultations/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateStatus(r.Context(), caseID, &req)
	if err != nil {
		switch {
		case errors.Is(err, cases.ErrCaseNotFound):
			h.logger.Warn("PATCH /consultations/{id}/status - Case not found: case_id=%d", caseID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cases.ErrInvalidInput):
			h.logger.Warn("PATCH /consultations/{id}/status - Invalid data: case_id=%d, error=%v", caseID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		case errors.Is(err, cases.ErrInvalidTransition):
			h.logger.Warn("PATCH /consultations/{id}/status - Invalid transition: case_id=%d, error=%v", caseID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /consultations/{id}/status - Failed to update status: case_id=%d, error=%v", caseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /consultations/{id}/status - Status updated: case_id=%d, status=%s", caseID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
