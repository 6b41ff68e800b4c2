package get_case

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

const (
	msgInvalidCaseID = "некорректный ID обращения"
	msgNotFound      = "обращение не найдено"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
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

// Handle GET /api/v1/consultations/{caseId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	caseID, err := strconv.ParseInt(mux.Vars(r)["caseId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /consultations/{id} - Invalid case ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCaseID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /consultations/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Сервис сам проверит, что обращение принадлежит пользователю
	result, err := h.service.GetCase(r.Context(), &models.GetCaseRequest{
		CaseID:  caseID,
		UserID:  userID,
		IsStaff: middleware.IsStaff(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, cases.ErrCaseNotFound):
			h.logger.Warn("GET /consultations/{id} - Case not found: case_id=%d", caseID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, cases.ErrAccessDenied):
			h.logger.Warn("GET /consultations/{id} - Access denied: case_id=%d, user_id=%d", caseID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /consultations/{id} - Failed to get case: case_id=%d, error=%v", caseID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /consultations/{id} - Case retrieved: case_id=%d, user_id=%d", caseID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
