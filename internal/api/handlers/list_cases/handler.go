package list_cases

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/service/cases"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
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

// Handle GET /api/v1/admin/consultations
// Query params: status, caseType, expertId, search, page, pageSize (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /admin/consultations - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListCases(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, cases.ErrInvalidInput):
			h.logger.Warn("GET /admin/consultations - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /admin/consultations - Failed to list cases: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/consultations - Cases listed: count=%d, total=%d",
		len(result.Cases), result.Page.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
