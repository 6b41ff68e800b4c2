package get_available_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidNumDays  = "некорректное количество дней"
	msgInvalidParams   = "некорректные параметры запроса"
)

var (
	errInvalidExpertID = errors.New(msgInvalidExpertID)
	errInvalidDate     = errors.New(msgInvalidDate)
	errInvalidNumDays  = errors.New(msgInvalidNumDays)
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

// NewHandler location задает "сегодня" для startDate по умолчанию
func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.Local
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/consultations/slots
// Query params: expertId, startDate (YYYY-MM-DD), numDays - все опциональны
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	useCaseReq, err := ToUseCaseRequest(
		query.Get("expertId"),
		query.Get("startDate"),
		query.Get("numDays"),
		time.Now().In(h.location),
	)
	if err != nil {
		h.logger.Warn("GET /consultations/slots - Invalid query: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /consultations/slots - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /consultations/slots - Failed to get slots: expert_id=%d, error=%v",
				useCaseReq.ExpertID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /consultations/slots - Slots retrieved: expert_id=%d, days=%d, no_availability=%t",
		result.ExpertID, len(result.Days), result.NoAvailabilityConfigured)
	handlers.RespondJSON(w, http.StatusOK, response)
}
