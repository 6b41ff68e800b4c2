package book_consultation

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	bookConsultation "github.com/m04kA/SMC-ConsultationService/internal/usecase/book_consultation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidParams      = "некорректные параметры бронирования"
	msgCaseNotFound       = "обращение не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidCaseState   = "по обращению в текущем статусе нельзя записаться на консультацию"
	msgSlotUnavailable    = "выбранный слот больше недоступен, обновите список слотов"
	msgConflict           = "не удалось завершить бронирование из-за конкурентных запросов, попробуйте еще раз"
)

type Handler struct {
	useCase BookConsultationUseCase
	logger  Logger
}

func NewHandler(useCase BookConsultationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/consultations/book
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /consultations/book - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req BookConsultationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /consultations/book - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, middleware.IsStaff(r.Context()))
	if err != nil {
		h.logger.Warn("POST /consultations/book - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, bookConsultation.ErrInvalidInput):
			h.logger.Warn("POST /consultations/book - Invalid input: case_id=%d, error=%v", req.CaseID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookConsultation.ErrCaseNotFound):
			h.logger.Warn("POST /consultations/book - Case not found: case_id=%d", req.CaseID)
			handlers.RespondNotFound(w, msgCaseNotFound)

		case errors.Is(err, bookConsultation.ErrForbidden):
			h.logger.Warn("POST /consultations/book - Access denied: case_id=%d, user_id=%d", req.CaseID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookConsultation.ErrInvalidCaseState):
			h.logger.Warn("POST /consultations/book - Case not bookable: case_id=%d", req.CaseID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidCaseState)

		case errors.Is(err, bookConsultation.ErrSlotUnavailable):
			h.logger.Warn("POST /consultations/book - Slot unavailable: case_id=%d, date=%s, start=%s",
				req.CaseID, req.Date, req.StartTime)
			handlers.RespondConflict(w, msgSlotUnavailable)

		case errors.Is(err, bookConsultation.ErrConflict):
			h.logger.Warn("POST /consultations/book - Conflict after retries: case_id=%d", req.CaseID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /consultations/book - Failed to book: case_id=%d, user_id=%d, error=%v",
				req.CaseID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /consultations/book - Booking created: booking_id=%d, case_id=%d, warnings=%d",
		result.BookingID, result.CaseID, len(result.Warnings))
	handlers.RespondJSON(w, http.StatusCreated, response)
}
