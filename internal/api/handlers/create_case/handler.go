package create_case

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	createCase "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_case"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNumbersExhausted   = "номера обращений на текущий год закончились"
	msgConflict           = "не удалось присвоить номер обращению, попробуйте еще раз"
)

type Handler struct {
	useCase CreateCaseUseCase
	logger  Logger
}

func NewHandler(useCase CreateCaseUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/consultations/create
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /consultations/create - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateCaseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /consultations/create - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID, middleware.IsStaff(r.Context())))
	if err != nil {
		switch {
		case errors.Is(err, createCase.ErrInvalidInput):
			h.logger.Warn("POST /consultations/create - Validation failed: user_id=%d, error=%v", userID, err)
			handlers.RespondValidationError(w, err)

		case errors.Is(err, createCase.ErrCaseNumberExhausted):
			h.logger.Error("POST /consultations/create - Case numbers exhausted: %v", err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgNumbersExhausted)

		case errors.Is(err, createCase.ErrConflict):
			h.logger.Error("POST /consultations/create - Case number conflict: %v", err)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("POST /consultations/create - Failed to create case: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /consultations/create - Case created: case_id=%d, case_number=%s",
		result.CaseID, result.CaseNumber)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
