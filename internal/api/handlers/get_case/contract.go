package get_case

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

type CaseService interface {
	GetCase(ctx context.Context, req *models.GetCaseRequest) (*models.CaseResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
