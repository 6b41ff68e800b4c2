package list_cases

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

type CaseService interface {
	ListCases(ctx context.Context, req *models.ListCasesRequest) (*models.CaseListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
