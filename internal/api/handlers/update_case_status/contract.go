package update_case_status

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/service/cases/models"
)

type CaseService interface {
	UpdateStatus(ctx context.Context, caseID int64, req *models.UpdateStatusRequest) (*models.CaseResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
