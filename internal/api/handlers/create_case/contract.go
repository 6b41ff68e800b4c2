package create_case

import (
	"context"

	createCase "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_case"
)

type CreateCaseUseCase interface {
	Execute(ctx context.Context, req *createCase.Request) (*createCase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
