package cases

import "github.com/m04kA/SMC-ConsultationService/pkg/dbmetrics"

type DBExecutor = dbmetrics.DBExecutor
