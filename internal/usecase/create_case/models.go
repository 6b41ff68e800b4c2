package create_case

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request поля нового обращения
type Request struct {
	CustomerID   int64    `json:"customerId" validate:"gt=0"`
	ContactName  string   `json:"contactName" validate:"required,max=200"`
	ContactEmail string   `json:"contactEmail" validate:"required,email,max=254"`
	ContactPhone string   `json:"contactPhone" validate:"required,e164"`
	CompanyName  *string  `json:"companyName" validate:"omitempty,max=200"`
	BusinessType string   `json:"businessType" validate:"required,max=100"`
	CaseType     string   `json:"caseType" validate:"required,max=100"`
	Title        string   `json:"title" validate:"required,min=3,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	Attachments  []string `json:"attachments" validate:"max=10,dive,required,max=500"`
	Amount       *float64 `json:"amount" validate:"omitempty,gte=0"`
}

// Response созданное обращение
type Response struct {
	CaseID     int64
	CaseNumber string
	Status     domain.CaseStatus
	// Warnings сбои внешних сервисов после создания. Обращение при этом сохранено
	Warnings []string
}
