package create_case

import (
	createCase "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_case"
)

// CreateCaseRequest HTTP request model
type CreateCaseRequest struct {
	CustomerID   *int64   `json:"customerId,omitempty"` // Учитывается только для сотрудников
	ContactName  string   `json:"contactName"`
	ContactEmail string   `json:"contactEmail"`
	ContactPhone string   `json:"contactPhone"`
	CompanyName  *string  `json:"companyName,omitempty"`
	BusinessType string   `json:"businessType"`
	CaseType     string   `json:"caseType"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Attachments  []string `json:"attachments,omitempty"`
	Amount       *float64 `json:"amount,omitempty"`
}

// CaseCreatedResponse HTTP response model
type CaseCreatedResponse struct {
	CaseID     int64    `json:"caseId"`
	CaseNumber string   `json:"caseNumber"`
	Status     string   `json:"status"`
	Warnings   []string `json:"warnings,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Клиент всегда создает обращение от своего имени; сотрудник может указать клиента
func (r *CreateCaseRequest) ToUseCaseRequest(userID int64, isStaff bool) *createCase.Request {
	customerID := userID
	if isStaff && r.CustomerID != nil {
		customerID = *r.CustomerID
	}

	return &createCase.Request{
		CustomerID:   customerID,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactPhone: r.ContactPhone,
		CompanyName:  r.CompanyName,
		BusinessType: r.BusinessType,
		CaseType:     r.CaseType,
		Title:        r.Title,
		Description:  r.Description,
		Attachments:  r.Attachments,
		Amount:       r.Amount,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createCase.Response) *CaseCreatedResponse {
	return &CaseCreatedResponse{
		CaseID:     resp.CaseID,
		CaseNumber: resp.CaseNumber,
		Status:     string(resp.Status),
		Warnings:   resp.Warnings,
	}
}
