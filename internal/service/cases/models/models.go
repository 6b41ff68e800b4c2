package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// Request модели

// GetCaseRequest запрос на получение обращения
type GetCaseRequest struct {
	CaseID  int64
	UserID  int64
	IsStaff bool
}

// UpdateStatusRequest запрос сотрудника на смену статуса обращения
type UpdateStatusRequest struct {
	Status                string   `json:"status"`
	AssignedExpertID      *int64   `json:"assignedExpertId,omitempty"`
	SuggestedServiceSlugs []string `json:"suggestedServiceSlugs,omitempty"` // Только вместе с recommendations_sent
	ConvertedOrderIDs     []string `json:"convertedOrderIds,omitempty"`     // Только вместе с converted
}

// ListCasesRequest параметры админского списка обращений
type ListCasesRequest struct {
	Statuses []string
	CaseType string
	ExpertID *int64
	Search   string
	Page     int
	PageSize int
}

// ToDomainQuery конвертирует request в неизменяемый запрос выборки
func (r *ListCasesRequest) ToDomainQuery() (domain.CaseQuery, error) {
	q := domain.CaseQuery{
		CaseType: r.CaseType,
		ExpertID: r.ExpertID,
		Search:   r.Search,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
	for _, s := range r.Statuses {
		status := domain.CaseStatus(s)
		if !status.IsValid() {
			return q, ErrInvalidStatus
		}
		q.Statuses = append(q.Statuses, status)
	}
	return q, nil
}

// ExpertBookingsRequest запрос бронирований эксперта за период
type ExpertBookingsRequest struct {
	ExpertID        int64
	StartDate       *time.Time
	EndDate         *time.Time
	IncludeInactive bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ExpertBookingsRequest) ToDomainFilter() domain.BookingsFilter {
	return domain.BookingsFilter{
		ExpertID:        r.ExpertID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}
}

// Response модели

// BookingResponse данные бронирования консультации
type BookingResponse struct {
	ID          int64     `json:"id"`
	CaseID      int64     `json:"caseId"`
	ExpertID    int64     `json:"expertId"`
	Date        string    `json:"date"`      // "2025-03-03"
	StartTime   string    `json:"startTime"` // "10:00"
	EndTime     string    `json:"endTime"`
	MeetingLink *string   `json:"meetingLink"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CaseResponse данные обращения
type CaseResponse struct {
	ID                    int64            `json:"id"`
	CaseNumber            string           `json:"caseNumber"`
	CustomerID            int64            `json:"customerId"`
	ContactName           string           `json:"contactName"`
	ContactEmail          string           `json:"contactEmail"`
	ContactPhone          string           `json:"contactPhone"`
	CompanyName           *string          `json:"companyName,omitempty"`
	BusinessType          string           `json:"businessType"`
	CaseType              string           `json:"caseType"`
	Title                 string           `json:"title"`
	Description           string           `json:"description"`
	Attachments           []string         `json:"attachments"`
	Status                string           `json:"status"`
	AssignedExpertID      *int64           `json:"assignedExpertId,omitempty"`
	SuggestedServiceSlugs []string         `json:"suggestedServiceSlugs"`
	ConvertedOrderIDs     []string         `json:"convertedOrderIds"`
	Amount                *float64         `json:"amount,omitempty"`
	PaymentStatus         string           `json:"paymentStatus"`
	Booking               *BookingResponse `json:"booking,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// PageResponse информация о странице
type PageResponse struct {
	Number     int  `json:"page"`
	Size       int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// CaseListResponse страница обращений
type CaseListResponse struct {
	Cases []CaseResponse `json:"cases"`
	Page  PageResponse   `json:"pagination"`
}

// Методы конвертации

// FromDomainCase конвертирует domain модель в DTO
func FromDomainCase(c *domain.ConsultationCase) *CaseResponse {
	if c == nil {
		return nil
	}
	return &CaseResponse{
		ID:                    c.ID,
		CaseNumber:            c.CaseNumber,
		CustomerID:            c.CustomerID,
		ContactName:           c.ContactName,
		ContactEmail:          c.ContactEmail,
		ContactPhone:          c.ContactPhone,
		CompanyName:           c.CompanyName,
		BusinessType:          c.BusinessType,
		CaseType:              c.CaseType,
		Title:                 c.Title,
		Description:           c.Description,
		Attachments:           emptyIfNil(c.Attachments),
		Status:                string(c.Status),
		AssignedExpertID:      c.AssignedExpertID,
		SuggestedServiceSlugs: emptyIfNil(c.SuggestedServiceSlugs),
		ConvertedOrderIDs:     emptyIfNil(c.ConvertedOrderIDs),
		Amount:                c.Amount,
		PaymentStatus:         string(c.PaymentStatus),
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// FromDomainBooking конвертирует бронирование в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}
	return &BookingResponse{
		ID:          b.ID,
		CaseID:      b.CaseID,
		ExpertID:    b.ExpertID,
		Date:        domain.DateKey(b.BookingDate),
		StartTime:   b.StartTime.String(),
		EndTime:     b.EndTime.String(),
		MeetingLink: b.MeetingLink,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}
	return resp
}

// FromDomainCasePage конвертирует страницу обращений в DTO
func FromDomainCasePage(cases []*domain.ConsultationCase, page domain.Page) *CaseListResponse {
	resp := &CaseListResponse{
		Cases: make([]CaseResponse, 0, len(cases)),
		Page: PageResponse{
			Number:     page.Number,
			Size:       page.Size,
			Total:      page.Total,
			TotalPages: page.TotalPages,
			HasNext:    page.HasNext,
			HasPrev:    page.HasPrev,
		},
	}
	for _, c := range cases {
		resp.Cases = append(resp.Cases, *FromDomainCase(c))
	}
	return resp
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
