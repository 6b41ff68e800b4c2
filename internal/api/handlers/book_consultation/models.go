package book_consultation

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	bookConsultation "github.com/m04kA/SMC-ConsultationService/internal/usecase/book_consultation"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// BookConsultationRequest HTTP request model
type BookConsultationRequest struct {
	CaseID    int64  `json:"caseId"`
	Date      string `json:"date"`      // "2025-03-03"
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "10:30"
}

// BookingResponse HTTP response model
type BookingResponse struct {
	Booking    BookingDetails `json:"booking"`
	CaseID     int64          `json:"caseId"`
	CaseNumber string         `json:"caseNumber"`
	CaseStatus string         `json:"caseStatus"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// BookingDetails данные подтвержденного бронирования
type BookingDetails struct {
	ID          int64   `json:"id"`
	ExpertID    int64   `json:"expertId"`
	Date        string  `json:"date"`
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	MeetingLink *string `json:"meetingLink"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты и времени)
func (r *BookConsultationRequest) ToUseCaseRequest(userID int64, isStaff bool) (*bookConsultation.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, errInvalidDate
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &bookConsultation.Request{
		UserID:    userID,
		IsStaff:   isStaff,
		CaseID:    r.CaseID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *bookConsultation.Response) *BookingResponse {
	return &BookingResponse{
		Booking: BookingDetails{
			ID:          resp.BookingID,
			ExpertID:    resp.ExpertID,
			Date:        resp.Date.Format(domain.DateFormat),
			StartTime:   resp.StartTime.String(),
			EndTime:     resp.EndTime.String(),
			MeetingLink: resp.MeetingLink,
		},
		CaseID:     resp.CaseID,
		CaseNumber: resp.CaseNumber,
		CaseStatus: string(resp.CaseStatus),
		Warnings:   resp.Warnings,
	}
}
