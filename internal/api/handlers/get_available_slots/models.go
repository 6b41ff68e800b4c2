package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model.
// При отсутствии расписания у эксперта возвращается только noAvailability=true
type AvailableSlotsResponse struct {
	ExpertID       int64      `json:"expertId"`
	NoAvailability bool       `json:"noAvailability,omitempty"`
	Slots          []DaySlots `json:"slots,omitempty"`
}

// DaySlots слоты одной даты
type DaySlots struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// Slot модель временного слота
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	if resp.NoAvailabilityConfigured {
		return &AvailableSlotsResponse{ExpertID: resp.ExpertID, NoAvailability: true}
	}

	days := make([]DaySlots, len(resp.Days))
	for i, day := range resp.Days {
		slots := make([]Slot, len(day.Slots))
		for j, s := range day.Slots {
			slots[j] = Slot{
				StartTime: s.StartTime.String(),
				EndTime:   s.EndTime.String(),
				Available: s.Available,
			}
		}
		days[i] = DaySlots{Date: day.Date.Format(domain.DateFormat), Slots: slots}
	}

	return &AvailableSlotsResponse{ExpertID: resp.ExpertID, Slots: days}
}

// ToUseCaseRequest создает запрос use case из query параметров.
// Пустые параметры означают значения по умолчанию
func ToUseCaseRequest(expertIDStr, startDateStr, numDaysStr string, today time.Time) (*getAvailableSlots.Request, error) {
	req := &getAvailableSlots.Request{StartDate: domain.DateOnly(today)}

	if expertIDStr != "" {
		expertID, err := strconv.ParseInt(expertIDStr, 10, 64)
		if err != nil {
			return nil, errInvalidExpertID
		}
		req.ExpertID = expertID
	}

	if startDateStr != "" {
		date, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, errInvalidDate
		}
		req.StartDate = date
	}

	if numDaysStr != "" {
		numDays, err := strconv.Atoi(numDaysStr)
		if err != nil {
			return nil, errInvalidNumDays
		}
		req.NumDays = numDays
	}

	return req, nil
}
