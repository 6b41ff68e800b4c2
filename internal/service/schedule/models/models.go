package models

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// Request модели

// WeeklyRowRequest строка недельного расписания
type WeeklyRowRequest struct {
	DayOfWeek           int    `json:"dayOfWeek" validate:"min=0,max=6"`
	IsActive            bool   `json:"isActive"`
	StartTime           string `json:"startTime" validate:"required,hhmm"`
	EndTime             string `json:"endTime" validate:"required,hhmm"`
	SlotDurationMinutes int    `json:"slotDurationMinutes" validate:"min=5,max=480"`
	BufferMinutes       int    `json:"bufferMinutes" validate:"min=0,max=240"`
}

// ReplaceWeeklyRequest запрос на замену недельного расписания эксперта.
// Дни, не указанные в запросе, остаются без изменений
type ReplaceWeeklyRequest struct {
	ExpertID int64              `json:"-" validate:"gt=0"`
	Rows     []WeeklyRowRequest `json:"rows" validate:"required,min=1,max=7,dive"`
}

// ToDomainRow конвертирует строку запроса в domain модель
func (r WeeklyRowRequest) ToDomainRow(expertID int64) *domain.WeeklyAvailability {
	return &domain.WeeklyAvailability{
		ExpertID:            expertID,
		DayOfWeek:           time.Weekday(r.DayOfWeek),
		IsActive:            r.IsActive,
		StartTime:           types.TimeString(r.StartTime),
		EndTime:             types.TimeString(r.EndTime),
		SlotDurationMinutes: r.SlotDurationMinutes,
		BufferMinutes:       r.BufferMinutes,
	}
}

// CreateBlockedDateRequest запрос на блокировку даты
type CreateBlockedDateRequest struct {
	ExpertID int64   `json:"-" validate:"gt=0"`
	Date     string  `json:"date" validate:"required,yyyymmdd"`
	Reason   *string `json:"reason" validate:"omitempty,max=500"`
}

// ListBlockedDatesRequest запрос на список заблокированных дат за период
type ListBlockedDatesRequest struct {
	ExpertID int64
	From     time.Time
	To       time.Time
}

// Response модели

// WeeklyRowResponse строка недельного расписания
type WeeklyRowResponse struct {
	ID                  int64     `json:"id"`
	ExpertID            int64     `json:"expertId"`
	DayOfWeek           int       `json:"dayOfWeek"`
	IsActive            bool      `json:"isActive"`
	StartTime           string    `json:"startTime"`
	EndTime             string    `json:"endTime"`
	SlotDurationMinutes int       `json:"slotDurationMinutes"`
	BufferMinutes       int       `json:"bufferMinutes"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// WeeklyResponse недельное расписание эксперта
type WeeklyResponse struct {
	ExpertID int64               `json:"expertId"`
	Rows     []WeeklyRowResponse `json:"rows"`
}

// BlockedDateResponse заблокированная дата
type BlockedDateResponse struct {
	ID        int64     `json:"id"`
	ExpertID  int64     `json:"expertId"`
	Date      string    `json:"date"`
	Reason    *string   `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedDateListResponse список заблокированных дат
type BlockedDateListResponse struct {
	BlockedDates []BlockedDateResponse `json:"blockedDates"`
}

// Методы конвертации

// FromDomainWeekly конвертирует строки расписания в DTO
func FromDomainWeekly(expertID int64, rows []*domain.WeeklyAvailability) *WeeklyResponse {
	resp := &WeeklyResponse{
		ExpertID: expertID,
		Rows:     make([]WeeklyRowResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, WeeklyRowResponse{
			ID:                  row.ID,
			ExpertID:            row.ExpertID,
			DayOfWeek:           int(row.DayOfWeek),
			IsActive:            row.IsActive,
			StartTime:           row.StartTime.String(),
			EndTime:             row.EndTime.String(),
			SlotDurationMinutes: row.SlotDurationMinutes,
			BufferMinutes:       row.BufferMinutes,
			UpdatedAt:           row.UpdatedAt,
		})
	}
	return resp
}

// FromDomainBlockedDate конвертирует заблокированную дату в DTO
func FromDomainBlockedDate(b *domain.BlockedDate) *BlockedDateResponse {
	if b == nil {
		return nil
	}
	return &BlockedDateResponse{
		ID:        b.ID,
		ExpertID:  b.ExpertID,
		Date:      domain.DateKey(b.Date),
		Reason:    b.Reason,
		CreatedAt: b.CreatedAt,
	}
}

// FromDomainBlockedDateList конвертирует список заблокированных дат в DTO
func FromDomainBlockedDateList(dates []*domain.BlockedDate) *BlockedDateListResponse {
	resp := &BlockedDateListResponse{
		BlockedDates: make([]BlockedDateResponse, 0, len(dates)),
	}
	for _, d := range dates {
		resp.BlockedDates = append(resp.BlockedDates, *FromDomainBlockedDate(d))
	}
	return resp
}
