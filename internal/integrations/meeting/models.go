package meeting

import "time"

// Request данные для создания видеовстречи
type Request struct {
	CaseNumber string
	ExpertID   int64
	StartsAt   time.Time
	Duration   time.Duration
}

// createMeetingRequest тело запроса к сервису встреч
type createMeetingRequest struct {
	Title           string    `json:"title"`
	ExternalID      string    `json:"external_id"`
	HostID          int64     `json:"host_id"`
	StartsAt        time.Time `json:"starts_at"`
	DurationMinutes int       `json:"duration_minutes"`
}

// createMeetingResponse ответ сервиса встреч
type createMeetingResponse struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}
