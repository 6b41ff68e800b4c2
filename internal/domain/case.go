package domain

import "time"

// CaseStatus represents the lifecycle state of a consultation case
type CaseStatus string

const (
	CaseStatusSubmitted           CaseStatus = "submitted"
	CaseStatusPendingAssignment   CaseStatus = "pending_assignment"
	CaseStatusUnderReview         CaseStatus = "under_review"
	CaseStatusMeetingScheduled    CaseStatus = "meeting_scheduled"
	CaseStatusMeetingCompleted    CaseStatus = "meeting_completed"
	CaseStatusRecommendationsSent CaseStatus = "recommendations_sent"
	CaseStatusConverted           CaseStatus = "converted"
	CaseStatusCancelled           CaseStatus = "cancelled"
	CaseStatusClosed              CaseStatus = "closed"
)

// PaymentStatus статус оплаты обращения
type PaymentStatus string

const (
	PaymentStatusNotRequired PaymentStatus = "not_required"
	PaymentStatusPending     PaymentStatus = "pending"
	PaymentStatusPaid        PaymentStatus = "paid"
	PaymentStatusRefunded    PaymentStatus = "refunded"
)

// caseTransitions допустимые переходы между статусами обращения
var caseTransitions = map[CaseStatus][]CaseStatus{
	CaseStatusSubmitted: {
		CaseStatusPendingAssignment, CaseStatusUnderReview, CaseStatusMeetingScheduled,
		CaseStatusCancelled, CaseStatusClosed,
	},
	CaseStatusPendingAssignment: {
		CaseStatusUnderReview, CaseStatusMeetingScheduled, CaseStatusCancelled, CaseStatusClosed,
	},
	CaseStatusUnderReview: {
		CaseStatusMeetingScheduled, CaseStatusCancelled, CaseStatusClosed,
	},
	CaseStatusMeetingScheduled: {
		CaseStatusMeetingCompleted, CaseStatusCancelled, CaseStatusClosed,
	},
	CaseStatusMeetingCompleted: {
		CaseStatusRecommendationsSent, CaseStatusCancelled, CaseStatusClosed,
	},
	CaseStatusRecommendationsSent: {
		CaseStatusConverted, CaseStatusCancelled, CaseStatusClosed,
	},
}

// AllCaseStatuses список всех статусов в порядке жизненного цикла
var AllCaseStatuses = []CaseStatus{
	CaseStatusSubmitted,
	CaseStatusPendingAssignment,
	CaseStatusUnderReview,
	CaseStatusMeetingScheduled,
	CaseStatusMeetingCompleted,
	CaseStatusRecommendationsSent,
	CaseStatusConverted,
	CaseStatusCancelled,
	CaseStatusClosed,
}

// IsValid returns true for a known status
func (s CaseStatus) IsValid() bool {
	for _, known := range AllCaseStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal returns true for converted, cancelled and closed
func (s CaseStatus) IsTerminal() bool {
	return s == CaseStatusConverted || s == CaseStatusCancelled || s == CaseStatusClosed
}

// IsBookable returns true while a consultation meeting can still be booked
func (s CaseStatus) IsBookable() bool {
	return s == CaseStatusSubmitted || s == CaseStatusPendingAssignment || s == CaseStatusUnderReview
}

// ReleasesBookingOn returns true if moving to next must cancel the active booking.
// После проведённой встречи бронь остаётся в истории
func (s CaseStatus) ReleasesBookingOn(next CaseStatus) bool {
	if next != CaseStatusCancelled && next != CaseStatusClosed {
		return false
	}
	switch s {
	case CaseStatusSubmitted, CaseStatusPendingAssignment, CaseStatusUnderReview, CaseStatusMeetingScheduled:
		return true
	}
	return false
}

// CanTransitionTo checks the lifecycle graph
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range caseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ConsultationCase represents a customer's consultation request
type ConsultationCase struct {
	ID                    int64
	CaseNumber            string
	CustomerID            int64
	ContactName           string
	ContactEmail          string
	ContactPhone          string
	CompanyName           *string
	BusinessType          string
	CaseType              string
	Title                 string
	Description           string
	Attachments           []string // Непрозрачные ссылки на файлы во внешнем хранилище
	Status                CaseStatus
	AssignedExpertID      *int64
	SuggestedServiceSlugs []string
	ConvertedOrderIDs     []string
	Amount                *float64
	PaymentStatus         PaymentStatus
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// CanBeBooked returns true if a meeting can be scheduled for the case
func (c *ConsultationCase) CanBeBooked() bool {
	return c.Status.IsBookable()
}

// IsOwnedBy returns true if the case belongs to the customer
func (c *ConsultationCase) IsOwnedBy(customerID int64) bool {
	return c.CustomerID == customerID
}
