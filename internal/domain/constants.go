package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultBufferMinutes       = 0
	DefaultNumDays             = 7
	DefaultMaxNumDays          = 31
	DefaultPageSize            = 20
)

// Business validation constants
const (
	MinSlotDurationMinutes  = 5
	MaxSlotDurationMinutes  = 480 // 8 hours
	MinBufferMinutes        = 0
	MaxBufferMinutes        = 240
	MaxWeeklyRows           = 7
	MaxBlockedDateReasonLen = 500
	MaxPageSize             = 100
	MaxAttachments          = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
