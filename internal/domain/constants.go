package domain

// Default configuration values
const (
	DefaultMinBookingLeadHours    = 1
	DefaultMaxBookingDays         = 30
	DefaultMinCancellationHours   = 2
	DefaultMaxDailyHours          = 8.0
	DefaultEmployeeRating         = 4.0
	DefaultServiceDurationMinutes = 60
)

// Business validation constants
const (
	MinBookingLeadHours         = 0
	MaxBookingLeadHours         = 168 // 1 week
	MinBookingDays              = 0   // 0 = unlimited
	MaxBookingDays              = 365
	MinCancellationHours        = 0
	MaxCancellationHours        = 168
	MaxNotesLength              = 1000
	MaxCancellationReasonLength = 500
)

// Booking code alphabet and length
const (
	BookingCodeLength   = 8
	BookingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
