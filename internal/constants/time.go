package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// TimestampFormat is used for created_at columns (YYYY-MM-DD HH:MM:SS)
	TimestampFormat = "2006-01-02 15:04:05"

	// MonthFormat is used for month arguments (YYYY-MM)
	MonthFormat = "2006-01"

	// DefaultEventDurationMin is assumed when an event has no usable end time
	DefaultEventDurationMin = 60

	MinutesPerDay = 24 * 60
)
