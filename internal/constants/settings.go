package constants

const (
	// Week start values
	WeekStartMonday = "monday"
	WeekStartSunday = "sunday"

	// Default Settings Values
	DefaultWeekStart    = WeekStartMonday
	DefaultDayStartHour = 6
	DefaultDayEndHour   = 23
	DefaultTimezone     = "Local" // Use system local timezone by default
)
