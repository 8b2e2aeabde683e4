package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidClockTime   = errors.New("invalid clock time, expected HH:MM:SS")
	ErrInvalidEntryDate   = errors.New("invalid attendance date, expected YYYY-MM-DD")
	ErrUnknownPeriod      = errors.New("unknown period")
	ErrInvalidPeriodStart = errors.New("invalid since date, expected YYYY-MM-DD")
	ErrLogNotLoaded       = errors.New("attendance log has not been loaded")
)
