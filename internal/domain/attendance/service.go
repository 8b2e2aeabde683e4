package attendance

import (
	"context"
)

// AttendanceService defines work-hour analysis over the attendance log
type AttendanceService interface {
	// ListEntries returns the whole log in date order
	ListEntries(ctx context.Context) (ListEntriesResponse, error)

	// GetWorkHours totals and averages hours worked within a period
	GetWorkHours(ctx context.Context, q PeriodQuery) (WorkHoursSummaryResponse, error)

	// GetDayStats counts present and absent days from the period start up to today
	GetDayStats(ctx context.Context, q PeriodQuery) (DayStatsResponse, error)

	// Reload re-reads the log and drops cached summaries
	Reload(ctx context.Context) error
}
