package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one day of the attendance log. Login and logout are wall-clock
// times of day ("15:04:05") on Date.
type Entry struct {
	Date       time.Time
	LoginTime  string
	LogoutTime string
}

type Period string

const (
	PeriodLastWeek  Period = "last_week"
	PeriodLastMonth Period = "last_month"
	PeriodLastYear  Period = "last_year"
)

var AllowedPeriods = []string{
	string(PeriodLastWeek),
	string(PeriodLastMonth),
	string(PeriodLastYear),
}

// Start returns the first day (inclusive) covered by p, counted back from now.
func (p Period) Start(now time.Time) (time.Time, error) {
	today := truncateDay(now)
	switch p {
	case PeriodLastWeek:
		return today.AddDate(0, 0, -7), nil
	case PeriodLastMonth:
		return today.AddDate(0, -1, 0), nil
	case PeriodLastYear:
		return today.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, ErrUnknownPeriod
	}
}

// WorkHoursSummary is the aggregate over entries dated on or after PeriodStart.
// Hours are rounded to one decimal place.
type WorkHoursSummary struct {
	PeriodStart  time.Time
	Entries      int
	Worked       time.Duration
	TotalHours   decimal.Decimal
	AverageHours decimal.Decimal
}

// DayStats summarizes presence over a closed range of calendar days.
type DayStats struct {
	From            time.Time
	To              time.Time
	TotalDays       int
	PresentDays     int
	AbsentDays      int
	AttendanceRate  decimal.Decimal // percent
	AverageCheckIn  *time.Duration  // offset from midnight
	AverageCheckOut *time.Duration
}
