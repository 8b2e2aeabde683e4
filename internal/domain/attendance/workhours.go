package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	secondsPerHour = decimal.NewFromInt(3600)
	hundred        = decimal.NewFromInt(100)
)

// Duration is the time worked on the entry. A logout earlier than the login
// is an overnight shift and wraps past midnight.
func (e Entry) Duration() (time.Duration, error) {
	login, err := clockOffset(e.LoginTime)
	if err != nil {
		return 0, err
	}
	logout, err := clockOffset(e.LogoutTime)
	if err != nil {
		return 0, err
	}
	diff := logout - login
	if diff < 0 {
		diff += 24 * time.Hour
	}
	return diff, nil
}

// ComputeWorkHours totals the time worked on entries dated on or after
// periodStart. The total is rounded to one decimal first and the average is
// taken from the rounded total. No entries yields zero for both.
func ComputeWorkHours(entries []Entry, periodStart time.Time) (WorkHoursSummary, error) {
	start := truncateDay(periodStart)
	summary := WorkHoursSummary{
		PeriodStart:  start,
		TotalHours:   decimal.Zero,
		AverageHours: decimal.Zero,
	}

	for _, e := range entries {
		if truncateDay(e.Date).Before(start) {
			continue
		}
		d, err := e.Duration()
		if err != nil {
			return WorkHoursSummary{}, fmt.Errorf("entry %s: %w", e.Date.Format(validator.DateLayout), err)
		}
		summary.Worked += d
		summary.Entries++
	}

	if summary.Entries == 0 {
		return summary, nil
	}

	seconds := decimal.NewFromInt(int64(summary.Worked / time.Second))
	summary.TotalHours = seconds.Div(secondsPerHour).Round(1)
	summary.AverageHours = summary.TotalHours.Div(decimal.NewFromInt(int64(summary.Entries))).Round(1)
	return summary, nil
}

// ComputeDayStats counts present and absent days in [from, to]. A day is
// present when the log has at least one entry for it.
func ComputeDayStats(entries []Entry, from, to time.Time) (DayStats, error) {
	from = truncateDay(from)
	to = truncateDay(to)
	stats := DayStats{
		From:           from,
		To:             to,
		AttendanceRate: decimal.Zero,
	}
	if to.Before(from) {
		return stats, nil
	}
	stats.TotalDays = int(to.Sub(from).Hours()/24) + 1

	present := make(map[time.Time]bool)
	var checkIn, checkOut time.Duration
	n := 0
	for _, e := range entries {
		day := truncateDay(e.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		login, err := clockOffset(e.LoginTime)
		if err != nil {
			return DayStats{}, fmt.Errorf("entry %s: %w", day.Format(validator.DateLayout), err)
		}
		logout, err := clockOffset(e.LogoutTime)
		if err != nil {
			return DayStats{}, fmt.Errorf("entry %s: %w", day.Format(validator.DateLayout), err)
		}
		present[day] = true
		checkIn += login
		checkOut += logout
		n++
	}

	stats.PresentDays = len(present)
	stats.AbsentDays = stats.TotalDays - stats.PresentDays
	stats.AttendanceRate = decimal.NewFromInt(int64(stats.PresentDays)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(stats.TotalDays))).
		Round(1)

	if n > 0 {
		avgIn := (checkIn / time.Duration(n)).Truncate(time.Second)
		avgOut := (checkOut / time.Duration(n)).Truncate(time.Second)
		stats.AverageCheckIn = &avgIn
		stats.AverageCheckOut = &avgOut
	}
	return stats, nil
}

// FormatClock renders an offset from midnight as "15:04".
func FormatClock(d time.Duration) string {
	return time.Time{}.Add(d).Format("15:04")
}

func clockOffset(clock string) (time.Duration, error) {
	t, ok := validator.IsValidClockTime(clock)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, clock)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
