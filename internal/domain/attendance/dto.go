package attendance

import (
	"strings"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// PeriodQuery selects the entries an aggregate covers: either a named period
// counted back from today or an explicit since date. Empty means last_week.
type PeriodQuery struct {
	Period string `json:"period"`
	Since  string `json:"since"`
}

func (q *PeriodQuery) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(q.Period) && !validator.IsEmpty(q.Since) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period and since are mutually exclusive",
		})
	}

	if !validator.IsEmpty(q.Period) && !validator.IsInSlice(q.Period, AllowedPeriods) {
		errs = append(errs, validator.ValidationError{
			Field:   "period",
			Message: "period must be one of: " + strings.Join(AllowedPeriods, ", "),
		})
	}

	if !validator.IsEmpty(q.Since) {
		if _, ok := validator.IsValidDate(q.Since); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "since",
				Message: "since must be a date in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EntryResponse struct {
	Date       string `json:"date"`
	LoginTime  string `json:"login_time"`
	LogoutTime string `json:"logout_time"`
	Hours      string `json:"hours"`
}

type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int             `json:"total"`
}

type WorkHoursSummaryResponse struct {
	Period        string `json:"period,omitempty"`
	PeriodStart   string `json:"period_start"`
	Entries       int    `json:"entries"`
	WorkedMinutes int64  `json:"worked_minutes"`
	TotalHours    string `json:"total_hours"`
	AverageHours  string `json:"average_hours"`
}

func NewWorkHoursSummaryResponse(period string, s WorkHoursSummary) WorkHoursSummaryResponse {
	return WorkHoursSummaryResponse{
		Period:        period,
		PeriodStart:   s.PeriodStart.Format(validator.DateLayout),
		Entries:       s.Entries,
		WorkedMinutes: int64(s.Worked.Minutes()),
		TotalHours:    s.TotalHours.StringFixed(1),
		AverageHours:  s.AverageHours.StringFixed(1),
	}
}

type DayStatsResponse struct {
	From            string  `json:"from"`
	To              string  `json:"to"`
	TotalDays       int     `json:"total_days"`
	PresentDays     int     `json:"present_days"`
	AbsentDays      int     `json:"absent_days"`
	AttendanceRate  string  `json:"attendance_rate"`
	AverageCheckIn  *string `json:"average_check_in"`
	AverageCheckOut *string `json:"average_check_out"`
}

func NewDayStatsResponse(s DayStats) DayStatsResponse {
	resp := DayStatsResponse{
		From:           s.From.Format(validator.DateLayout),
		To:             s.To.Format(validator.DateLayout),
		TotalDays:      s.TotalDays,
		PresentDays:    s.PresentDays,
		AbsentDays:     s.AbsentDays,
		AttendanceRate: s.AttendanceRate.StringFixed(1) + "%",
	}
	if s.AverageCheckIn != nil {
		in := FormatClock(*s.AverageCheckIn)
		resp.AverageCheckIn = &in
	}
	if s.AverageCheckOut != nil {
		out := FormatClock(*s.AverageCheckOut)
		resp.AverageCheckOut = &out
	}
	return resp
}
