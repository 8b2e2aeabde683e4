package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
	"github.com/patrickmn/go-cache"
)

const defaultPeriod = attendance.PeriodLastWeek

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

type AttendanceServiceImpl struct {
	attendance.LogRepository

	mu      sync.RWMutex
	entries []attendance.Entry
	loaded  bool

	// summaries keyed by kind and date bounds
	summaries *cache.Cache
	now       func() time.Time
}

// NewAttendanceService builds the service over repo. Summaries are cached for
// cacheTTL; the log itself is held in memory until the next Reload.
func NewAttendanceService(repo attendance.LogRepository, cacheTTL time.Duration, now func() time.Time) *AttendanceServiceImpl {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		LogRepository: repo,
		summaries:     cache.New(cacheTTL, 2*cacheTTL),
		now:           now,
	}
}

// Reload implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Reload(ctx context.Context) error {
	entries, err := a.LogRepository.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load attendance log: %w", err)
	}

	a.mu.Lock()
	a.entries = entries
	a.loaded = true
	a.summaries.Flush()
	a.mu.Unlock()

	slog.Info("Attendance log loaded", "entries", len(entries))
	return nil
}

// ListEntries implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListEntries(ctx context.Context) (attendance.ListEntriesResponse, error) {
	entries, err := a.snapshot()
	if err != nil {
		return attendance.ListEntriesResponse{}, err
	}

	resp := attendance.ListEntriesResponse{
		Entries: make([]attendance.EntryResponse, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		d, err := e.Duration()
		if err != nil {
			return attendance.ListEntriesResponse{}, err
		}
		resp.Entries = append(resp.Entries, attendance.EntryResponse{
			Date:       e.Date.Format(validator.DateLayout),
			LoginTime:  e.LoginTime,
			LogoutTime: e.LogoutTime,
			Hours:      fmt.Sprintf("%.1f", d.Hours()),
		})
	}
	return resp, nil
}

// GetWorkHours implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWorkHours(ctx context.Context, q attendance.PeriodQuery) (attendance.WorkHoursSummaryResponse, error) {
	label, start, err := a.resolvePeriod(q)
	if err != nil {
		return attendance.WorkHoursSummaryResponse{}, err
	}

	key := "hours:" + start.Format(validator.DateLayout)
	if cached, ok := a.summaries.Get(key); ok {
		return attendance.NewWorkHoursSummaryResponse(label, cached.(attendance.WorkHoursSummary)), nil
	}

	entries, err := a.snapshot()
	if err != nil {
		return attendance.WorkHoursSummaryResponse{}, err
	}
	summary, err := attendance.ComputeWorkHours(entries, start)
	if err != nil {
		return attendance.WorkHoursSummaryResponse{}, err
	}
	a.summaries.SetDefault(key, summary)

	return attendance.NewWorkHoursSummaryResponse(label, summary), nil
}

// GetDayStats implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDayStats(ctx context.Context, q attendance.PeriodQuery) (attendance.DayStatsResponse, error) {
	_, start, err := a.resolvePeriod(q)
	if err != nil {
		return attendance.DayStatsResponse{}, err
	}
	today := a.now().UTC()

	key := "days:" + start.Format(validator.DateLayout) + ":" + today.Format(validator.DateLayout)
	if cached, ok := a.summaries.Get(key); ok {
		return attendance.NewDayStatsResponse(cached.(attendance.DayStats)), nil
	}

	entries, err := a.snapshot()
	if err != nil {
		return attendance.DayStatsResponse{}, err
	}
	stats, err := attendance.ComputeDayStats(entries, start, today)
	if err != nil {
		return attendance.DayStatsResponse{}, err
	}
	a.summaries.SetDefault(key, stats)

	return attendance.NewDayStatsResponse(stats), nil
}

func (a *AttendanceServiceImpl) snapshot() ([]attendance.Entry, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if !a.loaded {
		return nil, attendance.ErrLogNotLoaded
	}
	return a.entries, nil
}

// resolvePeriod turns a query into a label and an inclusive start day.
func (a *AttendanceServiceImpl) resolvePeriod(q attendance.PeriodQuery) (string, time.Time, error) {
	if err := q.Validate(); err != nil {
		return "", time.Time{}, err
	}

	if !validator.IsEmpty(q.Since) {
		since, _ := validator.IsValidDate(q.Since)
		return "", since, nil
	}

	period := attendance.Period(q.Period)
	if validator.IsEmpty(q.Period) {
		period = defaultPeriod
	}
	start, err := period.Start(a.now())
	if err != nil {
		return "", time.Time{}, err
	}
	return string(period), start, nil
}
