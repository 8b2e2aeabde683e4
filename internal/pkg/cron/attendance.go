package cron

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
)

// DefaultAttendanceReloadSpec fires at midnight UTC, when relative periods
// such as last_week move forward by one day.
const DefaultAttendanceReloadSpec = "0 0 0 * * *"

type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	spec              string
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, spec string) *AttendanceJobs {
	if spec == "" {
		spec = DefaultAttendanceReloadSpec
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		spec:              spec,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) error {
	return scheduler.AddJob("reload_attendance_log", j.spec, j.ReloadAttendanceLog)
}

// ReloadAttendanceLog re-reads the attendance log and drops cached summaries
func (j *AttendanceJobs) ReloadAttendanceLog(ctx context.Context) error {
	slog.Info("Cron: Reloading attendance log")

	if err := j.attendanceService.Reload(ctx); err != nil {
		return fmt.Errorf("failed to reload attendance log: %w", err)
	}

	slog.Info("Cron: Attendance log reloaded")
	return nil
}
