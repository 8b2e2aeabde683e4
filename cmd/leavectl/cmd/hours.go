package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/repository/static"
	attendanceService "github.com/cmlabs-hris/hris-leave-ledger/internal/service/attendance"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"
)

func newHoursCmd() *cobra.Command {
	var logFile, period, since, today string

	hoursCmd := &cobra.Command{
		Use:   "hours",
		Short: "Total and average the hours worked in an attendance log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now
			if today != "" {
				day, ok := validator.IsValidDate(today)
				if !ok {
					return fmt.Errorf("--today %q is not a YYYY-MM-DD date", today)
				}
				now = func() time.Time { return day }
			}

			svc := attendanceService.NewAttendanceService(static.NewAttendanceLogRepository(logFile), time.Minute, now)
			if err := svc.Reload(cmd.Context()); err != nil {
				return err
			}

			q := attendance.PeriodQuery{Period: period, Since: since}
			summary, err := svc.GetWorkHours(cmd.Context(), q)
			if err != nil {
				return err
			}
			stats, err := svc.GetDayStats(cmd.Context(), q)
			if err != nil {
				return err
			}

			PrintHours(cmd.OutOrStdout(), summary, stats)
			return nil
		},
	}

	hoursCmd.Flags().StringVarP(&logFile, "log", "l", "", "Attendance log JSON file.")
	hoursCmd.Flags().StringVarP(&period, "period", "p", "", "One of last_week, last_month, last_year. Defaults to last_week.")
	hoursCmd.Flags().StringVar(&since, "since", "", "Explicit period start as YYYY-MM-DD. Excludes --period.")
	hoursCmd.Flags().StringVar(&today, "today", "", "Evaluate periods as of this YYYY-MM-DD date instead of now.")
	_ = hoursCmd.MarkFlagRequired("log")

	return hoursCmd
}

// PrintHours writes a work-hour summary and its day statistics.
func PrintHours(w io.Writer, summary attendance.WorkHoursSummaryResponse, stats attendance.DayStatsResponse) {
	label := summary.Period
	if label == "" {
		label = "since " + summary.PeriodStart
	}
	worked := time.Duration(summary.WorkedMinutes) * time.Minute

	fmt.Fprintf(w, "Period:          %s (from %s)\n", label, summary.PeriodStart)
	fmt.Fprintf(w, "Entries:         %d\n", summary.Entries)
	fmt.Fprintf(w, "Total hours:     %s\n", summary.TotalHours)
	fmt.Fprintf(w, "Average hours:   %s\n", summary.AverageHours)
	fmt.Fprintf(w, "Worked:          %s\n", durafmt.Parse(worked).LimitFirstN(2))
	fmt.Fprintf(w, "Attendance rate: %s (%d of %d days)\n", stats.AttendanceRate, stats.PresentDays, stats.TotalDays)
}
