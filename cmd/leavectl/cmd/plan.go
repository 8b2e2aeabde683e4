package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/repository/static"
	"github.com/spf13/cobra"
)

var errBadPlanArg = errors.New("malformed plan argument")

func newPlanCmd() *cobra.Command {
	var catalogFile string
	var assigns, requests []string
	var allowOverdraw bool
	var maxRequestDays int

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Replay day assignments and leave requests and print the resulting balances",
		Long: "Replay day assignments and leave requests against a fresh ledger.\n" +
			"Assignments are applied first, then requests, each in the order given.",
		Example: `  leavectl plan --assign "2024-03-15=Casual Leave" \
    --request "Sick Leave:2024-03-20:2024-03-22:flu"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types, err := static.NewCatalogRepository(catalogFile).List(cmd.Context())
			if err != nil {
				return err
			}
			ledger, err := leave.NewLedger(types,
				leave.WithAllowOverdraw(allowOverdraw),
				leave.WithMaxRequestDays(maxRequestDays),
			)
			if err != nil {
				return err
			}

			for _, arg := range assigns {
				date, leaveType, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("%w: --assign %q, want DATE=TYPE", errBadPlanArg, arg)
				}
				if _, err := ledger.AssignSingleDay(strings.TrimSpace(date), strings.TrimSpace(leaveType)); err != nil {
					return fmt.Errorf("assign %s: %w", arg, err)
				}
			}

			for _, arg := range requests {
				parts := strings.SplitN(arg, ":", 4)
				if len(parts) != 4 {
					return fmt.Errorf("%w: --request %q, want TYPE:FROM:TO:REASON", errBadPlanArg, arg)
				}
				if _, err := ledger.SubmitLeaveRequest(parts[0], parts[1], parts[2], parts[3]); err != nil {
					return fmt.Errorf("request %s: %w", arg, err)
				}
			}

			PrintPlan(cmd.OutOrStdout(), ledger.Snapshot())
			return nil
		},
	}

	planCmd.Flags().StringVarP(&catalogFile, "catalog", "c", "", "TOML catalog file. The built-in catalog is used when empty.")
	planCmd.Flags().StringArrayVar(&assigns, "assign", nil, "Assign a single day, as DATE=TYPE. Repeatable.")
	planCmd.Flags().StringArrayVar(&requests, "request", nil, "Submit a leave request, as TYPE:FROM:TO:REASON. Repeatable.")
	planCmd.Flags().BoolVar(&allowOverdraw, "allow-overdraw", false, "Let balances go past their allocation.")
	planCmd.Flags().IntVar(&maxRequestDays, "max-days", 0, "Longest request allowed in days. Zero means no cap.")

	return planCmd
}

// PrintPlan writes balances, then records, then the marked calendar.
func PrintPlan(w io.Writer, snap leave.Snapshot) {
	fmt.Fprintf(w, "%-20s %9s %5s %9s\n", "TYPE", "ALLOCATED", "USED", "REMAINING")
	for _, b := range snap.Balances {
		fmt.Fprintf(w, "%-20s %9d %5d %9d\n", b.Name, b.Allocated, b.Used, b.Remaining())
	}

	if len(snap.Records) > 0 {
		fmt.Fprintln(w)
		for _, r := range snap.Records {
			resp := leave.NewLeaveRecordResponse(r)
			fmt.Fprintf(w, "%s  %s..%s  %2dd  %-16s %s\n", resp.Status, resp.FromDate, resp.ToDate, resp.Days, resp.LeaveType, resp.Reason)
		}
	}

	calendar := leave.NewCalendarResponse(snap.Markings)
	if len(calendar.Dates) > 0 {
		fmt.Fprintln(w)
		for _, date := range calendar.Dates {
			m := calendar.Markings[date]
			fmt.Fprintf(w, "%s  %-16s %s\n", date, m.LeaveType, m.Source)
		}
	}
}
