package leave

import (
	"context"
)

type LeaveService interface {
	// Balance
	ListBalances(ctx context.Context) ([]LeaveTypeBalanceResponse, error)
	GetStats(ctx context.Context) (StatsResponse, error)
	// Calendar
	GetCalendar(ctx context.Context) (CalendarResponse, error)
	AssignDay(ctx context.Context, req AssignDayRequest) (MarkingResponse, error)
	RemoveDay(ctx context.Context, date string) (MarkingResponse, error)
	// Request
	SubmitLeaveRequest(ctx context.Context, req SubmitLeaveRequestRequest) (LeaveRecordResponse, error)
	ListLeaveRequests(ctx context.Context, q ListLeaveRequestsQuery) ([]LeaveRecordResponse, error)

	// SSE subscription
	Subscribe(ctx context.Context) (<-chan SSEEvent, func())
}
