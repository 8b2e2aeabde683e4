package leave

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
)

// EventTopic is the hub topic ledger changes are published on
const EventTopic = "leave"

// LeaveServiceImpl serializes access to one ledger and announces every
// change on the SSE hub. Events are published under the lock so subscribers
// see them in mutation order.
type LeaveServiceImpl struct {
	mu     sync.Mutex
	ledger *leave.Ledger
	hub    *sse.Hub
}

func NewLeaveService(ledger *leave.Ledger, hub *sse.Hub) leave.LeaveService {
	return &LeaveServiceImpl{
		ledger: ledger,
		hub:    hub,
	}
}

// ListBalances implements leave.LeaveService.
func (s *LeaveServiceImpl) ListBalances(ctx context.Context) ([]leave.LeaveTypeBalanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return balanceResponses(s.ledger.Balances()), nil
}

// GetStats implements leave.LeaveService.
func (s *LeaveServiceImpl) GetStats(ctx context.Context) (leave.StatsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return leave.NewStatsResponse(s.ledger.Stats(), s.ledger.Balances()), nil
}

// GetCalendar implements leave.LeaveService.
func (s *LeaveServiceImpl) GetCalendar(ctx context.Context) (leave.CalendarResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return leave.NewCalendarResponse(s.ledger.Markings()), nil
}

// AssignDay implements leave.LeaveService.
func (s *LeaveServiceImpl) AssignDay(ctx context.Context, req leave.AssignDayRequest) (leave.MarkingResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.MarkingResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	marking, err := s.ledger.AssignSingleDay(req.Date, req.LeaveType)
	if err != nil {
		return leave.MarkingResponse{}, err
	}
	resp := leave.NewMarkingResponse(req.Date, marking)

	slog.Info("Leave day assigned", "date", req.Date, "leave_type", req.LeaveType)
	s.publish(leave.EventCalendarUpdated, leave.CalendarUpdate{
		Changed:  []leave.MarkingResponse{resp},
		Balances: balanceResponses(s.ledger.Balances()),
	})
	return resp, nil
}

// RemoveDay implements leave.LeaveService.
func (s *LeaveServiceImpl) RemoveDay(ctx context.Context, date string) (leave.MarkingResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	marking, err := s.ledger.RemoveSingleDay(date)
	if err != nil {
		return leave.MarkingResponse{}, err
	}
	resp := leave.NewMarkingResponse(date, marking)

	slog.Info("Leave day removed", "date", date, "leave_type", marking.LeaveType)
	s.publish(leave.EventCalendarUpdated, leave.CalendarUpdate{
		Removed:  []string{resp.Date},
		Balances: balanceResponses(s.ledger.Balances()),
	})
	return resp, nil
}

// SubmitLeaveRequest implements leave.LeaveService.
func (s *LeaveServiceImpl) SubmitLeaveRequest(ctx context.Context, req leave.SubmitLeaveRequestRequest) (leave.LeaveRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRecordResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.ledger.SubmitLeaveRequest(req.LeaveType, req.FromDate, req.ToDate, req.Reason)
	if err != nil {
		return leave.LeaveRecordResponse{}, err
	}

	resp := leave.NewLeaveRecordResponse(record)
	changed := make([]leave.MarkingResponse, 0, record.DayCount)
	for _, day := range leave.ExpandRange(record.FromDate, record.ToDate) {
		date := day.Format(validator.DateLayout)
		marking, _ := s.ledger.Marking(date)
		changed = append(changed, leave.NewMarkingResponse(date, marking))
	}

	slog.Info("Leave request submitted",
		"id", record.ID,
		"leave_type", record.LeaveType,
		"from", resp.FromDate,
		"to", resp.ToDate,
		"days", record.DayCount,
	)
	s.publish(leave.EventLeaveSubmitted, resp)
	s.publish(leave.EventCalendarUpdated, leave.CalendarUpdate{
		Changed:  changed,
		Balances: balanceResponses(s.ledger.Balances()),
	})
	return resp, nil
}

// ListLeaveRequests implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaveRequests(ctx context.Context, q leave.ListLeaveRequestsQuery) ([]leave.LeaveRecordResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	records := s.ledger.Records()
	s.mu.Unlock()

	out := make([]leave.LeaveRecordResponse, 0, len(records))
	for _, r := range records {
		if !q.Matches(r) {
			continue
		}
		out = append(out, leave.NewLeaveRecordResponse(r))
	}
	return out, nil
}

// Subscribe implements leave.LeaveService.
func (s *LeaveServiceImpl) Subscribe(ctx context.Context) (<-chan leave.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(EventTopic)

	out := make(chan leave.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				select {
				case out <- leave.SSEEvent{Event: event.Event, Data: event.Data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

func (s *LeaveServiceImpl) publish(event string, data interface{}) {
	n := s.hub.Publish(EventTopic, sse.Event{Event: event, Data: data})
	slog.Debug("Leave event published", "event", event, "subscribers", n)
}

func balanceResponses(balances []leave.LeaveTypeBalance) []leave.LeaveTypeBalanceResponse {
	out := make([]leave.LeaveTypeBalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, leave.NewLeaveTypeBalanceResponse(b))
	}
	return out
}
