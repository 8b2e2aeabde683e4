package leave

import (
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
)

const (
	maxLeaveTypeNameLength = 100
	maxReasonLength        = 1000
)

// AssignDayRequest assigns a leave type to one calendar date. Emptiness is
// judged by the ledger; Validate only bounds field sizes.
type AssignDayRequest struct {
	Date      string `json:"date"`
	LeaveType string `json:"leave_type"`
}

func (r *AssignDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.LeaveType) > maxLeaveTypeNameLength {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SubmitLeaveRequestRequest is the apply-leave form. Missing fields are
// rejected as a whole with ErrIncompleteRequest, not per field.
type SubmitLeaveRequestRequest struct {
	LeaveType string `json:"leave_type"`
	FromDate  string `json:"from_date"`
	ToDate    string `json:"to_date"`
	Reason    string `json:"reason"`
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.LeaveType) > maxLeaveTypeNameLength {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must not exceed 100 characters",
		})
	}
	if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListLeaveRequestsQuery filters the leave list. Empty fields match every
// record; Status "all" is the same as empty.
type ListLeaveRequestsQuery struct {
	Status string `json:"status"`
	Search string `json:"q"`
}

var AllowedRecordStatuses = []string{
	string(LeaveRecordStatusWaitingApproval),
	string(LeaveRecordStatusApproved),
	string(LeaveRecordStatusRejected),
	string(LeaveRecordStatusCancelled),
}

func (q *ListLeaveRequestsQuery) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsEmpty(q.Status) && q.Status != "all" && !validator.IsInSlice(q.Status, AllowedRecordStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: all, " + strings.Join(AllowedRecordStatuses, ", "),
		})
	}
	if len(q.Search) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "q",
			Message: "q must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Matches reports whether r passes the filter. Search is a case-insensitive
// substring match on leave type and reason.
func (q ListLeaveRequestsQuery) Matches(r LeaveRecord) bool {
	if !validator.IsEmpty(q.Status) && q.Status != "all" && string(r.Status) != q.Status {
		return false
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.LeaveType), search) ||
		strings.Contains(strings.ToLower(r.Reason), search)
}

type LeaveTypeBalanceResponse struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

func NewLeaveTypeBalanceResponse(b LeaveTypeBalance) LeaveTypeBalanceResponse {
	return LeaveTypeBalanceResponse{
		Name:      b.Name,
		Color:     b.Color,
		Allocated: b.Allocated,
		Used:      b.Used,
		Remaining: b.Remaining(),
	}
}

type MarkingResponse struct {
	Date      string  `json:"date"`
	Selected  bool    `json:"selected"`
	Color     string  `json:"color"`
	Marked    bool    `json:"marked"`
	LeaveType string  `json:"leave_type"`
	Source    string  `json:"source"`
	RecordID  *string `json:"record_id,omitempty"`
}

func NewMarkingResponse(date string, m DateMarking) MarkingResponse {
	return MarkingResponse{
		Date:      date,
		Selected:  m.Selected,
		Color:     m.Color,
		Marked:    m.Marked,
		LeaveType: m.LeaveType,
		Source:    string(m.Source),
		RecordID:  m.RecordID,
	}
}

// CalendarResponse is the marking map consumed by the calendar view
type CalendarResponse struct {
	Markings map[string]MarkingResponse `json:"markings"`
	Dates    []string                   `json:"dates"`
}

func NewCalendarResponse(markings map[string]DateMarking) CalendarResponse {
	resp := CalendarResponse{
		Markings: make(map[string]MarkingResponse, len(markings)),
		Dates:    make([]string, 0, len(markings)),
	}
	for date, m := range markings {
		resp.Markings[date] = NewMarkingResponse(date, m)
		resp.Dates = append(resp.Dates, date)
	}
	sort.Strings(resp.Dates)
	return resp
}

type LeaveRecordResponse struct {
	ID          string    `json:"id"`
	LeaveType   string    `json:"leave_type"`
	FromDate    string    `json:"from_date"`
	ToDate      string    `json:"to_date"`
	Days        int       `json:"days"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func NewLeaveRecordResponse(r LeaveRecord) LeaveRecordResponse {
	return LeaveRecordResponse{
		ID:          r.ID,
		LeaveType:   r.LeaveType,
		FromDate:    r.FromDate.Format(validator.DateLayout),
		ToDate:      r.ToDate.Format(validator.DateLayout),
		Days:        r.DayCount,
		Reason:      r.Reason,
		Status:      string(r.Status),
		SubmittedAt: r.SubmittedAt,
	}
}

type StatsResponse struct {
	TotalRequests  int                        `json:"total_requests"`
	RequestedDays  int                        `json:"requested_days"`
	MarkedDays     int                        `json:"marked_days"`
	Approved       int                        `json:"approved"`
	Pending        int                        `json:"pending"`
	Rejected       int                        `json:"rejected"`
	Cancelled      int                        `json:"cancelled"`
	TotalAllocated int                        `json:"total_allocated"`
	TotalUsed      int                        `json:"total_used"`
	TotalRemaining int                        `json:"total_remaining"`
	Balances       []LeaveTypeBalanceResponse `json:"balances"`
}

func NewStatsResponse(s Stats, balances []LeaveTypeBalance) StatsResponse {
	resp := StatsResponse{
		TotalRequests:  s.TotalRequests,
		RequestedDays:  s.RequestedDays,
		MarkedDays:     s.MarkedDays,
		Approved:       s.ByStatus[LeaveRecordStatusApproved],
		Pending:        s.ByStatus[LeaveRecordStatusWaitingApproval],
		Rejected:       s.ByStatus[LeaveRecordStatusRejected],
		Cancelled:      s.ByStatus[LeaveRecordStatusCancelled],
		TotalAllocated: s.TotalAllocated,
		TotalUsed:      s.TotalUsed,
		TotalRemaining: s.TotalAllocated - s.TotalUsed,
		Balances:       make([]LeaveTypeBalanceResponse, 0, len(balances)),
	}
	for _, b := range balances {
		resp.Balances = append(resp.Balances, NewLeaveTypeBalanceResponse(b))
	}
	return resp
}

// SSEEvent represents a Server-Sent Event about the ledger
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	EventCalendarUpdated = "calendar.updated"
	EventLeaveSubmitted  = "leave.submitted"
)

// CalendarUpdate is the payload of EventCalendarUpdated
type CalendarUpdate struct {
	Changed  []MarkingResponse         `json:"changed,omitempty"`
	Removed  []string                  `json:"removed,omitempty"`
	Balances []LeaveTypeBalanceResponse `json:"balances"`
}
