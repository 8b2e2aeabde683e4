package leave

import (
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
	"github.com/google/uuid"
)

// Ledger owns the leave balances, the calendar markings and the committed
// leave records. Every mutation goes through it.
//
// Invariant: for every leave type T, T.Used equals the number of marked
// dates owned by T. Without overdraw, Used never exceeds Allocated.
//
// Ledger is not safe for concurrent use.
type Ledger struct {
	order    []string
	balances map[string]*LeaveTypeBalance
	markings map[string]DateMarking
	records  []LeaveRecord

	allowOverdraw  bool
	maxRequestDays int
	now            func() time.Time
	newID          func() string
}

// MaxRequestSpanDays bounds every request, overdraw or not.
const MaxRequestSpanDays = 366 * 10

const secondsPerDay = 24 * 60 * 60

type LedgerOption func(*Ledger)

// WithAllowOverdraw lets Used grow past Allocated.
func WithAllowOverdraw(allow bool) LedgerOption {
	return func(l *Ledger) { l.allowOverdraw = allow }
}

// WithMaxRequestDays caps the span of a single leave request. Zero means no cap.
func WithMaxRequestDays(days int) LedgerOption {
	return func(l *Ledger) { l.maxRequestDays = days }
}

func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) { l.now = now }
}

func WithIDGenerator(newID func() string) LedgerOption {
	return func(l *Ledger) { l.newID = newID }
}

// NewLedger builds a ledger with one zero-used balance per catalog entry.
func NewLedger(types []LeaveType, opts ...LedgerOption) (*Ledger, error) {
	if len(types) == 0 {
		return nil, ErrEmptyCatalog
	}

	l := &Ledger{
		order:    make([]string, 0, len(types)),
		balances: make(map[string]*LeaveTypeBalance, len(types)),
		markings: make(map[string]DateMarking),
		records:  make([]LeaveRecord, 0),
		now:      time.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, t := range types {
		if validator.IsEmpty(t.Name) || t.Allocated < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLeaveType, t.Name)
		}
		if _, exists := l.balances[t.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLeaveType, t.Name)
		}
		l.order = append(l.order, t.Name)
		l.balances[t.Name] = &LeaveTypeBalance{
			Name:      t.Name,
			Allocated: t.Allocated,
			Color:     t.Color,
		}
	}

	return l, nil
}

// AssignSingleDay marks date with leaveType and charges one day to it. A
// date already owned by another type is released from that type first;
// re-assigning the owning type leaves balances untouched.
func (l *Ledger) AssignSingleDay(date, leaveType string) (DateMarking, error) {
	if validator.IsEmpty(date) {
		return DateMarking{}, ErrNoDateSelected
	}
	day, err := parseDate(date)
	if err != nil {
		return DateMarking{}, err
	}
	balance, ok := l.balances[leaveType]
	if !ok {
		return DateMarking{}, ErrUnknownLeaveType
	}

	key := dateKey(day)
	prior, marked := l.markings[key]
	charges := !marked || prior.LeaveType != leaveType
	if charges && !l.canCharge(balance, 1) {
		return DateMarking{}, ErrInsufficientBalance
	}

	if charges {
		if marked {
			l.balances[prior.LeaveType].Used--
		}
		balance.Used++
	}

	marking := DateMarking{
		LeaveType: leaveType,
		Color:     balance.Color,
		Selected:  true,
		Marked:    true,
		Source:    MarkingSourceSingleDay,
	}
	l.markings[key] = marking
	return marking, nil
}

// RemoveSingleDay clears the marking at date and releases one day from the
// leave type that owned it.
func (l *Ledger) RemoveSingleDay(date string) (DateMarking, error) {
	if validator.IsEmpty(date) {
		return DateMarking{}, ErrNoDateSelected
	}
	day, err := parseDate(date)
	if err != nil {
		return DateMarking{}, err
	}

	key := dateKey(day)
	marking, ok := l.markings[key]
	if !ok {
		return DateMarking{}, ErrNoMarkingAtDate
	}

	delete(l.markings, key)
	if balance, ok := l.balances[marking.LeaveType]; ok && balance.Used > 0 {
		balance.Used--
	}
	return marking, nil
}

// SubmitLeaveRequest commits a leave record covering [fromDate, toDate] and
// marks every date in the range with leaveType, last write wins. Each date
// newly claimed by leaveType is charged to it and released from its prior
// owner.
func (l *Ledger) SubmitLeaveRequest(leaveType, fromDate, toDate, reason string) (LeaveRecord, error) {
	if validator.IsEmpty(leaveType) || validator.IsEmpty(fromDate) || validator.IsEmpty(toDate) || validator.IsEmpty(reason) {
		return LeaveRecord{}, ErrIncompleteRequest
	}
	from, err := parseDate(fromDate)
	if err != nil {
		return LeaveRecord{}, err
	}
	to, err := parseDate(toDate)
	if err != nil {
		return LeaveRecord{}, err
	}
	if to.Before(from) {
		return LeaveRecord{}, ErrInvalidDateRange
	}
	balance, ok := l.balances[leaveType]
	if !ok {
		return LeaveRecord{}, ErrUnknownLeaveType
	}

	dayCount := DayCount(from, to)
	if dayCount > MaxRequestSpanDays || (l.maxRequestDays > 0 && dayCount > l.maxRequestDays) {
		return LeaveRecord{}, ErrRangeTooLong
	}
	// the type ends up owning every date in the range
	if !l.allowOverdraw && dayCount > balance.Allocated {
		return LeaveRecord{}, ErrInsufficientBalance
	}

	days := ExpandRange(from, to)
	charged := 0
	released := make(map[string]int)
	for _, day := range days {
		prior, marked := l.markings[dateKey(day)]
		if marked && prior.LeaveType == leaveType {
			continue
		}
		charged++
		if marked {
			released[prior.LeaveType]++
		}
	}
	if !l.canCharge(balance, charged) {
		return LeaveRecord{}, ErrInsufficientBalance
	}

	record := LeaveRecord{
		ID:          l.newID(),
		LeaveType:   leaveType,
		FromDate:    from,
		ToDate:      to,
		DayCount:    dayCount,
		Reason:      reason,
		Status:      LeaveRecordStatusWaitingApproval,
		SubmittedAt: l.now(),
	}

	for name, n := range released {
		l.balances[name].Used -= n
	}
	balance.Used += charged

	recordID := record.ID
	for _, day := range days {
		l.markings[dateKey(day)] = DateMarking{
			LeaveType: leaveType,
			Color:     balance.Color,
			Selected:  true,
			Marked:    true,
			Source:    MarkingSourceRequest,
			RecordID:  &recordID,
		}
	}
	l.records = append(l.records, record)

	return record, nil
}

func (l *Ledger) canCharge(balance *LeaveTypeBalance, days int) bool {
	return l.allowOverdraw || balance.Used+days <= balance.Allocated
}

// Balance returns the balance of a single leave type.
func (l *Ledger) Balance(leaveType string) (LeaveTypeBalance, error) {
	balance, ok := l.balances[leaveType]
	if !ok {
		return LeaveTypeBalance{}, ErrUnknownLeaveType
	}
	return *balance, nil
}

// Balances returns every balance in catalog order.
func (l *Ledger) Balances() []LeaveTypeBalance {
	out := make([]LeaveTypeBalance, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, *l.balances[name])
	}
	return out
}

// Marking returns the marking at date, if any.
func (l *Ledger) Marking(date string) (DateMarking, bool) {
	day, err := parseDate(date)
	if err != nil {
		return DateMarking{}, false
	}
	m, ok := l.markings[dateKey(day)]
	return m, ok
}

func (l *Ledger) Markings() map[string]DateMarking {
	out := make(map[string]DateMarking, len(l.markings))
	for k, v := range l.markings {
		out[k] = v
	}
	return out
}

// MarkedDates returns the marked date keys in ascending order.
func (l *Ledger) MarkedDates() []string {
	keys := make([]string, 0, len(l.markings))
	for k := range l.markings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Records returns committed leave records in submission order.
func (l *Ledger) Records() []LeaveRecord {
	out := make([]LeaveRecord, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Balances: l.Balances(),
		Markings: l.Markings(),
		Records:  l.Records(),
	}
}

func (l *Ledger) Stats() Stats {
	stats := Stats{
		TotalRequests: len(l.records),
		MarkedDays:    len(l.markings),
		ByStatus:      make(map[LeaveRecordStatus]int),
	}
	for _, r := range l.records {
		stats.RequestedDays += r.DayCount
		stats.ByStatus[r.Status]++
	}
	for _, b := range l.balances {
		stats.TotalAllocated += b.Allocated
		stats.TotalUsed += b.Used
	}
	return stats
}

// DayCount returns the inclusive number of calendar days between from and to.
func DayCount(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)
	return int((to.Unix()-from.Unix())/secondsPerDay) + 1
}

// ExpandRange lists every calendar day in [from, to].
func ExpandRange(from, to time.Time) []time.Time {
	from = truncateDay(from)
	to = truncateDay(to)
	if to.Before(from) {
		return nil
	}
	days := make([]time.Time, 0, DayCount(from, to))
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func parseDate(date string) (time.Time, error) {
	day, ok := validator.IsValidDate(date)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return day, nil
}

func dateKey(day time.Time) string {
	return day.Format(validator.DateLayout)
}

// truncateDay drops the clock and zone so day arithmetic never crosses DST.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
