package leave

import (
	"time"
)

// LeaveType is one entry of the leave-type catalog a ledger is built from
type LeaveType struct {
	Name      string
	Allocated int
	Color     string // '#rrggbb'
}

// LeaveTypeBalance entity
type LeaveTypeBalance struct {
	Name      string
	Allocated int
	Used      int
	Color     string
}

func (b LeaveTypeBalance) Remaining() int {
	return b.Allocated - b.Used
}

type LeaveRecordStatus string

const (
	LeaveRecordStatusWaitingApproval LeaveRecordStatus = "waiting_approval"
	LeaveRecordStatusApproved        LeaveRecordStatus = "approved"
	LeaveRecordStatusRejected        LeaveRecordStatus = "rejected"
	LeaveRecordStatusCancelled       LeaveRecordStatus = "cancelled"
)

// LeaveRecord entity. Records are append-only.
type LeaveRecord struct {
	ID        string
	LeaveType string

	FromDate time.Time
	ToDate   time.Time
	DayCount int // inclusive calendar days

	Reason string
	Status LeaveRecordStatus

	SubmittedAt time.Time
}

type MarkingSource string

const (
	MarkingSourceSingleDay MarkingSource = "single_day"
	MarkingSourceRequest   MarkingSource = "request"
)

// DateMarking annotates one calendar date. LeaveType is the owner of the
// date; Color is derived from it for display.
type DateMarking struct {
	LeaveType string
	Color     string
	Selected  bool
	Marked    bool

	Source   MarkingSource
	RecordID *string
}

// Snapshot is a read-only copy of the ledger state
type Snapshot struct {
	Balances []LeaveTypeBalance
	Markings map[string]DateMarking // keyed by YYYY-MM-DD
	Records  []LeaveRecord
}

// Stats aggregates counts for the leave dashboard
type Stats struct {
	TotalRequests  int
	RequestedDays  int
	MarkedDays     int
	ByStatus       map[LeaveRecordStatus]int
	TotalAllocated int
	TotalUsed      int
}
