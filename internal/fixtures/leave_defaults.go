package fixtures

import (
	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
)

// ==========================================
// DEFAULT LEAVE TYPES
// ==========================================

// GetDefaultLeaveTypes returns the leave-type catalog used when no catalog
// file is configured
func GetDefaultLeaveTypes() []leave.LeaveType {
	return []leave.LeaveType{
		{Name: "Casual Leave", Allocated: 12, Color: "#6366f1"},   // Indigo
		{Name: "Sick Leave", Allocated: 7, Color: "#ec4899"},      // Pink
		{Name: "Vacation", Allocated: 15, Color: "#10b981"},       // Emerald
		{Name: "Personal Leave", Allocated: 15, Color: "#f59e0b"}, // Amber
		{Name: "Half Day", Allocated: 15, Color: "#3b82f6"},       // Blue
	}
}
