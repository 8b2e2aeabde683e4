package leave

import "errors"

var (
	ErrUnknownLeaveType    = errors.New("Unknown leave type")
	ErrNoDateSelected      = errors.New("No date selected")
	ErrNoMarkingAtDate     = errors.New("No leave marked at date")
	ErrIncompleteRequest   = errors.New("Please fill in all required fields")
	ErrInvalidDateRange    = errors.New("To date must not be before from date")
	ErrInvalidDate         = errors.New("Invalid date, expected YYYY-MM-DD")
	ErrInsufficientBalance = errors.New("Insufficient leave balance")
	ErrRangeTooLong        = errors.New("Leave request spans too many days")

	ErrEmptyCatalog       = errors.New("Leave type catalog is empty")
	ErrDuplicateLeaveType = errors.New("Duplicate leave type in catalog")
	ErrInvalidLeaveType   = errors.New("Invalid leave type definition")
)
