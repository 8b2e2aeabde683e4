package leave

import (
	"context"
)

// CatalogRepository provides the fixed leave-type list a ledger starts from
type CatalogRepository interface {
	List(ctx context.Context) ([]LeaveType, error)
}
