package attendance

import (
	"context"
)

// LogRepository reads the attendance log.
type LogRepository interface {
	// Load returns every entry of the log, sorted by date
	Load(ctx context.Context) ([]Entry, error)
}
