package static

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/fixtures"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml"
)

// catalogFile is the TOML layout of a leave-type catalog:
//
//	[[leave_type]]
//	name = "Casual Leave"
//	allocated = 12
//	color = "#6366F1"
type catalogFile struct {
	LeaveTypes []catalogEntry `toml:"leave_type"`
}

type catalogEntry struct {
	Name      string `toml:"name"`
	Allocated int    `toml:"allocated"`
	Color     string `toml:"color"`
}

type catalogRepositoryImpl struct {
	path string
}

// NewCatalogRepository reads the catalog from a TOML file at path, or serves
// the built-in defaults when path is empty.
func NewCatalogRepository(path string) leave.CatalogRepository {
	return &catalogRepositoryImpl{path: path}
}

// List implements leave.CatalogRepository.
func (r *catalogRepositoryImpl) List(ctx context.Context) ([]leave.LeaveType, error) {
	if r.path == "" {
		return NormalizeCatalog(fixtures.GetDefaultLeaveTypes())
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read leave catalog %s: %w", r.path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a TOML catalog and normalizes it.
func ParseCatalog(data []byte) ([]leave.LeaveType, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode leave catalog: %w", err)
	}

	types := make([]leave.LeaveType, 0, len(file.LeaveTypes))
	for _, e := range file.LeaveTypes {
		types = append(types, leave.LeaveType{
			Name:      e.Name,
			Allocated: e.Allocated,
			Color:     e.Color,
		})
	}
	return NormalizeCatalog(types)
}

// NormalizeCatalog trims names, rewrites colors as lowercase #rrggbb and
// rejects entries a ledger could not be built from.
func NormalizeCatalog(types []leave.LeaveType) ([]leave.LeaveType, error) {
	if len(types) == 0 {
		return nil, leave.ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(types))
	out := make([]leave.LeaveType, 0, len(types))
	for _, t := range types {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", leave.ErrInvalidLeaveType)
		}
		if t.Allocated < 0 {
			return nil, fmt.Errorf("%w: %q has negative allocation", leave.ErrInvalidLeaveType, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", leave.ErrDuplicateLeaveType, name)
		}
		seen[name] = true

		hex := strings.TrimSpace(t.Color)
		if !validator.IsHexColor(hex) {
			return nil, fmt.Errorf("%w: %q has invalid color %q", leave.ErrInvalidLeaveType, name, t.Color)
		}
		color, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: %q has invalid color %q", leave.ErrInvalidLeaveType, name, t.Color)
		}

		out = append(out, leave.LeaveType{
			Name:      name,
			Allocated: t.Allocated,
			Color:     color.Hex(),
		})
	}
	return out, nil
}
