package static

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/validator"
)

// attendanceLogFile mirrors the exported attendance log:
//
//	{"userData": {"attendanceRecords": [{"date": "2024-03-11", "loginTime": "09:00:00", "logoutTime": "17:00:00"}]}}
type attendanceLogFile struct {
	UserData struct {
		AttendanceRecords []attendanceRecord `json:"attendanceRecords"`
	} `json:"userData"`
}

type attendanceRecord struct {
	Date       string `json:"date"`
	LoginTime  string `json:"loginTime"`
	LogoutTime string `json:"logoutTime"`
}

type attendanceLogRepositoryImpl struct {
	path string
}

// NewAttendanceLogRepository reads the log from the JSON file at path. An
// empty path is an empty log.
func NewAttendanceLogRepository(path string) attendance.LogRepository {
	return &attendanceLogRepositoryImpl{path: path}
}

// Load implements attendance.LogRepository.
func (r *attendanceLogRepositoryImpl) Load(ctx context.Context) ([]attendance.Entry, error) {
	if r.path == "" {
		return []attendance.Entry{}, nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read attendance log %s: %w", r.path, err)
	}
	return ParseAttendanceLog(data)
}

// ParseAttendanceLog decodes and validates a JSON attendance log. Entries are
// returned sorted by date.
func ParseAttendanceLog(data []byte) ([]attendance.Entry, error) {
	var file attendanceLogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode attendance log: %w", err)
	}

	entries := make([]attendance.Entry, 0, len(file.UserData.AttendanceRecords))
	for i, rec := range file.UserData.AttendanceRecords {
		date, ok := validator.IsValidDate(rec.Date)
		if !ok {
			return nil, fmt.Errorf("record %d: %w: %q", i, attendance.ErrInvalidEntryDate, rec.Date)
		}
		if _, ok := validator.IsValidClockTime(rec.LoginTime); !ok {
			return nil, fmt.Errorf("record %d: %w: %q", i, attendance.ErrInvalidClockTime, rec.LoginTime)
		}
		if _, ok := validator.IsValidClockTime(rec.LogoutTime); !ok {
			return nil, fmt.Errorf("record %d: %w: %q", i, attendance.ErrInvalidClockTime, rec.LogoutTime)
		}
		entries = append(entries, attendance.Entry{
			Date:       date,
			LoginTime:  rec.LoginTime,
			LogoutTime: rec.LogoutTime,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}
