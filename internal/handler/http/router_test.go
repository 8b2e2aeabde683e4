package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/fixtures"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/pkg/sse"
	attendanceService "github.com/cmlabs-hris/hris-leave-ledger/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-leave-ledger/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryLogRepository struct {
	entries []attendance.Entry
}

func (m *memoryLogRepository) Load(ctx context.Context) ([]attendance.Entry, error) {
	return m.entries, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
	Meta *struct {
		TotalItems int `json:"total_items"`
	} `json:"meta"`
}

func setupTestRouter(t *testing.T) http.Handler {
	t.Helper()

	ledger, err := leave.NewLedger(fixtures.GetDefaultLeaveTypes())
	require.NoError(t, err)
	leaveSvc := leaveService.NewLeaveService(ledger, sse.NewHub())

	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	repo := &memoryLogRepository{entries: []attendance.Entry{
		{Date: day("2024-03-11"), LoginTime: "09:00:00", LogoutTime: "17:00:00"},
		{Date: day("2024-03-12"), LoginTime: "09:30:00", LogoutTime: "17:30:00"},
	}}
	now := func() time.Time { return time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC) }
	attendanceSvc := attendanceService.NewAttendanceService(repo, time.Minute, now)
	require.NoError(t, attendanceSvc.Reload(context.Background()))

	return NewRouter(RouterOptions{
		AppName:        "hris-leave-ledger-test",
		Version:        "test",
		Env:            "test",
		LogLevel:       slog.LevelError,
		AllowedOrigins: []string{"*"},
	}, NewLeaveHandler(leaveSvc), NewAttendanceHandler(attendanceSvc))
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// Test assigning a day through the API
func TestLeaveHandler_AssignDay_Success(t *testing.T) {
	router := setupTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPut, "/api/v1/leave/calendar/2024-03-15",
		map[string]string{"leave_type": "Casual Leave"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var marking leave.MarkingResponse
	require.NoError(t, json.Unmarshal(env.Data, &marking))
	assert.Equal(t, "2024-03-15", marking.Date)
	assert.Equal(t, "#6366f1", marking.Color)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/types", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balances []leave.LeaveTypeBalanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &balances))
	require.Len(t, balances, 5)
	assert.Equal(t, "Casual Leave", balances[0].Name)
	assert.Equal(t, 1, balances[0].Used)
	assert.Equal(t, 11, balances[0].Remaining)
}

func TestLeaveHandler_AssignDay_Errors(t *testing.T) {
	router := setupTestRouter(t)

	tests := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "unknown leave type",
			path:       "/api/v1/leave/calendar/2024-03-15",
			body:       map[string]string{"leave_type": "Moon Leave"},
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "invalid date",
			path:       "/api/v1/leave/calendar/2024-13-01",
			body:       map[string]string{"leave_type": "Casual Leave"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
		{
			name:       "malformed body",
			path:       "/api/v1/leave/calendar/2024-03-15",
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, router, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
		})
	}
}

func TestLeaveHandler_RemoveDay(t *testing.T) {
	router := setupTestRouter(t)

	rec, env := doRequest(t, router, http.MethodDelete, "/api/v1/leave/calendar/2024-03-15", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, leave.ErrNoMarkingAtDate.Error(), env.Error.Message)

	rec, _ = doRequest(t, router, http.MethodPut, "/api/v1/leave/calendar/2024-03-15",
		map[string]string{"leave_type": "Sick Leave"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, router, http.MethodDelete, "/api/v1/leave/calendar/2024-03-15", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var calendar leave.CalendarResponse
	require.NoError(t, json.Unmarshal(env.Data, &calendar))
	assert.Empty(t, calendar.Dates)
}

// Test the apply-leave flow end to end
func TestLeaveHandler_CreateRequest_Success(t *testing.T) {
	router := setupTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/leave/requests", leave.SubmitLeaveRequestRequest{
		LeaveType: "Sick Leave",
		FromDate:  "2024-03-10",
		ToDate:    "2024-03-12",
		Reason:    "flu",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Leave request submitted", env.Message)

	var record leave.LeaveRecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &record))
	assert.Equal(t, 3, record.Days)
	assert.Equal(t, "waiting_approval", record.Status)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var calendar leave.CalendarResponse
	require.NoError(t, json.Unmarshal(env.Data, &calendar))
	assert.Equal(t, []string{"2024-03-10", "2024-03-11", "2024-03-12"}, calendar.Dates)
	for _, d := range calendar.Dates {
		assert.Equal(t, "#ec4899", calendar.Markings[d].Color)
	}

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/requests", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 1, env.Meta.TotalItems)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats leave.StatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 3, stats.TotalUsed)
}

func TestLeaveHandler_ListRequests_Filters(t *testing.T) {
	router := setupTestRouter(t)

	for _, req := range []leave.SubmitLeaveRequestRequest{
		{LeaveType: "Sick Leave", FromDate: "2024-03-10", ToDate: "2024-03-11", Reason: "flu"},
		{LeaveType: "Vacation", FromDate: "2024-08-01", ToDate: "2024-08-02", Reason: "Beach trip"},
	} {
		rec, _ := doRequest(t, router, http.MethodPost, "/api/v1/leave/requests", req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/leave/requests?q=beach", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var records []leave.LeaveRecordResponse
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Vacation", records[0].LeaveType)
	assert.Equal(t, 1, env.Meta.TotalItems)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/requests?status=waiting_approval", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, env.Meta.TotalItems)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/requests?status=approved", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, env.Meta.TotalItems)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/leave/requests?status=pending", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "status")
}

func TestLeaveHandler_CreateRequest_Errors(t *testing.T) {
	router := setupTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/leave/requests", leave.SubmitLeaveRequestRequest{
		LeaveType: "Sick Leave",
		FromDate:  "2024-03-10",
		ToDate:    "2024-03-12",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please fill in all required fields", env.Error.Message)

	rec, env = doRequest(t, router, http.MethodPost, "/api/v1/leave/requests", leave.SubmitLeaveRequestRequest{
		LeaveType: "Sick Leave",
		FromDate:  "2024-03-12",
		ToDate:    "2024-03-10",
		Reason:    "flu",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "INVALID_DATE_RANGE", env.Error.Code)

	rec, env = doRequest(t, router, http.MethodPost, "/api/v1/leave/requests", leave.SubmitLeaveRequestRequest{
		LeaveType: "Sick Leave",
		FromDate:  "2024-03-01",
		ToDate:    "2024-03-31",
		Reason:    "surgery",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	rec, env = doRequest(t, router, http.MethodPost, "/api/v1/leave/requests", leave.SubmitLeaveRequestRequest{
		LeaveType: "Sick Leave",
		FromDate:  "2024-03-10",
		ToDate:    "2024-03-10",
		Reason:    strings.Repeat("a", 1001),
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "reason")
}

func TestAttendanceHandler_WorkHours(t *testing.T) {
	router := setupTestRouter(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/attendance/work-hours?period=last_week", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary attendance.WorkHoursSummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "16.0", summary.TotalHours)
	assert.Equal(t, "8.0", summary.AverageHours)
	assert.Equal(t, 2, summary.Entries)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/attendance/work-hours?period=forever", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Error.Details, "period")
}

func TestAttendanceHandler_ListAndSummary(t *testing.T) {
	router := setupTestRouter(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/attendance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, env.Meta)
	assert.Equal(t, 2, env.Meta.TotalItems)

	rec, env = doRequest(t, router, http.MethodGet, "/api/v1/attendance/summary?since=2024-03-11", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats attendance.DayStatsResponse
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 4, stats.TotalDays)
	assert.Equal(t, 2, stats.PresentDays)
	assert.Equal(t, "50.0%", stats.AttendanceRate)
}

// Test that the event stream announces itself and relays ledger changes
func TestLeaveHandler_Stream(t *testing.T) {
	server := httptest.NewServer(setupTestRouter(t))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/v1/leave/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	waitFor := func(prefix string) string {
		t.Helper()
		deadline := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-deadline:
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	waitFor("event: connected")

	body := strings.NewReader(`{"leave_type":"Vacation"}`)
	putReq, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/leave/calendar/2024-06-03", body)
	require.NoError(t, err)
	putResp, err := http.DefaultClient.Do(putReq)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	waitFor("event: calendar.updated")
	data := waitFor("data: ")
	assert.Contains(t, data, `"date":"2024-06-03"`)
	assert.Contains(t, data, `"color":"#10b981"`)
}
