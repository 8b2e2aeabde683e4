package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/handler/http/response"
)

type AttendanceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	GetWorkHours(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// periodQueryFromRequest reads ?period= and ?since=
func periodQueryFromRequest(r *http.Request) attendance.PeriodQuery {
	q := r.URL.Query()
	return attendance.PeriodQuery{
		Period: q.Get("period"),
		Since:  q.Get("since"),
	}
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.attendanceService.ListEntries(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, entries.Entries, &response.Meta{TotalItems: entries.Total})
}

// GetWorkHours implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetWorkHours(w http.ResponseWriter, r *http.Request) {
	summary, err := h.attendanceService.GetWorkHours(r.Context(), periodQueryFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}

// GetSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.GetDayStats(r.Context(), periodQueryFromRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
