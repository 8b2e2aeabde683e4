package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-leave-ledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-ledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const sseKeepaliveInterval = 30 * time.Second

type LeaveHandler interface {
	ListTypes(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)

	GetCalendar(w http.ResponseWriter, r *http.Request)
	AssignDay(w http.ResponseWriter, r *http.Request)
	RemoveDay(w http.ResponseWriter, r *http.Request)

	ListRequests(w http.ResponseWriter, r *http.Request)
	CreateRequest(w http.ResponseWriter, r *http.Request)

	Stream(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
	keepalive    time.Duration
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
		keepalive:    sseKeepaliveInterval,
	}
}

// ListTypes implements LeaveHandler.
func (l *LeaveHandlerImpl) ListTypes(w http.ResponseWriter, r *http.Request) {
	balances, err := l.leaveService.ListBalances(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetStats implements LeaveHandler.
func (l *LeaveHandlerImpl) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := l.leaveService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}

// GetCalendar implements LeaveHandler.
func (l *LeaveHandlerImpl) GetCalendar(w http.ResponseWriter, r *http.Request) {
	calendar, err := l.leaveService.GetCalendar(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar)
}

// AssignDay implements LeaveHandler. The date comes from the path; the body
// carries the leave type.
func (l *LeaveHandlerImpl) AssignDay(w http.ResponseWriter, r *http.Request) {
	var req leave.AssignDayRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("AssignDay decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Date = chi.URLParam(r, "date")

	marking, err := l.leaveService.AssignDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave day assigned", marking)
}

// RemoveDay implements LeaveHandler.
func (l *LeaveHandlerImpl) RemoveDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")

	marking, err := l.leaveService.RemoveDay(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave day removed", marking)
}

// ListRequests implements LeaveHandler. Filters come from ?status= and ?q=.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	query := leave.ListLeaveRequestsQuery{
		Status: r.URL.Query().Get("status"),
		Search: r.URL.Query().Get("q"),
	}

	records, err := l.leaveService.ListLeaveRequests(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, records, &response.Meta{TotalItems: len(records)})
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.SubmitLeaveRequestRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := l.leaveService.SubmitLeaveRequest(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", record)
}

// Stream implements LeaveHandler. It pushes ledger events to the client as
// Server-Sent Events until the client disconnects.
func (l *LeaveHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := l.leaveService.Subscribe(r.Context())
	defer cleanup()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(l.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("Stream encode error", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
