package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xrocketry/attendee-backend-go/internal/domain/attendance"
	"github.com/xrocketry/attendee-backend-go/internal/domain/user"
	"github.com/xrocketry/attendee-backend-go/internal/handler/http/middleware"
	"github.com/xrocketry/attendee-backend-go/internal/handler/http/response"
	"github.com/xrocketry/attendee-backend-go/internal/pkg/validator"
)

type AttendanceHandler interface {
	Scan(w http.ResponseWriter, r *http.Request)
	Manual(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	UserHistory(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	TriggerCleanup(w http.ResponseWriter, r *http.Request)
	TriggerLowAttendanceCheck(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Scan implements AttendanceHandler. This is the endpoint the RFID
// readers post to; it is unauthenticated because the firmware holds no
// credentials.
func (h *attendanceHandlerImpl) Scan(w http.ResponseWriter, r *http.Request) {
	var req attendance.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RecordScan(r.Context(), req)
	if err != nil {
		// A completed day still reports the record so the reader's display
		// can show the day's state.
		if errors.Is(err, attendance.ErrDayCompleted) {
			response.BadRequestWithData(w, result.Message, result)
			return
		}
		response.HandleError(w, err)
		return
	}

	if result.Type == attendance.ResultEntry {
		response.Created(w, result.Message, result)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}

// Manual implements AttendanceHandler.
func (h *attendanceHandlerImpl) Manual(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.attendanceService.RecordManual(r.Context(), req, middleware.CurrentRole(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Type == attendance.ResultEntry {
		response.Created(w, result.Message, result)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}

// Today implements AttendanceHandler. Anonymous callers and plain
// members see active users only; elevated callers also see inactive
// users' records.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	role := middleware.CurrentRole(r)
	includeInactive := role == user.RoleAdmin || role == user.RoleMentor

	entries, err := h.attendanceService.Today(r.Context(), includeInactive)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"attendance": entries,
		"count":      len(entries),
	})
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.CurrentUserID(r)
	if userID == "" {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.attendanceService.UserHistory(r.Context(), userID, historyFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UserHistory implements AttendanceHandler. Members may only read their
// own history; elevated roles may read anyone's.
func (h *attendanceHandlerImpl) UserHistory(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	role := middleware.CurrentRole(r)
	if role != user.RoleAdmin && role != user.RoleMentor && middleware.CurrentUserID(r) != userID {
		response.HandleError(w, user.ErrSelfAccessOnly)
		return
	}

	result, err := h.attendanceService.UserHistory(r.Context(), userID, historyFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.History(r.Context(), historyFilterFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	var start, end *time.Time
	if s := r.URL.Query().Get("startDate"); s != "" {
		parsed, ok := validator.IsValidDate(s)
		if !ok {
			response.BadRequest(w, "Invalid startDate, expected YYYY-MM-DD", nil)
			return
		}
		start = &parsed
	}
	if s := r.URL.Query().Get("endDate"); s != "" {
		parsed, ok := validator.IsValidDate(s)
		if !ok {
			response.BadRequest(w, "Invalid endDate, expected YYYY-MM-DD", nil)
			return
		}
		end = &parsed
	}

	result, err := h.attendanceService.Stats(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.attendanceService.DeleteRecord(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// TriggerCleanup implements AttendanceHandler. Manual trigger for the
// nightly sweep; before the cutoff it reports a skip instead of working.
func (h *attendanceHandlerImpl) TriggerCleanup(w http.ResponseWriter, r *http.Request) {
	summary, err := h.attendanceService.CleanupIncompleteSessions(r.Context(), time.Now())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, summary.Message, summary)
}

// TriggerLowAttendanceCheck implements AttendanceHandler.
func (h *attendanceHandlerImpl) TriggerLowAttendanceCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}

	var date *time.Time
	if req.Date != "" {
		parsed, ok := validator.IsValidDate(req.Date)
		if !ok {
			response.BadRequest(w, "Invalid date, expected YYYY-MM-DD", nil)
			return
		}
		date = &parsed
	}

	summary, err := h.attendanceService.CheckLowAttendance(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, summary.Message, summary)
}

func historyFilterFromQuery(r *http.Request) attendance.HistoryFilter {
	filter := attendance.HistoryFilter{}
	query := r.URL.Query()

	if s := query.Get("userId"); s != "" {
		filter.UserID = &s
	}
	if s := query.Get("startDate"); s != "" {
		if parsed, ok := validator.IsValidDate(s); ok {
			filter.StartDate = &parsed
		}
	}
	if s := query.Get("endDate"); s != "" {
		if parsed, ok := validator.IsValidDate(s); ok {
			filter.EndDate = &parsed
		}
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil {
		filter.Limit = limit
	}
	return filter
}
