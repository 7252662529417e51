package http

import (
	"net/http"

	"github.com/tempohq/attendance-backend-go/internal/domain/timesheet"
	"github.com/tempohq/attendance-backend-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	GetMy(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.Service
}

func NewTimesheetHandler(timesheetService timesheet.Service) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

func timesheetFilter(r *http.Request) timesheet.Filter {
	return timesheet.Filter{
		EmployeeID: r.URL.Query().Get("employee_id"),
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
	}
}

// GetMy implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetMy(w http.ResponseWriter, r *http.Request) {
	result, err := h.timesheetService.GetMy(r.Context(), timesheetFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements TimesheetHandler. Admin only.
func (h *timesheetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.timesheetService.Get(r.Context(), timesheetFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Summary implements TimesheetHandler. Admin only.
func (h *timesheetHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	result, err := h.timesheetService.Summary(r.Context(), timesheetFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
