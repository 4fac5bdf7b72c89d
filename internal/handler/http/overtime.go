package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/approval"
	"github.com/go-chi/chi/v5"
)

type OvertimeHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	My(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
	gateway         *approval.Gateway
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService, gateway *approval.Gateway) OvertimeHandler {
	return &overtimeHandlerImpl{
		overtimeService: overtimeService,
		gateway:         gateway,
	}
}

// parseOvertimeForm reads the multipart body shared by Request and Complete:
// a 'data' JSON field plus an optional 'document' file.
func parseOvertimeForm(r *http.Request, dst interface{}) (string, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return "Failed to parse form data", false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		return "Field 'data' is required", false
	}

	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		return "Invalid request format", false
	}

	return "", true
}

// Request implements OvertimeHandler.
func (h *overtimeHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req overtime.RequestOvertimeRequest
	if msg, ok := parseOvertimeForm(r, &req); !ok {
		response.BadRequest(w, msg, nil)
		return
	}

	req.EmployeeID = actor.ID

	file, fileHeader, err := r.FormFile("document")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	} else if err != http.ErrMissingFile {
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	result, err := h.overtimeService.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime requested", result)
}

// Complete implements OvertimeHandler.
func (h *overtimeHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req overtime.CompleteRequest
	if msg, ok := parseOvertimeForm(r, &req); !ok {
		response.BadRequest(w, msg, nil)
		return
	}

	req.EmployeeID = actor.ID
	req.OvertimeID = chi.URLParam(r, "id")

	file, fileHeader, err := r.FormFile("document")
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	} else if err != http.ErrMissingFile {
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	result, err := h.overtimeService.Complete(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime completed", result)
}

// My implements OvertimeHandler.
func (h *overtimeHandlerImpl) My(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filter := overtimeFilterFromQuery(r)

	result, err := h.overtimeService.ListMine(r.Context(), actor.ID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// List implements OvertimeHandler.
func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := overtimeFilterFromQuery(r)

	q := r.URL.Query()
	if v := q.Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}

	result, err := h.overtimeService.ListOvertime(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// Get implements OvertimeHandler.
func (h *overtimeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.overtimeService.GetOvertime(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve implements OvertimeHandler.
func (h *overtimeHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.gateway.ApproveOvertime(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime approved", result)
}

// Reject implements OvertimeHandler.
func (h *overtimeHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.gateway.RejectOvertime(r.Context(), actor, chi.URLParam(r, "id"), body.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime rejected", result)
}

func overtimeFilterFromQuery(r *http.Request) overtime.OvertimeFilter {
	filter := overtime.OvertimeFilter{}

	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		filter.Status = &v
	}
	if v := q.Get("completed"); v != "" {
		completed := v == "true"
		filter.Completed = &completed
	}
	if v := q.Get("date_from"); v != "" {
		filter.DateFrom = &v
	}
	if v := q.Get("date_to"); v != "" {
		filter.DateTo = &v
	}
	filter.Page, _ = strconv.Atoi(q.Get("page"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	return filter
}
