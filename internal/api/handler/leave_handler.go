package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/api/metrics"
	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

type LeaveHandler struct {
	leaves  ports.LeaveService
	uploads *Uploader
}

func NewLeaveHandler(leaves ports.LeaveService, uploads *Uploader) *LeaveHandler {
	return &LeaveHandler{leaves: leaves, uploads: uploads}
}

// Apply handles POST /leaves. The employee must have at least one Present
// attendance day.
//
// @Summary      Apply for leave
// @Tags         leaves
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  formData  string  true   "Employee id"
// @Param        leaveDate   formData  string  false  "Single leave day (YYYY-MM-DD)"
// @Param        startDate   formData  string  false  "Range start (YYYY-MM-DD)"
// @Param        endDate     formData  string  false  "Range end (YYYY-MM-DD)"
// @Param        reason      formData  string  true   "Reason"
// @Param        pdfFile     formData  file    false  "Supporting document (PDF)"
// @Success      201  {object}  Envelope{data=domain.Leave}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Failure      412  {object}  Envelope
// @Router       /leaves [post]
func (h *LeaveHandler) Apply(c echo.Context) error {
	leave, err := h.apply(c)
	if err != nil {
		metrics.LeaveApplyRejectedTotal.WithLabelValues(domain.KindOf(err).String()).Inc()
		return err
	}
	metrics.LeavesAppliedTotal.Inc()
	return created(c, leave, "Leave applied successfully")
}

func (h *LeaveHandler) apply(c echo.Context) (*domain.Leave, error) {
	actor, err := actorFrom(c)
	if err != nil {
		return nil, err
	}
	var form leaveForm
	if err := bindAndValidate(c, &form); err != nil {
		return nil, err
	}
	in := ports.ApplyLeaveInput{EmployeeID: form.EmployeeID, Reason: form.Reason}
	if in.LeaveDate, err = parseOptionalDate("leaveDate", form.LeaveDate); err != nil {
		return nil, err
	}
	if in.StartDate, err = parseOptionalDate("startDate", form.StartDate); err != nil {
		return nil, err
	}
	if in.EndDate, err = parseOptionalDate("endDate", form.EndDate); err != nil {
		return nil, err
	}

	doc, cleanup, err := h.uploads.Spool(c, false)
	defer cleanup()
	if err != nil {
		return nil, err
	}
	in.Document = doc

	return h.leaves.Apply(c.Request().Context(), actor, in)
}

// List handles GET /leaves.
//
// @Summary      List leaves
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.LeaveView}
// @Router       /leaves [get]
func (h *LeaveHandler) List(c echo.Context) error {
	list, err := h.leaves.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, list, "Leaves fetched successfully")
}

// Get handles GET /leaves/:id.
//
// @Summary      Get a leave
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave id"
// @Success      200  {object}  Envelope{data=domain.LeaveView}
// @Failure      404  {object}  Envelope
// @Router       /leaves/{id} [get]
func (h *LeaveHandler) Get(c echo.Context) error {
	v, err := h.leaves.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, v, "Leave fetched successfully")
}

// ListByEmployee handles GET /leaves/employee/:employeeId.
//
// @Summary      List leaves of an employee
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        employeeId  path      string  true  "Employee id"
// @Success      200  {object}  Envelope{data=[]domain.LeaveView}
// @Failure      404  {object}  Envelope
// @Router       /leaves/employee/{employeeId} [get]
func (h *LeaveHandler) ListByEmployee(c echo.Context) error {
	list, err := h.leaves.ListByEmployee(c.Request().Context(), c.Param("employeeId"))
	if err != nil {
		return err
	}
	return ok(c, list, "Leaves fetched successfully")
}

// Document handles GET /leaves/:id/document and returns a time-limited URL.
//
// @Summary      Get the supporting document URL
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave id"
// @Success      200  {object}  Envelope{data=documentResponse}
// @Failure      404  {object}  Envelope
// @Failure      502  {object}  Envelope
// @Router       /leaves/{id}/document [get]
func (h *LeaveHandler) Document(c echo.Context) error {
	url, err := h.leaves.DocumentURL(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, documentResponse{URL: url}, "Document URL generated")
}

// UpdateStatus handles PATCH /leaves/:id/status.
//
// @Summary      Approve or reject a leave
// @Tags         leaves
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Leave id"
// @Param        body  body      leaveStatusRequest  true  "New status"
// @Success      200   {object}  Envelope{data=domain.Leave}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /leaves/{id}/status [patch]
func (h *LeaveHandler) UpdateStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req leaveStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	leave, err := h.leaves.Transition(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	metrics.LeaveTransitionsTotal.WithLabelValues(string(leave.Status)).Inc()
	return ok(c, leave, "Leave "+string(leave.Status)+" successfully")
}

// Delete handles DELETE /leaves/:id.
//
// @Summary      Delete a leave
// @Tags         leaves
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Leave id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Failure      502  {object}  Envelope
// @Router       /leaves/{id} [delete]
func (h *LeaveHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.leaves.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return ok(c, map[string]any{}, "Leave deleted successfully")
}
