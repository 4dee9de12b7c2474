package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/api/metrics"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

// EmployeeHandler serves employee records and their attendance ledger.
type EmployeeHandler struct {
	employees  ports.EmployeeService
	attendance ports.AttendanceService
	uploads    *Uploader
}

func NewEmployeeHandler(employees ports.EmployeeService, attendance ports.AttendanceService, uploads *Uploader) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, attendance: attendance, uploads: uploads}
}

// Create handles POST /employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        fullName       formData  string  true   "Full name"
// @Param        email          formData  string  true   "Email"
// @Param        phone          formData  string  true   "Phone"
// @Param        position       formData  string  true   "Position"
// @Param        department     formData  string  true   "Department"
// @Param        experience     formData  number  false  "Years of experience"
// @Param        salary         formData  number  false  "Salary"
// @Param        dateOfJoining  formData  string  true   "Date of joining (YYYY-MM-DD)"
// @Param        pdfFile        formData  file    false  "Resume (PDF, max 5 MB)"
// @Success      201  {object}  Envelope{data=domain.Employee}
// @Failure      400  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Failure      502  {object}  Envelope
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var form employeeForm
	if err := bindAndValidate(c, &form); err != nil {
		return err
	}
	joined, err := parseDate("dateOfJoining", form.DateOfJoining)
	if err != nil {
		return err
	}

	resume, cleanup, err := h.uploads.Spool(c, false)
	defer cleanup()
	if err != nil {
		return err
	}

	e, err := h.employees.Create(c.Request().Context(), actor, ports.CreateEmployeeInput{
		FullName:      form.FullName,
		Email:         form.Email,
		Phone:         form.Phone,
		Position:      form.Position,
		Department:    form.Department,
		Experience:    form.Experience,
		Salary:        form.Salary,
		DateOfJoining: joined,
		Resume:        resume,
	})
	if err != nil {
		return err
	}
	return created(c, e, "Employee created successfully")
}

// List handles GET /employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.Employee}
// @Router       /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	list, err := h.employees.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, list, "Employees fetched successfully")
}

// Get handles GET /employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  Envelope{data=domain.Employee}
// @Failure      404  {object}  Envelope
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	e, err := h.employees.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, e, "Employee fetched successfully")
}

// Update handles PUT /employees/:id. Only the fields sent are changed.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Employee id"
// @Param        pdfFile  formData  file    false  "Replacement resume (PDF)"
// @Success      200  {object}  Envelope{data=domain.Employee}
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	form, err := newPatchForm(c)
	if err != nil {
		return err
	}
	in := ports.UpdateEmployeeInput{
		FullName:      form.str("fullName"),
		Email:         form.str("email"),
		Phone:         form.str("phone"),
		Position:      form.str("position"),
		Department:    form.str("department"),
		Experience:    form.float("experience"),
		Salary:        form.float("salary"),
		DateOfJoining: form.date("dateOfJoining"),
	}
	if form.err != nil {
		return form.err
	}

	resume, cleanup, err := h.uploads.Spool(c, false)
	defer cleanup()
	if err != nil {
		return err
	}
	in.Resume = resume

	e, err := h.employees.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return ok(c, e, "Employee updated successfully")
}

// Delete handles DELETE /employees/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Failure      502  {object}  Envelope
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.employees.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return ok(c, map[string]any{}, "Employee deleted successfully")
}

// MarkAttendance handles POST /employees/:id/attendance.
//
// @Summary      Mark attendance for a day
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Employee id"
// @Param        body  body      attendanceRequest  true  "Attendance entry"
// @Success      200   {object}  Envelope{data=[]domain.AttendanceEntry}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /employees/{id}/attendance [post]
func (h *EmployeeHandler) MarkAttendance(c echo.Context) error {
	var req attendanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return err
	}

	ledger, err := h.attendance.Mark(c.Request().Context(), ports.MarkAttendanceInput{
		EmployeeID: c.Param("id"),
		Date:       date,
		Status:     req.Status,
		Note:       req.Note,
	})
	if err != nil {
		return err
	}
	metrics.AttendanceMarksTotal.WithLabelValues(req.Status).Inc()
	return ok(c, ledger, "Attendance marked successfully")
}

// GetAttendance handles GET /employees/:id/attendance.
//
// @Summary      Get attendance
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id         path   string  true   "Employee id"
// @Param        startDate  query  string  false  "Inclusive start (YYYY-MM-DD)"
// @Param        endDate    query  string  false  "Inclusive end (YYYY-MM-DD)"
// @Success      200  {object}  Envelope{data=[]domain.AttendanceEntry}
// @Failure      400  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /employees/{id}/attendance [get]
func (h *EmployeeHandler) GetAttendance(c echo.Context) error {
	start, err := parseOptionalDate("startDate", c.QueryParam("startDate"))
	if err != nil {
		return err
	}
	end, err := parseOptionalDate("endDate", c.QueryParam("endDate"))
	if err != nil {
		return err
	}

	ledger, err := h.attendance.Query(c.Request().Context(), ports.AttendanceQuery{
		EmployeeID: strings.TrimSpace(c.Param("id")),
		Start:      start,
		End:        end,
	})
	if err != nil {
		return err
	}
	return ok(c, ledger, "Attendance fetched successfully")
}
