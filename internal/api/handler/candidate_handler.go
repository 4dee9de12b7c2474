package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/core/ports"
)

type CandidateHandler struct {
	candidates ports.CandidateService
	uploads    *Uploader
}

func NewCandidateHandler(candidates ports.CandidateService, uploads *Uploader) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, uploads: uploads}
}

// Add handles POST /candidates. A resume is required.
//
// @Summary      Add a candidate
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        fullName       formData  string  true   "Full name"
// @Param        email          formData  string  true   "Email"
// @Param        phone          formData  string  true   "Phone"
// @Param        position       formData  string  true   "Position"
// @Param        department     formData  string  true   "Department"
// @Param        experience     formData  number  false  "Years of experience"
// @Param        dateOfJoining  formData  string  true   "Expected joining date (YYYY-MM-DD)"
// @Param        pdfFile        formData  file    true   "Resume (PDF, max 5 MB)"
// @Success      201  {object}  Envelope{data=domain.Candidate}
// @Failure      400  {object}  Envelope
// @Failure      409  {object}  Envelope
// @Router       /candidates [post]
func (h *CandidateHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var form candidateForm
	if err := bindAndValidate(c, &form); err != nil {
		return err
	}
	joined, err := parseDate("dateOfJoining", form.DateOfJoining)
	if err != nil {
		return err
	}

	resume, cleanup, err := h.uploads.Spool(c, true)
	defer cleanup()
	if err != nil {
		return err
	}

	cand, err := h.candidates.Add(c.Request().Context(), actor, ports.CreateCandidateInput{
		FullName:      form.FullName,
		Email:         form.Email,
		Phone:         form.Phone,
		Position:      form.Position,
		Department:    form.Department,
		Experience:    form.Experience,
		DateOfJoining: joined,
		Resume:        resume,
	})
	if err != nil {
		return err
	}
	return created(c, cand, "Candidate added successfully")
}

// List handles GET /candidates.
//
// @Summary      List candidates
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]domain.Candidate}
// @Router       /candidates [get]
func (h *CandidateHandler) List(c echo.Context) error {
	list, err := h.candidates.List(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, list, "Candidates fetched successfully")
}

// Update handles PUT /candidates/:id.
//
// @Summary      Update a candidate
// @Tags         candidates
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true   "Candidate id"
// @Param        pdfFile  formData  file    false  "Replacement resume (PDF)"
// @Success      200  {object}  Envelope{data=domain.Candidate}
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /candidates/{id} [put]
func (h *CandidateHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	form, err := newPatchForm(c)
	if err != nil {
		return err
	}
	in := ports.UpdateCandidateInput{
		FullName:      form.str("fullName"),
		Email:         form.str("email"),
		Phone:         form.str("phone"),
		Position:      form.str("position"),
		Department:    form.str("department"),
		Experience:    form.float("experience"),
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

	cand, err := h.candidates.Update(c.Request().Context(), actor, c.Param("id"), in)
	if err != nil {
		return err
	}
	return ok(c, cand, "Candidate updated successfully")
}

// UpdateStatus handles PUT /candidates/:id/status. Hiring goes through the
// hire endpoint instead.
//
// @Summary      Update candidate status
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Candidate id"
// @Param        body  body      candidateStatusRequest  true  "New status"
// @Success      200   {object}  Envelope{data=domain.Candidate}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /candidates/{id}/status [put]
func (h *CandidateHandler) UpdateStatus(c echo.Context) error {
	var req candidateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cand, err := h.candidates.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return ok(c, cand, "Candidate status updated successfully")
}

// Resume handles GET /candidates/:id/resume.
//
// @Summary      Get the resume URL
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Candidate id"
// @Success      200  {object}  Envelope{data=documentResponse}
// @Failure      404  {object}  Envelope
// @Router       /candidates/{id}/resume [get]
func (h *CandidateHandler) Resume(c echo.Context) error {
	url, err := h.candidates.ResumeURL(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, documentResponse{URL: url}, "Resume URL generated")
}

// Delete handles DELETE /candidates/:id.
//
// @Summary      Delete a candidate
// @Tags         candidates
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Candidate id"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /candidates/{id} [delete]
func (h *CandidateHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.candidates.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return ok(c, map[string]any{}, "Candidate deleted successfully")
}

// Hire handles POST /candidates/:id/hire and returns the new employee.
//
// @Summary      Hire a candidate
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Candidate id"
// @Param        body  body      hireRequest  true  "Offer"
// @Success      201   {object}  Envelope{data=domain.Employee}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /candidates/{id}/hire [post]
func (h *CandidateHandler) Hire(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req hireRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	emp, err := h.candidates.Hire(c.Request().Context(), actor, c.Param("id"), req.Salary)
	if err != nil {
		return err
	}
	return created(c, emp, "Candidate hired successfully")
}
