package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// --- Identity ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=hr admin"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// --- Employees and candidates (multipart forms) ---

type employeeForm struct {
	FullName      string  `form:"fullName"      validate:"required"`
	Email         string  `form:"email"         validate:"required,email"`
	Phone         string  `form:"phone"         validate:"required"`
	Position      string  `form:"position"      validate:"required"`
	Department    string  `form:"department"    validate:"required"`
	Experience    float64 `form:"experience"    validate:"gte=0"`
	Salary        float64 `form:"salary"        validate:"gte=0"`
	DateOfJoining string  `form:"dateOfJoining" validate:"required"`
}

type candidateForm struct {
	FullName      string  `form:"fullName"      validate:"required"`
	Email         string  `form:"email"         validate:"required,email"`
	Phone         string  `form:"phone"         validate:"required"`
	Position      string  `form:"position"      validate:"required"`
	Department    string  `form:"department"    validate:"required"`
	Experience    float64 `form:"experience"    validate:"gte=0"`
	DateOfJoining string  `form:"dateOfJoining" validate:"required"`
}

type hireRequest struct {
	Salary float64 `json:"salary" validate:"gte=0"`
}

type candidateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// --- Attendance ---

type attendanceRequest struct {
	Date   string `json:"date"   validate:"required"`
	Status string `json:"status" validate:"required,oneof=Present Absent"`
	Note   string `json:"note"`
}

// --- Leaves ---

type leaveForm struct {
	EmployeeID string `form:"employeeId" validate:"required"`
	LeaveDate  string `form:"leaveDate"`
	StartDate  string `form:"startDate"`
	EndDate    string `form:"endDate"`
	Reason     string `form:"reason"     validate:"required"`
}

type leaveStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

type documentResponse struct {
	URL string `json:"url"`
}

// patchForm reads optional fields of a multipart update. A key that is not
// sent leaves the stored value unchanged.
type patchForm struct {
	values url.Values
	err    error
}

func newPatchForm(c echo.Context) (*patchForm, error) {
	values, err := c.FormParams()
	if err != nil {
		return nil, domain.Errorf(domain.KindInvalidArgument, "invalid form payload")
	}
	return &patchForm{values: values}, nil
}

func (f *patchForm) str(key string) *string {
	if _, ok := f.values[key]; !ok {
		return nil
	}
	v := f.values.Get(key)
	return &v
}

func (f *patchForm) float(key string) *float64 {
	s := f.str(key)
	if s == nil || f.err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		f.err = domain.Errorf(domain.KindInvalidArgument, "%s must be a number", key)
		return nil
	}
	return &v
}

func (f *patchForm) date(key string) *time.Time {
	s := f.str(key)
	if s == nil || f.err != nil {
		return nil
	}
	v, err := parseDate(key, *s)
	if err != nil {
		f.err = err
		return nil
	}
	return &v
}

// parseDate parses a required date field.
func parseDate(field, s string) (time.Time, error) {
	t, err := domain.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, domain.Errorf(domain.KindInvalidArgument, "%s must be a date (YYYY-MM-DD)", field)
	}
	return t, nil
}

// parseOptionalDate returns the zero time for an empty field.
func parseOptionalDate(field, s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return parseDate(field, s)
}
