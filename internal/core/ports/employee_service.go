package ports

import (
	"context"
	"time"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// CreateEmployeeInput carries all data needed to create an employee.
type CreateEmployeeInput struct {
	FullName      string
	Email         string
	Phone         string
	Position      string
	Department    string
	Experience    float64
	Salary        float64
	DateOfJoining time.Time
	Resume        *FileUpload // optional
}

// UpdateEmployeeInput is a partial update; nil fields keep their value.
type UpdateEmployeeInput struct {
	FullName      *string
	Email         *string
	Phone         *string
	Position      *string
	Department    *string
	Experience    *float64
	Salary        *float64
	DateOfJoining *time.Time
	Resume        *FileUpload
}

// EmployeeService defines use-case operations for employee records.
type EmployeeService interface {
	Create(ctx context.Context, actor domain.Actor, in CreateEmployeeInput) (*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateEmployeeInput) (*domain.Employee, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

// MarkAttendanceInput records one day for one employee.
type MarkAttendanceInput struct {
	EmployeeID string
	Date       time.Time
	Status     string
	Note       string
}

// AttendanceQuery selects ledger entries. Both bounds are optional.
type AttendanceQuery struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
}

// AttendanceService maintains the per-employee attendance ledger.
type AttendanceService interface {
	Mark(ctx context.Context, in MarkAttendanceInput) (domain.Ledger, error)
	Query(ctx context.Context, q AttendanceQuery) (domain.Ledger, error)
}

// CreateCandidateInput carries all data needed to add a candidate.
type CreateCandidateInput struct {
	FullName      string
	Email         string
	Phone         string
	Position      string
	Department    string
	Experience    float64
	DateOfJoining time.Time
	Resume        *FileUpload // required
}

// UpdateCandidateInput is a partial update; nil fields keep their value.
type UpdateCandidateInput struct {
	FullName      *string
	Email         *string
	Phone         *string
	Position      *string
	Department    *string
	Experience    *float64
	DateOfJoining *time.Time
	Resume        *FileUpload
}

// CandidateService defines use-case operations for candidates.
type CandidateService interface {
	Add(ctx context.Context, actor domain.Actor, in CreateCandidateInput) (*domain.Candidate, error)
	List(ctx context.Context) ([]*domain.Candidate, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateCandidateInput) (*domain.Candidate, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Candidate, error)
	ResumeURL(ctx context.Context, id string) (string, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Hire(ctx context.Context, actor domain.Actor, id string, salary float64) (*domain.Employee, error)
}
