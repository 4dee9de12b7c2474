package ports

import (
	"context"
	"time"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// ApplyLeaveInput is the DTO passed from the transport layer to LeaveService.
// Either LeaveDate or both StartDate and EndDate must be set.
type ApplyLeaveInput struct {
	EmployeeID string
	LeaveDate  time.Time
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
	Document   *FileUpload // optional
}

// LeavePolicy tunes the approval rules of the leave lifecycle.
type LeavePolicy struct {
	// RequireApproverRole restricts transitions to hr and admin actors.
	RequireApproverRole bool
	// LockDecided makes Approved and Rejected terminal.
	LockDecided bool
}

// LeaveService manages the leave request lifecycle.
type LeaveService interface {
	Apply(ctx context.Context, actor domain.Actor, in ApplyLeaveInput) (*domain.Leave, error)
	Transition(ctx context.Context, actor domain.Actor, id string, status string) (*domain.Leave, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Get(ctx context.Context, id string) (*domain.LeaveView, error)
	List(ctx context.Context) ([]*domain.LeaveView, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.LeaveView, error)
	DocumentURL(ctx context.Context, id string) (string, error)
}
