package ports

import (
	"context"
	"time"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// LeaveRepository handles leave persistence and the reference joins used for
// display.
type LeaveRepository interface {
	Create(ctx context.Context, l *domain.Leave) (*domain.Leave, error)
	FindByID(ctx context.Context, id string) (*domain.Leave, error)
	// View returns the leave joined with employee and approver display fields.
	View(ctx context.Context, id string) (*domain.LeaveView, error)
	// List returns every leave joined with employee and approver display fields.
	List(ctx context.Context) ([]*domain.LeaveView, error)
	// ListByEmployee returns the employee's leaves joined with approver fields.
	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.LeaveView, error)
	// UpdateStatus sets the status and decider and returns the updated leave.
	// When expect is non-empty the write only applies while the stored status
	// still equals expect; otherwise domain.ErrLeaveDecided is returned.
	UpdateStatus(ctx context.Context, id string, expect, status domain.LeaveStatus, approvedBy string, at time.Time) (*domain.Leave, error)
	Delete(ctx context.Context, id string) error
}
