package ports

import (
	"context"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// EmployeeRepository defines persistence operations for employees.
type EmployeeRepository interface {
	// Create inserts e and returns it with its assigned ID.
	// A duplicate email yields domain.ErrEmployeeExists.
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]*domain.Employee, error)
	// Update persists the profile fields of e. The attendance ledger is left
	// untouched so that concurrent marks are not overwritten.
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id string) error
	// UpsertAttendance records entry for its calendar day, replacing any entry
	// already stored for that day, and returns the resulting ledger.
	UpsertAttendance(ctx context.Context, employeeID string, entry domain.AttendanceEntry) (domain.Ledger, error)
}

// CandidateRepository defines persistence operations for candidates.
type CandidateRepository interface {
	// Create inserts c and returns it with its assigned ID.
	// A duplicate email yields domain.ErrCandidateExists.
	Create(ctx context.Context, c *domain.Candidate) (*domain.Candidate, error)
	FindByID(ctx context.Context, id string) (*domain.Candidate, error)
	List(ctx context.Context) ([]*domain.Candidate, error)
	Update(ctx context.Context, c *domain.Candidate) error
	Delete(ctx context.Context, id string) error
}
