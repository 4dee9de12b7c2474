package domain

import "time"

// LeaveStatus represents the lifecycle state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "Pending"
	LeaveApproved LeaveStatus = "Approved"
	LeaveRejected LeaveStatus = "Rejected"
)

func (s LeaveStatus) Valid() bool {
	return s == LeavePending || s == LeaveApproved || s == LeaveRejected
}

// IsDecision reports whether s is a status a leave may be moved into.
// Pending is only ever an initial state.
func (s LeaveStatus) IsDecision() bool {
	return s == LeaveApproved || s == LeaveRejected
}

// CanTransitionTo reports whether a leave in s may move to next. With
// lockDecided set, Approved and Rejected are terminal; otherwise a decided
// leave may be re-decided.
func (s LeaveStatus) CanTransitionTo(next LeaveStatus, lockDecided bool) bool {
	if !next.IsDecision() {
		return false
	}
	if lockDecided {
		return s == LeavePending
	}
	return true
}

// LeavePeriod is an inclusive range of calendar days. A single-day leave has
// Start equal to End.
type LeavePeriod struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// NewLeavePeriod builds the canonical period from either a single leave date
// or a start/end pair. Exactly one of the two forms must be supplied.
func NewLeavePeriod(leaveDate, start, end time.Time) (LeavePeriod, error) {
	single := !leaveDate.IsZero()
	ranged := !start.IsZero() || !end.IsZero()

	switch {
	case single && ranged:
		return LeavePeriod{}, Errorf(KindInvalidArgument, "provide either leaveDate or startDate and endDate, not both")
	case single:
		d := Day(leaveDate)
		return LeavePeriod{Start: d, End: d}, nil
	case start.IsZero() || end.IsZero():
		return LeavePeriod{}, Errorf(KindInvalidArgument, "leaveDate or both startDate and endDate are required")
	}

	p := LeavePeriod{Start: Day(start), End: Day(end)}
	if p.End.Before(p.Start) {
		return LeavePeriod{}, Errorf(KindInvalidArgument, "endDate must not be before startDate")
	}
	return p, nil
}

// Days returns the number of calendar days covered.
func (p LeavePeriod) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Leave is a leave request filed for an employee.
type Leave struct {
	ID               string      `json:"id"`
	EmployeeID       string      `json:"employee"`
	Period           LeavePeriod `json:"period"`
	Reason           string      `json:"reason"`
	DocumentPublicID string      `json:"documentPublicId,omitempty"`
	Status           LeaveStatus `json:"status"`
	ApprovedBy       string      `json:"approvedBy,omitempty"`
	CreatedBy        string      `json:"createdBy"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

func (l *Leave) OwnerID() string { return l.CreatedBy }

// LeaveView is a leave joined with the display fields of the records it
// references. Either projection is nil when the referenced record is gone or
// was not requested.
type LeaveView struct {
	Leave
	Employee *EmployeeSummary `json:"employeeInfo,omitempty"`
	Approver *UserSummary     `json:"approverInfo,omitempty"`
}
