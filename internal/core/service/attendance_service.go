package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

// AttendanceService records and queries the per-day attendance ledger.
type AttendanceService struct {
	repo   ports.EmployeeRepository
	logger zerolog.Logger
}

func NewAttendanceService(repo ports.EmployeeRepository, logger zerolog.Logger) *AttendanceService {
	return &AttendanceService{repo: repo, logger: logger}
}

// Mark sets the employee's status for the calendar day of in.Date. Marking a
// day that is already recorded overwrites it.
func (s *AttendanceService) Mark(ctx context.Context, in ports.MarkAttendanceInput) (domain.Ledger, error) {
	if in.EmployeeID == "" {
		return nil, invalid("employee id is required")
	}
	if in.Date.IsZero() {
		return nil, invalid("date is required")
	}
	status := domain.AttendanceStatus(in.Status)
	if !status.Valid() {
		return nil, invalid("status must be either 'Present' or 'Absent'")
	}

	entry := domain.AttendanceEntry{
		Date:   domain.Day(in.Date),
		Status: status,
		Note:   strings.TrimSpace(in.Note),
	}
	ledger, err := s.repo.UpsertAttendance(ctx, in.EmployeeID, entry)
	if err != nil {
		return nil, storeErr("mark attendance", err)
	}

	s.logger.Info().
		Str("employee_id", in.EmployeeID).
		Time("date", entry.Date).
		Str("status", string(status)).
		Msg("attendance marked")
	return ledger.Sorted(), nil
}

// Query returns the ledger, or the entries within [Start, End] when either
// bound is given.
func (s *AttendanceService) Query(ctx context.Context, q ports.AttendanceQuery) (domain.Ledger, error) {
	e, err := s.repo.FindByID(ctx, q.EmployeeID)
	if err != nil {
		return nil, storeErr("get attendance", err)
	}
	if q.Start.IsZero() && q.End.IsZero() {
		return e.Attendance.Sorted(), nil
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		return nil, invalid("endDate must not be before startDate")
	}
	return e.Attendance.Between(q.Start, q.End), nil
}
