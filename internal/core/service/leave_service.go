package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

type leaveService struct {
	leaves    ports.LeaveRepository
	employees ports.EmployeeRepository
	blobs     ports.BlobStore
	releaser  ports.DeferredReleaser
	policy    ports.LeavePolicy
	log       zerolog.Logger
}

// NewLeaveService returns a LeaveService implementation.
func NewLeaveService(
	leaves ports.LeaveRepository,
	employees ports.EmployeeRepository,
	blobs ports.BlobStore,
	releaser ports.DeferredReleaser,
	policy ports.LeavePolicy,
	log zerolog.Logger,
) ports.LeaveService {
	return &leaveService{
		leaves:    leaves,
		employees: employees,
		blobs:     blobs,
		releaser:  releaser,
		policy:    policy,
		log:       log,
	}
}

// Apply files a Pending leave for an employee with at least one Present day.
func (s *leaveService) Apply(ctx context.Context, actor domain.Actor, in ports.ApplyLeaveInput) (*domain.Leave, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.EmployeeID == "" || reason == "" {
		return nil, invalid("employeeId and reason are required")
	}
	period, err := domain.NewLeavePeriod(in.LeaveDate, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	// 1. Referenced employee must exist.
	employee, err := s.employees.FindByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, storeErr("apply leave", err)
	}

	// 2. Gate on demonstrated presence.
	if !employee.Attendance.HasPresent() {
		return nil, domain.ErrNoPresentAttendance
	}

	// 3. Upload before insert so a record never points at a missing document.
	docID, err := uploadFile(ctx, s.blobs, in.Document, "leave document")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.leaves.Create(ctx, &domain.Leave{
		EmployeeID:       employee.ID,
		Period:           period,
		Reason:           reason,
		DocumentPublicID: docID,
		Status:           domain.LeavePending,
		CreatedBy:        actor.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
	if err != nil {
		releaseLater(s.releaser, docID, "leave create failed")
		return nil, storeErr("apply leave", err)
	}

	s.log.Info().
		Str("leave_id", created.ID).
		Str("employee_id", created.EmployeeID).
		Int("days", period.Days()).
		Str("created_by", actor.ID).
		Msg("leave applied")
	return created, nil
}

// Transition moves a leave to Approved or Rejected and records the decider.
func (s *leaveService) Transition(ctx context.Context, actor domain.Actor, id, status string) (*domain.Leave, error) {
	next := domain.LeaveStatus(status)
	if !next.IsDecision() {
		return nil, invalid("valid status (Approved/Rejected) is required")
	}
	if s.policy.RequireApproverRole && !actor.CanApprove() {
		return nil, domain.Errorf(domain.KindForbidden, "only hr or admin users may decide leave requests")
	}

	leave, err := s.leaves.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("update leave status", err)
	}
	if !leave.Status.CanTransitionTo(next, s.policy.LockDecided) {
		return nil, domain.ErrLeaveDecided
	}

	var expect domain.LeaveStatus
	if s.policy.LockDecided {
		expect = domain.LeavePending
	}
	updated, err := s.leaves.UpdateStatus(ctx, id, expect, next, actor.ID, time.Now().UTC())
	if err != nil {
		return nil, storeErr("update leave status", err)
	}

	s.log.Info().
		Str("leave_id", id).
		Str("from", string(leave.Status)).
		Str("to", string(next)).
		Str("approved_by", actor.ID).
		Msg("leave status changed")
	return updated, nil
}

// Delete removes a leave. The creator or an admin may delete. The document is
// released first; if that fails the record is kept.
func (s *leaveService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	leave, err := s.leaves.FindByID(ctx, id)
	if err != nil {
		return storeErr("delete leave", err)
	}
	if !domain.CanModify(actor, leave) && !actor.IsAdmin() {
		return domain.Errorf(domain.KindForbidden, "unauthorized to delete this leave")
	}
	if err := releaseFile(ctx, s.blobs, leave.DocumentPublicID, "leave document"); err != nil {
		return err
	}
	if err := s.leaves.Delete(ctx, id); err != nil {
		return storeErr("delete leave", err)
	}

	s.log.Info().Str("leave_id", id).Str("deleted_by", actor.ID).Msg("leave deleted")
	return nil
}

func (s *leaveService) Get(ctx context.Context, id string) (*domain.LeaveView, error) {
	v, err := s.leaves.View(ctx, id)
	if err != nil {
		return nil, storeErr("get leave", err)
	}
	return v, nil
}

func (s *leaveService) List(ctx context.Context) ([]*domain.LeaveView, error) {
	list, err := s.leaves.List(ctx)
	if err != nil {
		return nil, storeErr("list leaves", err)
	}
	return list, nil
}

func (s *leaveService) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.LeaveView, error) {
	if _, err := s.employees.FindByID(ctx, employeeID); err != nil {
		return nil, storeErr("list employee leaves", err)
	}
	list, err := s.leaves.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, storeErr("list employee leaves", err)
	}
	return list, nil
}

// DocumentURL returns a time-limited link to the leave's supporting document.
func (s *leaveService) DocumentURL(ctx context.Context, id string) (string, error) {
	leave, err := s.leaves.FindByID(ctx, id)
	if err != nil {
		return "", storeErr("leave document", err)
	}
	if leave.DocumentPublicID == "" {
		return "", domain.ErrDocumentNotFound
	}
	url, err := s.blobs.URL(ctx, leave.DocumentPublicID)
	if err != nil {
		return "", domain.Wrap(domain.KindDependencyFailure, "error generating document link", err)
	}
	return url, nil
}
