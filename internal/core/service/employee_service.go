package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

type EmployeeService struct {
	repo     ports.EmployeeRepository
	blobs    ports.BlobStore
	releaser ports.DeferredReleaser
	logger   zerolog.Logger
}

func NewEmployeeService(repo ports.EmployeeRepository, blobs ports.BlobStore, releaser ports.DeferredReleaser, logger zerolog.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, blobs: blobs, releaser: releaser, logger: logger}
}

// Create stores a new employee owned by actor. The resume, when present, is
// uploaded before the record is written.
func (s *EmployeeService) Create(ctx context.Context, actor domain.Actor, in ports.CreateEmployeeInput) (*domain.Employee, error) {
	now := time.Now().UTC()
	e := &domain.Employee{
		FullName:      strings.TrimSpace(in.FullName),
		Email:         normalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Position:      strings.TrimSpace(in.Position),
		Department:    strings.TrimSpace(in.Department),
		Experience:    in.Experience,
		Salary:        in.Salary,
		DateOfJoining: in.DateOfJoining,
		Attendance:    domain.Ledger{},
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateEmployee(e); err != nil {
		return nil, err
	}

	resumeID, err := uploadFile(ctx, s.blobs, in.Resume, "resume")
	if err != nil {
		return nil, err
	}
	e.ResumePublicID = resumeID

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		releaseLater(s.releaser, resumeID, "employee create failed")
		return nil, storeErr("create employee", err)
	}

	s.logger.Info().Str("employee_id", created.ID).Str("created_by", actor.ID).Msg("employee created")
	return created, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("get employee", err)
	}
	return e, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeErr("list employees", err)
	}
	return list, nil
}

// Update applies a partial update. Only the creator may update. A replaced
// resume is released only after the new one is uploaded and the record saved.
func (s *EmployeeService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateEmployeeInput) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("update employee", err)
	}
	if !domain.CanModify(actor, e) {
		return nil, domain.Errorf(domain.KindForbidden, "unauthorized to update this employee")
	}

	applyString(&e.FullName, in.FullName)
	applyString(&e.Phone, in.Phone)
	applyString(&e.Position, in.Position)
	applyString(&e.Department, in.Department)
	if in.Email != nil {
		e.Email = normalizeEmail(*in.Email)
	}
	if in.Experience != nil {
		e.Experience = *in.Experience
	}
	if in.Salary != nil {
		e.Salary = *in.Salary
	}
	if in.DateOfJoining != nil {
		e.DateOfJoining = *in.DateOfJoining
	}
	if err := validateEmployee(e); err != nil {
		return nil, err
	}

	oldResume := e.ResumePublicID
	newResume, err := uploadFile(ctx, s.blobs, in.Resume, "resume")
	if err != nil {
		return nil, err
	}
	if newResume != "" {
		e.ResumePublicID = newResume
	}
	e.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, e); err != nil {
		releaseLater(s.releaser, newResume, "employee update failed")
		return nil, storeErr("update employee", err)
	}
	if newResume != "" {
		releaseLater(s.releaser, oldResume, "resume replaced")
	}

	s.logger.Info().Str("employee_id", e.ID).Msg("employee updated")
	return e, nil
}

// Delete removes an employee. Only the creator may delete. The resume is
// released first; if that fails the record is kept.
func (s *EmployeeService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr("delete employee", err)
	}
	if !domain.CanModify(actor, e) {
		return domain.Errorf(domain.KindForbidden, "unauthorized to delete this employee")
	}
	if err := releaseFile(ctx, s.blobs, e.ResumePublicID, "resume"); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete employee", err)
	}

	s.logger.Info().Str("employee_id", id).Str("deleted_by", actor.ID).Msg("employee deleted")
	return nil
}

func validateEmployee(e *domain.Employee) error {
	switch {
	case e.FullName == "", e.Email == "", e.Phone == "", e.Position == "", e.Department == "":
		return invalid("fullName, email, phone, position and department are required")
	case e.DateOfJoining.IsZero():
		return invalid("please provide date of joining")
	case e.Experience < 0 || e.Salary < 0:
		return invalid("experience and salary must not be negative")
	}
	return nil
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
