package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

type CandidateService struct {
	candidates ports.CandidateRepository
	employees  ports.EmployeeRepository
	blobs      ports.BlobStore
	releaser   ports.DeferredReleaser
	logger     zerolog.Logger
}

func NewCandidateService(
	candidates ports.CandidateRepository,
	employees ports.EmployeeRepository,
	blobs ports.BlobStore,
	releaser ports.DeferredReleaser,
	logger zerolog.Logger,
) *CandidateService {
	return &CandidateService{
		candidates: candidates,
		employees:  employees,
		blobs:      blobs,
		releaser:   releaser,
		logger:     logger,
	}
}

// Add stores a new candidate. A resume is mandatory and is uploaded before
// the record is written.
func (s *CandidateService) Add(ctx context.Context, actor domain.Actor, in ports.CreateCandidateInput) (*domain.Candidate, error) {
	now := time.Now().UTC()
	c := &domain.Candidate{
		FullName:      strings.TrimSpace(in.FullName),
		Email:         normalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		Position:      strings.TrimSpace(in.Position),
		Department:    strings.TrimSpace(in.Department),
		Experience:    in.Experience,
		DateOfJoining: in.DateOfJoining,
		Status:        domain.CandidateStatusNew,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := validateCandidate(c); err != nil {
		return nil, err
	}
	if in.Resume == nil {
		return nil, invalid("resume file is required")
	}

	resumeID, err := uploadFile(ctx, s.blobs, in.Resume, "resume")
	if err != nil {
		return nil, err
	}
	c.ResumePublicID = resumeID

	created, err := s.candidates.Create(ctx, c)
	if err != nil {
		releaseLater(s.releaser, resumeID, "candidate create failed")
		return nil, storeErr("add candidate", err)
	}

	s.logger.Info().Str("candidate_id", created.ID).Str("created_by", actor.ID).Msg("candidate added")
	return created, nil
}

func (s *CandidateService) List(ctx context.Context) ([]*domain.Candidate, error) {
	list, err := s.candidates.List(ctx)
	if err != nil {
		return nil, storeErr("list candidates", err)
	}
	return list, nil
}

// Update applies a partial update. Only the creator may update.
func (s *CandidateService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateCandidateInput) (*domain.Candidate, error) {
	c, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("update candidate", err)
	}
	if !domain.CanModify(actor, c) {
		return nil, domain.Errorf(domain.KindForbidden, "unauthorized to update this candidate")
	}
	// A hired candidate's resume is shared with the employee record.
	if in.Resume != nil && c.Hired() {
		return nil, domain.Errorf(domain.KindConflict, "resume of a hired candidate belongs to the employee record")
	}

	applyString(&c.FullName, in.FullName)
	applyString(&c.Phone, in.Phone)
	applyString(&c.Position, in.Position)
	applyString(&c.Department, in.Department)
	if in.Email != nil {
		c.Email = normalizeEmail(*in.Email)
	}
	if in.Experience != nil {
		c.Experience = *in.Experience
	}
	if in.DateOfJoining != nil {
		c.DateOfJoining = *in.DateOfJoining
	}
	if err := validateCandidate(c); err != nil {
		return nil, err
	}

	oldResume := c.ResumePublicID
	newResume, err := uploadFile(ctx, s.blobs, in.Resume, "resume")
	if err != nil {
		return nil, err
	}
	if newResume != "" {
		c.ResumePublicID = newResume
	}
	c.UpdatedAt = time.Now().UTC()

	if err := s.candidates.Update(ctx, c); err != nil {
		releaseLater(s.releaser, newResume, "candidate update failed")
		return nil, storeErr("update candidate", err)
	}
	if newResume != "" {
		releaseLater(s.releaser, oldResume, "resume replaced")
	}

	s.logger.Info().Str("candidate_id", c.ID).Msg("candidate updated")
	return c, nil
}

// UpdateStatus sets a free-text pipeline status. Hired is reserved for Hire.
func (s *CandidateService) UpdateStatus(ctx context.Context, id, status string) (*domain.Candidate, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, invalid("status is required")
	}
	if strings.EqualFold(status, domain.CandidateStatusHired) {
		return nil, invalid("use the hire operation to mark a candidate as hired")
	}

	c, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("update candidate status", err)
	}
	if c.Hired() {
		return nil, domain.ErrCandidateHired
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	if err := s.candidates.Update(ctx, c); err != nil {
		return nil, storeErr("update candidate status", err)
	}

	s.logger.Info().Str("candidate_id", id).Str("status", status).Msg("candidate status updated")
	return c, nil
}

func (s *CandidateService) ResumeURL(ctx context.Context, id string) (string, error) {
	c, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return "", storeErr("candidate resume", err)
	}
	if c.ResumePublicID == "" {
		return "", domain.ErrDocumentNotFound
	}
	url, err := s.blobs.URL(ctx, c.ResumePublicID)
	if err != nil {
		return "", domain.Wrap(domain.KindDependencyFailure, "error generating resume link", err)
	}
	return url, nil
}

// Delete removes a candidate. Only the creator may delete. The resume is
// released unless the candidate was hired.
func (s *CandidateService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	c, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return storeErr("delete candidate", err)
	}
	if !domain.CanModify(actor, c) {
		return domain.Errorf(domain.KindForbidden, "unauthorized to delete this candidate")
	}
	if !c.Hired() {
		if err := releaseFile(ctx, s.blobs, c.ResumePublicID, "resume"); err != nil {
			return err
		}
	}
	if err := s.candidates.Delete(ctx, id); err != nil {
		return storeErr("delete candidate", err)
	}

	s.logger.Info().Str("candidate_id", id).Str("deleted_by", actor.ID).Msg("candidate deleted")
	return nil
}

// Hire creates an employee from the candidate and marks the candidate Hired.
// The resume reference moves to the employee.
func (s *CandidateService) Hire(ctx context.Context, actor domain.Actor, id string, salary float64) (*domain.Employee, error) {
	if salary < 0 {
		return nil, invalid("salary must not be negative")
	}
	c, err := s.candidates.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("hire candidate", err)
	}
	if c.Hired() {
		return nil, domain.ErrCandidateHired
	}

	now := time.Now().UTC()
	employee, err := s.employees.Create(ctx, &domain.Employee{
		FullName:       c.FullName,
		Email:          c.Email,
		Phone:          c.Phone,
		Position:       c.Position,
		Department:     c.Department,
		Experience:     c.Experience,
		Salary:         salary,
		DateOfJoining:  c.DateOfJoining,
		ResumePublicID: c.ResumePublicID,
		CandidateID:    c.ID,
		Attendance:     domain.Ledger{},
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return nil, storeErr("hire candidate", err)
	}

	c.Status = domain.CandidateStatusHired
	c.UpdatedAt = now
	if err := s.candidates.Update(ctx, c); err != nil {
		// Undo the employee so the hire is all-or-nothing.
		if delErr := s.employees.Delete(ctx, employee.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("employee_id", employee.ID).Msg("failed to roll back hired employee")
		}
		return nil, storeErr("hire candidate", err)
	}

	s.logger.Info().Str("candidate_id", c.ID).Str("employee_id", employee.ID).Msg("candidate hired")
	return employee, nil
}

func validateCandidate(c *domain.Candidate) error {
	switch {
	case c.FullName == "", c.Email == "", c.Phone == "", c.Position == "", c.Department == "":
		return invalid("fullName, email, phone, position and department are required")
	case c.DateOfJoining.IsZero():
		return invalid("please provide date of joining")
	case c.Experience < 0:
		return invalid("experience must not be negative")
	}
	return nil
}
