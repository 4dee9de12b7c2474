package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

func newTestEmployeeService() (*EmployeeService, *stubEmployeeRepo, *stubBlobStore, *stubReleaser) {
	repo := newStubEmployeeRepo()
	blobs := newStubBlobStore()
	releaser := &stubReleaser{}
	return NewEmployeeService(repo, blobs, releaser, zerolog.Nop()), repo, blobs, releaser
}

func validCreateInput() ports.CreateEmployeeInput {
	return ports.CreateEmployeeInput{
		FullName:      "Jane Doe",
		Email:         "Jane@Example.com",
		Phone:         "555-0100",
		Position:      "Engineer",
		Department:    "R&D",
		Experience:    3,
		Salary:        1000,
		DateOfJoining: mustDay("2023-06-01"),
	}
}

func TestEmployeeService_Create_Success(t *testing.T) {
	svc, _, blobs, _ := newTestEmployeeService()
	in := validCreateInput()
	in.Resume = pdf("cv.pdf")

	e, err := svc.Create(context.Background(), hrActor, in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected an id to be assigned")
	}
	if e.CreatedBy != hrActor.ID {
		t.Fatalf("expected createdBy %s, got %s", hrActor.ID, e.CreatedBy)
	}
	if e.Email != "jane@example.com" {
		t.Fatalf("expected normalised email, got %s", e.Email)
	}
	if e.ResumePublicID == "" || !blobs.has(e.ResumePublicID) {
		t.Fatalf("expected resume to be uploaded, got %q", e.ResumePublicID)
	}
	if len(e.Attendance) != 0 {
		t.Fatalf("expected empty ledger")
	}
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	svc, _, _, _ := newTestEmployeeService()

	in := validCreateInput()
	in.Phone = "   "
	if _, err := svc.Create(context.Background(), hrActor, in); domain.KindOf(err) != domain.KindInvalidArgument {
		t.Fatalf("expected invalid argument for blank phone, got %v", err)
	}

	in = validCreateInput()
	in.Salary = -1
	if _, err := svc.Create(context.Background(), hrActor, in); domain.KindOf(err) != domain.KindInvalidArgument {
		t.Fatalf("expected invalid argument for negative salary, got %v", err)
	}
}

func TestEmployeeService_Create_UploadFailure(t *testing.T) {
	svc, repo, blobs, _ := newTestEmployeeService()
	blobs.uploadErr = errors.New("s3 down")
	in := validCreateInput()
	in.Resume = pdf("cv.pdf")

	_, err := svc.Create(context.Background(), hrActor, in)
	if domain.KindOf(err) != domain.KindDependencyFailure {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("no record must be written when the upload fails")
	}
}

func TestEmployeeService_Create_StoreFailureQueuesRelease(t *testing.T) {
	svc, repo, _, releaser := newTestEmployeeService()
	repo.createErr = errStoreDown
	in := validCreateInput()
	in.Resume = pdf("cv.pdf")

	_, err := svc.Create(context.Background(), hrActor, in)
	if domain.KindOf(err) != domain.KindDependencyFailure {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if len(releaser.queued) != 1 {
		t.Fatalf("expected orphaned resume to be queued for release, got %v", releaser.queued)
	}
}

func TestEmployeeService_Create_DuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestEmployeeService()
	if _, err := svc.Create(context.Background(), hrActor, validCreateInput()); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}
	_, err := svc.Create(context.Background(), hrActor, validCreateInput())
	if !errors.Is(err, domain.ErrEmployeeExists) {
		t.Fatalf("expected ErrEmployeeExists, got %v", err)
	}
}

func TestEmployeeService_Update_OnlyCreator(t *testing.T) {
	svc, _, _, _ := newTestEmployeeService()
	e, _ := svc.Create(context.Background(), hrActor, validCreateInput())

	name := "Someone Else"
	_, err := svc.Update(context.Background(), adminActor, e.ID, ports.UpdateEmployeeInput{FullName: &name})
	if domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected forbidden for a non-creator, even admin; got %v", err)
	}
}

func TestEmployeeService_Update_ReplacesResume(t *testing.T) {
	svc, repo, _, releaser := newTestEmployeeService()
	in := validCreateInput()
	in.Resume = pdf("old.pdf")
	e, _ := svc.Create(context.Background(), hrActor, in)
	repo.put(func() *domain.Employee {
		stored, _ := repo.FindByID(context.Background(), e.ID)
		stored.Attendance = domain.Ledger{{Date: mustDay("2024-01-10"), Status: domain.AttendancePresent}}
		return stored
	}())

	salary := 2000.0
	updated, err := svc.Update(context.Background(), hrActor, e.ID, ports.UpdateEmployeeInput{Salary: &salary, Resume: pdf("new.pdf")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Salary != 2000 || updated.ResumePublicID == e.ResumePublicID {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if len(releaser.queued) != 1 || releaser.queued[0] != e.ResumePublicID {
		t.Fatalf("expected old resume %s to be queued, got %v", e.ResumePublicID, releaser.queued)
	}

	stored, _ := repo.FindByID(context.Background(), e.ID)
	if len(stored.Attendance) != 1 {
		t.Fatalf("profile update must not touch the attendance ledger")
	}
}

func TestEmployeeService_Delete(t *testing.T) {
	svc, repo, blobs, _ := newTestEmployeeService()
	in := validCreateInput()
	in.Resume = pdf("cv.pdf")
	e, _ := svc.Create(context.Background(), hrActor, in)

	if err := svc.Delete(context.Background(), adminActor, e.ID); domain.KindOf(err) != domain.KindForbidden {
		t.Fatalf("expected forbidden for non-creator, got %v", err)
	}
	if err := svc.Delete(context.Background(), hrActor, e.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if blobs.has(e.ResumePublicID) {
		t.Fatalf("expected resume to be released")
	}
	if _, err := repo.FindByID(context.Background(), e.ID); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("expected record to be gone, got %v", err)
	}
}

func TestEmployeeService_Delete_KeepsRecordWhenReleaseFails(t *testing.T) {
	svc, repo, blobs, _ := newTestEmployeeService()
	in := validCreateInput()
	in.Resume = pdf("cv.pdf")
	e, _ := svc.Create(context.Background(), hrActor, in)
	blobs.releaseErr = errors.New("s3 down")

	err := svc.Delete(context.Background(), hrActor, e.ID)
	if domain.KindOf(err) != domain.KindDependencyFailure {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), e.ID); err != nil {
		t.Fatalf("record must survive a failed release: %v", err)
	}
}

func TestEmployeeService_Get_NotFound(t *testing.T) {
	svc, _, _, _ := newTestEmployeeService()
	if _, err := svc.Get(context.Background(), "missing"); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
