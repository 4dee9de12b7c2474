package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/peoplehub/hr-service/internal/core/domain"
	"github.com/peoplehub/hr-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var errStoreDown = errors.New("connection refused")

type stubEmployeeRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*domain.Employee
	createErr error
	updateErr error
	deleted   []string
}

func newStubEmployeeRepo() *stubEmployeeRepo {
	return &stubEmployeeRepo{byID: make(map[string]*domain.Employee)}
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	c := *e
	c.Attendance = append(domain.Ledger(nil), e.Attendance...)
	return &c
}

func (r *stubEmployeeRepo) put(e *domain.Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[e.ID] = cloneEmployee(e)
}

func (r *stubEmployeeRepo) Create(_ context.Context, e *domain.Employee) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == e.Email {
			return nil, domain.ErrEmployeeExists
		}
	}
	r.seq++
	c := cloneEmployee(e)
	c.ID = fmt.Sprintf("emp%d", r.seq)
	r.byID[c.ID] = c
	return cloneEmployee(c), nil
}

func (r *stubEmployeeRepo) FindByID(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	return cloneEmployee(e), nil
}

func (r *stubEmployeeRepo) List(_ context.Context) ([]*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Employee, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, cloneEmployee(e))
	}
	return out, nil
}

func (r *stubEmployeeRepo) Update(_ context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.byID[e.ID]
	if !ok {
		return domain.ErrEmployeeNotFound
	}
	c := cloneEmployee(e)
	c.Attendance = stored.Attendance
	r.byID[e.ID] = c
	return nil
}

func (r *stubEmployeeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrEmployeeNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *stubEmployeeRepo) UpsertAttendance(_ context.Context, id string, entry domain.AttendanceEntry) (domain.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEmployeeNotFound
	}
	e.Attendance = e.Attendance.Upsert(entry)
	return append(domain.Ledger(nil), e.Attendance...), nil
}

type stubLeaveRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*domain.Leave
	employees *stubEmployeeRepo
	createErr error
}

func newStubLeaveRepo(employees *stubEmployeeRepo) *stubLeaveRepo {
	return &stubLeaveRepo{byID: make(map[string]*domain.Leave), employees: employees}
}

func (r *stubLeaveRepo) Create(_ context.Context, l *domain.Leave) (*domain.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	c := *l
	c.ID = fmt.Sprintf("leave%d", r.seq)
	r.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (r *stubLeaveRepo) FindByID(_ context.Context, id string) (*domain.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLeaveNotFound
	}
	c := *l
	return &c, nil
}

func (r *stubLeaveRepo) view(l *domain.Leave) *domain.LeaveView {
	v := &domain.LeaveView{Leave: *l}
	if e, err := r.employees.FindByID(context.Background(), l.EmployeeID); err == nil {
		v.Employee = &domain.EmployeeSummary{ID: e.ID, FullName: e.FullName, Email: e.Email, Department: e.Department}
	}
	if l.ApprovedBy != "" {
		v.Approver = &domain.UserSummary{ID: l.ApprovedBy}
	}
	return v
}

func (r *stubLeaveRepo) View(_ context.Context, id string) (*domain.LeaveView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLeaveNotFound
	}
	return r.view(l), nil
}

func (r *stubLeaveRepo) List(_ context.Context) ([]*domain.LeaveView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.LeaveView, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, r.view(l))
	}
	return out, nil
}

func (r *stubLeaveRepo) ListByEmployee(_ context.Context, employeeID string) ([]*domain.LeaveView, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.LeaveView{}
	for _, l := range r.byID {
		if l.EmployeeID == employeeID {
			out = append(out, r.view(l))
		}
	}
	return out, nil
}

func (r *stubLeaveRepo) UpdateStatus(_ context.Context, id string, expect, status domain.LeaveStatus, approvedBy string, at time.Time) (*domain.Leave, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLeaveNotFound
	}
	if expect != "" && l.Status != expect {
		return nil, domain.ErrLeaveDecided
	}
	l.Status = status
	l.ApprovedBy = approvedBy
	l.UpdatedAt = at
	c := *l
	return &c, nil
}

func (r *stubLeaveRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrLeaveNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubCandidateRepo struct {
	mu        sync.Mutex
	seq       int
	byID      map[string]*domain.Candidate
	updateErr error
}

func newStubCandidateRepo() *stubCandidateRepo {
	return &stubCandidateRepo{byID: make(map[string]*domain.Candidate)}
}

func (r *stubCandidateRepo) Create(_ context.Context, c *domain.Candidate) (*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	cp := *c
	cp.ID = fmt.Sprintf("cand%d", r.seq)
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *stubCandidateRepo) FindByID(_ context.Context, id string) (*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCandidateRepo) List(_ context.Context) ([]*domain.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Candidate, 0, len(r.byID))
	for _, c := range r.byID {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r *stubCandidateRepo) Update(_ context.Context, c *domain.Candidate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCandidateNotFound
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *stubCandidateRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCandidateNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Blob store and releaser
// ---------------------------------------------------------------------------

type stubBlobStore struct {
	mu         sync.Mutex
	seq        int
	objects    map[string]string // publicID -> original filename
	released   []string
	uploadErr  error
	releaseErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{objects: make(map[string]string)}
}

func (b *stubBlobStore) Upload(_ context.Context, f ports.FileUpload) (*ports.BlobRef, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return nil, b.uploadErr
	}
	b.seq++
	id := fmt.Sprintf("blob-%d", b.seq)
	b.objects[id] = f.Filename
	return &ports.BlobRef{PublicID: id, URL: "https://blobs.test/" + id}, nil
}

func (b *stubBlobStore) Release(_ context.Context, publicID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.releaseErr != nil {
		return b.releaseErr
	}
	delete(b.objects, publicID)
	b.released = append(b.released, publicID)
	return nil
}

func (b *stubBlobStore) URL(_ context.Context, publicID string) (string, error) {
	return "https://blobs.test/" + publicID + "?signed", nil
}

func (b *stubBlobStore) has(publicID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[publicID]
	return ok
}

type stubReleaser struct {
	mu      sync.Mutex
	queued  []string
	reasons []string
}

func (r *stubReleaser) ReleaseLater(publicID, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queued = append(r.queued, publicID)
	r.reasons = append(r.reasons, reason)
}

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User // by email
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return nil, domain.ErrUserExists
	}
	r.seq++
	c := *u
	c.ID = fmt.Sprintf("user%d", r.seq)
	r.users[c.Email] = &c
	out := c
	return &out, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubSessions struct {
	mu      sync.Mutex
	current map[string]string
	err     error
}

func newStubSessions() *stubSessions {
	return &stubSessions{current: make(map[string]string)}
}

func (s *stubSessions) Save(_ context.Context, userID, tokenID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.current[userID] = tokenID
	return nil
}

func (s *stubSessions) Rotate(_ context.Context, userID, expect, next string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.current[userID] != expect {
		return false, nil
	}
	s.current[userID] = next
	return true, nil
}

func (s *stubSessions) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.current, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	hrActor    = domain.Actor{ID: "hr1", Role: domain.RoleHR}
	adminActor = domain.Actor{ID: "admin1", Role: domain.RoleAdmin}
)

func mustDay(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleEmployee(id string, ledger domain.Ledger) *domain.Employee {
	return &domain.Employee{
		ID:            id,
		FullName:      "Jane Doe",
		Email:         id + "@example.com",
		Phone:         "555-0100",
		Position:      "Engineer",
		Department:    "R&D",
		DateOfJoining: mustDay("2023-06-01"),
		Attendance:    ledger,
		CreatedBy:     hrActor.ID,
	}
}

func pdf(name string) *ports.FileUpload {
	return &ports.FileUpload{Path: "/tmp/" + name, Filename: name, ContentType: "application/pdf"}
}
