package mongo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/peoplehub/hr-service/internal/core/domain"
)

// These tests need a reachable MongoDB; set TEST_MONGO_URI to run them. Each
// test works in its own throwaway database.
func newTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	name := fmt.Sprintf("hr_test_%d", time.Now().UnixNano())
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(ctx, db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func utcDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedEmployee(t *testing.T, repo *EmployeeRepository, email string) *domain.Employee {
	t.Helper()
	now := time.Now().UTC()
	e, err := repo.Create(context.Background(), &domain.Employee{
		FullName:      "Jane Doe",
		Email:         email,
		Phone:         "555-0100",
		Position:      "Engineer",
		Department:    "R&D",
		DateOfJoining: utcDay("2023-06-01"),
		CreatedBy:     primitive.NewObjectID().Hex(),
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	return e
}

func TestEmployeeRepository_UpsertAttendance_SameDayOverwrites(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))
	ctx := context.Background()
	e := seedEmployee(t, repo, "same-day@example.com")

	_, err := repo.UpsertAttendance(ctx, e.ID, domain.AttendanceEntry{
		Date: utcDay("2024-01-10").Add(9 * time.Hour), Status: domain.AttendancePresent, Note: "onsite",
	})
	require.NoError(t, err)
	ledger, err := repo.UpsertAttendance(ctx, e.ID, domain.AttendanceEntry{
		Date: utcDay("2024-01-10").Add(17 * time.Hour), Status: domain.AttendanceAbsent,
	})
	require.NoError(t, err)

	require.Len(t, ledger, 1)
	assert.Equal(t, domain.AttendanceAbsent, ledger[0].Status)
	assert.Empty(t, ledger[0].Note)
	assert.True(t, ledger[0].Date.Equal(utcDay("2024-01-10")))

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Attendance, 1)
}

func TestEmployeeRepository_UpsertAttendance_DistinctDaysAppend(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))
	ctx := context.Background()
	e := seedEmployee(t, repo, "two-days@example.com")

	_, err := repo.UpsertAttendance(ctx, e.ID, domain.AttendanceEntry{Date: utcDay("2024-01-10"), Status: domain.AttendancePresent})
	require.NoError(t, err)
	ledger, err := repo.UpsertAttendance(ctx, e.ID, domain.AttendanceEntry{Date: utcDay("2024-01-11"), Status: domain.AttendanceAbsent})
	require.NoError(t, err)

	require.Len(t, ledger, 2)
	assert.True(t, ledger.HasPresent())
}

func TestEmployeeRepository_UpsertAttendance_ConcurrentMarksKeepOneEntry(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))
	ctx := context.Background()
	e := seedEmployee(t, repo, "race@example.com")

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		status := domain.AttendancePresent
		if i%2 == 1 {
			status = domain.AttendanceAbsent
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.UpsertAttendance(ctx, e.ID, domain.AttendanceEntry{Date: utcDay("2024-02-01"), Status: status})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Attendance, 1)
}

func TestEmployeeRepository_UpsertAttendance_UnknownEmployee(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))
	_, err := repo.UpsertAttendance(context.Background(), primitive.NewObjectID().Hex(),
		domain.AttendanceEntry{Date: utcDay("2024-01-10"), Status: domain.AttendancePresent})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestLeaveRepository_UpdateStatus_CompareAndSet(t *testing.T) {
	db := newTestDB(t)
	employees := NewEmployeeRepository(db)
	leaves := NewLeaveRepository(db)
	ctx := context.Background()

	e := seedEmployee(t, employees, "leave@example.com")
	now := time.Now().UTC()
	l, err := leaves.Create(ctx, &domain.Leave{
		EmployeeID: e.ID,
		Period:     domain.LeavePeriod{Start: utcDay("2024-01-20"), End: utcDay("2024-01-20")},
		Reason:     "Family",
		Status:     domain.LeavePending,
		CreatedBy:  e.CreatedBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	require.NoError(t, err)

	first := primitive.NewObjectID().Hex()
	decided, err := leaves.UpdateStatus(ctx, l.ID, domain.LeavePending, domain.LeaveApproved, first, now)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, decided.Status)
	assert.Equal(t, first, decided.ApprovedBy)

	_, err = leaves.UpdateStatus(ctx, l.ID, domain.LeavePending, domain.LeaveRejected, primitive.NewObjectID().Hex(), now)
	assert.ErrorIs(t, err, domain.ErrLeaveDecided)

	stored, err := leaves.FindByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, stored.Status, "a lost compare-and-set must not change the leave")
	assert.Equal(t, first, stored.ApprovedBy)

	_, err = leaves.UpdateStatus(ctx, primitive.NewObjectID().Hex(), domain.LeavePending, domain.LeaveApproved, first, now)
	assert.ErrorIs(t, err, domain.ErrLeaveNotFound)

	// Without an expected status a decided leave can be re-decided.
	redecided, err := leaves.UpdateStatus(ctx, l.ID, "", domain.LeaveRejected, first, now)
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveRejected, redecided.Status)
}
