package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAttendanceRepo is an in-memory AttendanceRepository with the same
// conditional-write semantics as the postgresql implementation: every
// mutation checks its expected pre-state under the lock and loses with the
// matching domain error instead of overwriting.
type fakeAttendanceRepo struct {
	mu      sync.Mutex
	nextID  int
	records map[string]*attendance.Attendance
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]*attendance.Attendance)}
}

func (f *fakeAttendanceRepo) findByEmployeeAndDate(employeeID string, date time.Time) *attendance.Attendance {
	for _, rec := range f.records {
		if rec.EmployeeID == employeeID && rec.Date.Equal(date) {
			return rec
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findByEmployeeAndDate(att.EmployeeID, att.Date) != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyClockedIn
	}

	f.nextID++
	att.ID = fmt.Sprintf("att-%d", f.nextID)
	stored := att
	f.records[att.ID] = &stored
	return att, nil
}

func (f *fakeAttendanceRepo) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing := f.findByEmployeeAndDate(att.EmployeeID, att.Date); existing != nil {
		if existing.Processed() {
			return attendance.Attendance{}, attendance.ErrAlreadyProcessed
		}
		att.ID = existing.ID
		stored := att
		f.records[att.ID] = &stored
		return att, nil
	}

	f.nextID++
	att.ID = fmt.Sprintf("att-%d", f.nextID)
	stored := att
	f.records[att.ID] = &stored
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return *rec, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec := f.findByEmployeeAndDate(employeeID, date)
	if rec == nil {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (f *fakeAttendanceRepo) SetBreakStart(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok || rec.ClockIn == nil || rec.ClockOut != nil || rec.BreakStart != nil {
		return attendance.ErrStateConflict
	}
	rec.BreakStart = &at
	return nil
}

func (f *fakeAttendanceRepo) SetBreakEnd(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok || rec.BreakStart == nil || rec.BreakEnd != nil {
		return attendance.ErrStateConflict
	}
	rec.BreakEnd = &at
	return nil
}

func (f *fakeAttendanceRepo) SetClockOut(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok || rec.ClockOut != nil || (rec.BreakStart != nil && rec.BreakEnd == nil) {
		return attendance.ErrStateConflict
	}
	rec.ClockOut = &at
	return nil
}

func (f *fakeAttendanceRepo) SetApproval(ctx context.Context, id string, status attendance.ApprovalStatus, approvedBy string, approvedAt time.Time, notes *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[id]
	if !ok || rec.ApprovalStatus != attendance.ApprovalPending {
		return attendance.ErrStateConflict
	}
	rec.ApprovalStatus = status
	rec.ApprovedBy = &approvedBy
	rec.ApprovedAt = &approvedAt
	if notes != nil {
		rec.AdminNotes = notes
	}
	return nil
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Attendance
	for _, rec := range f.records {
		if filter.EmployeeID != nil && rec.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.ApprovalStatus != nil && string(rec.ApprovalStatus) != *filter.ApprovalStatus {
			continue
		}
		out = append(out, *rec)
	}
	return out, int64(len(out)), nil
}

func (f *fakeAttendanceRepo) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []attendance.Attendance
	for _, rec := range f.records {
		if rec.EmployeeID != employeeID {
			continue
		}
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

// testClock is a settable clock for deterministic boundary times.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// jakartaTime builds an instant at the given local clock time in the
// business timezone used throughout the tests.
func jakartaTime(t *testing.T, day string, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	date, err := time.ParseInLocation("2006-01-02", day, loc)
	require.NoError(t, err)
	return date.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newTestService(t *testing.T, lateTolerance int) (attendance.AttendanceService, *fakeAttendanceRepo, *testClock) {
	t.Helper()

	clock := &testClock{now: jakartaTime(t, "2025-03-10", 8, 0)}
	wt, err := worktime.NewService("Asia/Jakarta", "08:00", "17:00", lateTolerance, "18:00", worktime.WithClock(clock.Now))
	require.NoError(t, err)

	repo := newFakeAttendanceRepo()
	svc := NewAttendanceService(nil, repo, wt, nil)
	return svc, repo, clock
}

func clockInReq(employeeID string) attendance.ClockInRequest {
	return attendance.ClockInRequest{
		EmployeeID: employeeID,
		Latitude:   -6.2,
		Longitude:  106.8,
		Address:    "Jakarta office",
	}
}

func TestClockInOnTimeWithinTolerance(t *testing.T) {
	svc, _, clock := newTestService(t, 10)
	ctx := context.Background()

	clock.Set(jakartaTime(t, "2025-03-10", 8, 5))

	resp, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, "on_time", resp.Status)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, "pending", resp.ApprovalStatus)
	assert.Equal(t, "2025-03-10", resp.Date)
}

func TestClockInLate(t *testing.T) {
	svc, _, clock := newTestService(t, 10)
	ctx := context.Background()

	clock.Set(jakartaTime(t, "2025-03-10", 9, 15))

	resp, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	assert.Equal(t, "late", resp.Status)
	// Lateness counts from the scheduled start once tolerance is exceeded.
	assert.Equal(t, 75, resp.LateMinutes)
}

func TestClockInTwiceSameDay(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, clockInReq("emp-1"))
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
}

func TestClockInNextDayAfterOpenRecord(t *testing.T) {
	svc, _, clock := newTestService(t, 0)
	ctx := context.Background()

	first, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	// Never clocked out; the next business day still opens a fresh record.
	clock.Set(jakartaTime(t, "2025-03-11", 8, 0))

	second, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "2025-03-11", second.Date)

	// Yesterday's record stays open and now reads as incomplete.
	yesterday, err := svc.GetAttendance(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "incomplete", yesterday.Status)
	assert.Nil(t, yesterday.ClockOutTime)
}

func TestBreakLifecycle(t *testing.T) {
	svc, _, clock := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	clock.Set(jakartaTime(t, "2025-03-10", 12, 0))
	resp, err := svc.BreakStart(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.NotNil(t, resp.BreakStartTime)
	assert.Nil(t, resp.BreakEndTime)

	clock.Set(jakartaTime(t, "2025-03-10", 13, 0))
	resp, err = svc.BreakEnd(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	require.NotNil(t, resp.BreakHours)
	assert.InDelta(t, 1.0, *resp.BreakHours, 1e-9)
}

func TestBreakStartTwiceSameDay(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = svc.BreakStart(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = svc.BreakEnd(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	// One break pair per day, even after the first one closed.
	_, err = svc.BreakStart(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrDuplicateBreak)
}

func TestBreakEndWithoutOpenBreak(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = svc.BreakEnd(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNoOpenBreak)
}

func TestBreakWithoutClockIn(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.BreakStart(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
}

func TestClockOutWithOpenBreak(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)
	_, err = svc.BreakStart(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrBreakStillOpen)
}

func TestClockOutComputesNetWorkHours(t *testing.T) {
	svc, _, clock := newTestService(t, 0)
	ctx := context.Background()

	clock.Set(jakartaTime(t, "2025-03-10", 8, 0))
	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	clock.Set(jakartaTime(t, "2025-03-10", 12, 0))
	_, err = svc.BreakStart(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	clock.Set(jakartaTime(t, "2025-03-10", 13, 0))
	_, err = svc.BreakEnd(ctx, attendance.BreakRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	clock.Set(jakartaTime(t, "2025-03-10", 17, 0))
	resp, err := svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	require.NotNil(t, resp.WorkHours)
	assert.InDelta(t, 8.0, *resp.WorkHours, 1e-9)

	_, err = svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
}

func TestConcurrentClockOutSingleWinner(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ClockOut(ctx, attendance.ClockOutRequest{EmployeeID: "emp-1"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var succeeded, conflicted int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, attendance.ErrStateConflict) || errors.Is(err, attendance.ErrAlreadyClockedOut):
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)
}

func TestApprovalIsTerminal(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	created, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, attendance.ApproveRequest{AdminID: "admin-1", AttendanceID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.ApprovalStatus)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "admin-1", *approved.ApprovedBy)

	_, err = svc.Approve(ctx, attendance.ApproveRequest{AdminID: "admin-1", AttendanceID: created.ID})
	assert.ErrorIs(t, err, attendance.ErrAlreadyProcessed)

	_, err = svc.Decline(ctx, attendance.DeclineRequest{AdminID: "admin-1", AttendanceID: created.ID, Notes: "late again"})
	assert.ErrorIs(t, err, attendance.ErrAlreadyProcessed)
}

func TestDeclineRequiresNotes(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	created, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	_, err = svc.Decline(ctx, attendance.DeclineRequest{AdminID: "admin-1", AttendanceID: created.ID})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestApproveMissingRecord(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	_, err := svc.Approve(ctx, attendance.ApproveRequest{AdminID: "admin-1", AttendanceID: "nope"})
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func strPtr(s string) *string { return &s }

func TestManualEntryCreatesPendingRecord(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	resp, err := svc.ManualEntry(ctx, attendance.ManualEntryRequest{
		AdminID:    "admin-1",
		EmployeeID: "emp-1",
		Date:       "2025-03-07",
		ClockIn:    "08:00",
		ClockOut:   strPtr("17:00"),
		BreakStart: strPtr("12:00"),
		BreakEnd:   strPtr("13:00"),
		Notes:      strPtr("terminal was down"),
	})
	require.NoError(t, err)

	assert.True(t, resp.IsManualEntry)
	assert.Equal(t, "pending", resp.ApprovalStatus)
	assert.Equal(t, "2025-03-07", resp.Date)
	require.NotNil(t, resp.WorkHours)
	assert.InDelta(t, 8.0, *resp.WorkHours, 1e-9)
}

func TestManualEntryOrderingValidation(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	cases := []struct {
		name string
		req  attendance.ManualEntryRequest
	}{
		{
			name: "clock out before clock in",
			req: attendance.ManualEntryRequest{
				AdminID: "admin-1", EmployeeID: "emp-1", Date: "2025-03-07",
				ClockIn: "17:00", ClockOut: strPtr("08:00"),
			},
		},
		{
			name: "break end before break start",
			req: attendance.ManualEntryRequest{
				AdminID: "admin-1", EmployeeID: "emp-1", Date: "2025-03-07",
				ClockIn: "08:00", ClockOut: strPtr("17:00"),
				BreakStart: strPtr("13:00"), BreakEnd: strPtr("12:00"),
			},
		},
		{
			name: "break outside working interval",
			req: attendance.ManualEntryRequest{
				AdminID: "admin-1", EmployeeID: "emp-1", Date: "2025-03-07",
				ClockIn: "08:00", ClockOut: strPtr("17:00"),
				BreakStart: strPtr("16:30"), BreakEnd: strPtr("17:30"),
			},
		},
		{
			name: "malformed clock time",
			req: attendance.ManualEntryRequest{
				AdminID: "admin-1", EmployeeID: "emp-1", Date: "2025-03-07",
				ClockIn: "8am",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ManualEntry(ctx, tc.req)
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}

func TestManualEntryCannotReplaceProcessedRecord(t *testing.T) {
	svc, _, clock := newTestService(t, 0)
	ctx := context.Background()

	clock.Set(jakartaTime(t, "2025-03-07", 8, 0))
	created, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, attendance.ApproveRequest{AdminID: "admin-1", AttendanceID: created.ID})
	require.NoError(t, err)

	_, err = svc.ManualEntry(ctx, attendance.ManualEntryRequest{
		AdminID:    "admin-1",
		EmployeeID: "emp-1",
		Date:       "2025-03-07",
		ClockIn:    "09:00",
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyProcessed)
}

func TestManualEntryReplacesPendingRecord(t *testing.T) {
	svc, _, clock := newTestService(t, 0)
	ctx := context.Background()

	clock.Set(jakartaTime(t, "2025-03-07", 9, 30))
	created, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	resp, err := svc.ManualEntry(ctx, attendance.ManualEntryRequest{
		AdminID:    "admin-1",
		EmployeeID: "emp-1",
		Date:       "2025-03-07",
		ClockIn:    "08:00",
		ClockOut:   strPtr("17:00"),
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, resp.ID)
	assert.True(t, resp.IsManualEntry)
	assert.Equal(t, "on_time", resp.Status)
}

func TestGetTodayStatusWithoutRecord(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	ctx := context.Background()

	resp, err := svc.GetTodayStatus(ctx, "emp-1")
	require.NoError(t, err)

	assert.Equal(t, "absent", resp.Status)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Empty(t, resp.ID)
}

func TestGetWeeklyWindow(t *testing.T) {
	svc, _, clock := newTestService(t, 0)
	ctx := context.Background()

	// One record inside the trailing week, one outside.
	clock.Set(jakartaTime(t, "2025-03-01", 8, 0))
	_, err := svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	clock.Set(jakartaTime(t, "2025-03-08", 8, 0))
	_, err = svc.ClockIn(ctx, clockInReq("emp-1"))
	require.NoError(t, err)

	clock.Set(jakartaTime(t, "2025-03-10", 8, 0))
	responses, err := svc.GetWeekly(ctx, "emp-1")
	require.NoError(t, err)

	require.Len(t, responses, 1)
	assert.Equal(t, "2025-03-08", responses[0].Date)
}
