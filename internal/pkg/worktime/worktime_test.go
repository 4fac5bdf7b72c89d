package worktime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService("Asia/Jakarta", "08:00", "17:00", 0, "18:00", opts...)
	require.NoError(t, err)
	return svc
}

// jakarta builds an instant from Asia/Jakarta wall-clock time.
func jakarta(t *testing.T, hour, min, sec int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return time.Date(2025, time.March, 10, hour, min, sec, 0, loc)
}

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{"08:00", TimeOfDay{8, 0}, false},
		{"23:59", TimeOfDay{23, 59}, false},
		{"00:00", TimeOfDay{0, 0}, false},
		{"24:00", TimeOfDay{}, true},
		{"8:00", TimeOfDay{}, true},
		{"08:60", TimeOfDay{}, true},
		{"garbage", TimeOfDay{}, true},
		{"", TimeOfDay{}, true},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.input)
		if c.wantErr {
			assert.ErrorIs(t, err, ErrParse, "input %q", c.input)
			continue
		}
		require.NoError(t, err, "input %q", c.input)
		assert.Equal(t, c.want, got)
	}
}

func TestNewService_BadTimezone(t *testing.T) {
	_, err := NewService("Not/AZone", "08:00", "17:00", 0, "18:00")
	assert.Error(t, err)
}

func TestBusinessDate_CrossesUTCMidnight(t *testing.T) {
	svc := newTestService(t)

	// 01:30 Jakarta is still the previous day in UTC
	instant := jakarta(t, 1, 30, 0)
	assert.Equal(t, time.March, instant.UTC().Month())
	assert.Equal(t, 9, instant.UTC().Day())

	date := svc.BusinessDate(instant)
	assert.Equal(t, 10, date.Day())
	assert.Equal(t, 0, date.Hour())
}

func TestNowBusinessDate_UsesInjectedClock(t *testing.T) {
	fixed := jakarta(t, 9, 15, 0)
	svc := newTestService(t, WithClock(func() time.Time { return fixed }))

	date := svc.NowBusinessDate()
	assert.Equal(t, 2025, date.Year())
	assert.Equal(t, time.March, date.Month())
	assert.Equal(t, 10, date.Day())
}

func TestWithinWorkingHours(t *testing.T) {
	svc := newTestService(t)

	assert.True(t, svc.WithinWorkingHours(jakarta(t, 8, 0, 0)))
	assert.True(t, svc.WithinWorkingHours(jakarta(t, 12, 30, 0)))
	assert.True(t, svc.WithinWorkingHours(jakarta(t, 17, 0, 0)))
	assert.False(t, svc.WithinWorkingHours(jakarta(t, 7, 59, 0)))
	assert.False(t, svc.WithinWorkingHours(jakarta(t, 17, 1, 0)))
}

func TestInOvertimeWindow(t *testing.T) {
	svc := newTestService(t)

	assert.False(t, svc.InOvertimeWindow(jakarta(t, 17, 59, 0)))
	assert.True(t, svc.InOvertimeWindow(jakarta(t, 18, 0, 0)))
	assert.True(t, svc.InOvertimeWindow(jakarta(t, 23, 30, 0)))
}

func TestLatenessMinutes(t *testing.T) {
	svc := newTestService(t)

	// Exactly at the boundary is on time.
	assert.Equal(t, 0, svc.LatenessMinutes(jakarta(t, 8, 0, 0)))
	assert.Equal(t, 0, svc.LatenessMinutes(jakarta(t, 7, 30, 0)))

	assert.Equal(t, 5, svc.LatenessMinutes(jakarta(t, 8, 5, 0)))
	assert.Equal(t, 75, svc.LatenessMinutes(jakarta(t, 9, 15, 0)))
}

func TestLatenessMinutes_WithTolerance(t *testing.T) {
	svc, err := NewService("Asia/Jakarta", "08:00", "17:00", 10, "18:00")
	require.NoError(t, err)

	// Inside the grace period counts as on time.
	assert.Equal(t, 0, svc.LatenessMinutes(jakarta(t, 8, 10, 0)))

	// Past the grace period, lateness is measured from the scheduled start.
	assert.Equal(t, 11, svc.LatenessMinutes(jakarta(t, 8, 11, 0)))
}

func TestDurationHours(t *testing.T) {
	svc := newTestService(t)

	start := jakarta(t, 18, 0, 0)
	end := jakarta(t, 20, 30, 0)

	hours, err := svc.DurationHours(start, end)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, hours, 1e-9)

	// Zero-length interval is valid.
	hours, err = svc.DurationHours(start, start)
	require.NoError(t, err)
	assert.Zero(t, hours)

	// Reversed interval fails.
	_, err = svc.DurationHours(end, start)
	assert.ErrorIs(t, err, ErrInvalidInterval)
}

func TestDurationHours_TimezoneIndependent(t *testing.T) {
	svc := newTestService(t)

	start := jakarta(t, 18, 0, 0)
	end := jakarta(t, 20, 30, 0).UTC()

	hours, err := svc.DurationHours(start, end)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, hours, 1e-9)
}
