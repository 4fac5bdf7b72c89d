package worktime

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// Worktime errors
var (
	ErrParse           = errors.New("malformed time of day, expected HH:MM")
	ErrInvalidInterval = errors.New("interval end must be after its start")
)

// TimeOfDay is a clock-time within the business day, independent of date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):([0-5][0-9])$`)

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayRegex.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrParse, s)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// minutes since local midnight
func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Service evaluates business-timezone rules. All stored timestamps are UTC
// instants; every comparison here happens in the single fixed business
// timezone loaded at construction. The clock is injectable so boundary
// times (exactly 08:00:00) are testable deterministically.
type Service struct {
	loc           *time.Location
	workStart     TimeOfDay
	workEnd       TimeOfDay
	lateTolerance time.Duration
	overtimeStart TimeOfDay
	now           func() time.Time
}

type Option func(*Service)

// WithClock overrides the ambient clock. Tests only.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(timezone, workStart, workEnd string, lateToleranceMinutes int, overtimeStart string, opts ...Option) (*Service, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load business timezone %q: %w", timezone, err)
	}

	ws, err := ParseTimeOfDay(workStart)
	if err != nil {
		return nil, fmt.Errorf("invalid work start: %w", err)
	}
	we, err := ParseTimeOfDay(workEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid work end: %w", err)
	}
	ot, err := ParseTimeOfDay(overtimeStart)
	if err != nil {
		return nil, fmt.Errorf("invalid overtime start: %w", err)
	}

	s := &Service{
		loc:           loc,
		workStart:     ws,
		workEnd:       we,
		lateTolerance: time.Duration(lateToleranceMinutes) * time.Minute,
		overtimeStart: ot,
		now:           time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Location returns the business timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// WorkStart returns the configured start of the working-hours window.
func (s *Service) WorkStart() TimeOfDay {
	return s.workStart
}

// Now returns the current instant in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// ToBusinessLocal converts an instant to its business-timezone representation.
func (s *Service) ToBusinessLocal(t time.Time) time.Time {
	return t.In(s.loc)
}

// NowBusinessDate returns the current calendar date in the business timezone,
// truncated to local midnight. Used to scope "today" queries.
func (s *Service) NowBusinessDate() time.Time {
	return s.BusinessDate(s.now())
}

// BusinessDate returns the calendar date an instant falls on in the business
// timezone.
func (s *Service) BusinessDate(t time.Time) time.Time {
	local := t.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

// ParseBusinessDate parses "2006-01-02" as a business-local calendar date.
func (s *Service) ParseBusinessDate(str string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", str, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrParse, str)
	}
	return t, nil
}

// At combines a business calendar date with a local time-of-day into an
// instant.
func (s *Service) At(date time.Time, tod TimeOfDay) time.Time {
	local := date.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), tod.Hour, tod.Minute, 0, 0, s.loc)
}

// WithinWindow reports whether the local time-of-day component of t falls in
// [start, end]. Only the clock-time matters; the date is ignored.
func (s *Service) WithinWindow(t time.Time, start, end TimeOfDay) bool {
	local := t.In(s.loc)
	m := local.Hour()*60 + local.Minute()
	return m >= start.minutes() && m <= end.minutes()
}

// WithinWorkingHours reports whether t falls inside the configured
// working-hours window.
func (s *Service) WithinWorkingHours(t time.Time) bool {
	return s.WithinWindow(t, s.workStart, s.workEnd)
}

// InOvertimeWindow reports whether the local time-of-day of t is at or past
// the configured overtime start. The window is a single open-ended boundary.
func (s *Service) InOvertimeWindow(t time.Time) bool {
	local := t.In(s.loc)
	m := local.Hour()*60 + local.Minute()
	return m >= s.overtimeStart.minutes()
}

// LatenessMinutes returns how many whole minutes past the working-hours start
// (plus tolerance) the instant is, or 0 when it is on time. Lateness is
// measured from the scheduled start, not from the tolerance limit.
func (s *Service) LatenessMinutes(clockIn time.Time) int {
	local := clockIn.In(s.loc)
	scheduled := time.Date(
		local.Year(), local.Month(), local.Day(),
		s.workStart.Hour, s.workStart.Minute, 0, 0,
		s.loc,
	)

	graceLimit := scheduled.Add(s.lateTolerance)
	if !local.After(graceLimit) {
		return 0
	}

	diff := local.Sub(scheduled).Minutes()
	if diff <= 0 {
		return 0
	}
	return int(math.Floor(diff))
}

// DurationHours returns the elapsed hours between two instants. Fails when
// end precedes start; never returns a negative value.
func (s *Service) DurationHours(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: start=%s end=%s", ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return end.Sub(start).Hours(), nil
}
