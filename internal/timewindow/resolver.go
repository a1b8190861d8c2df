// Package timewindow maps absolute instants to the civil calendar of the
// congregation and back. "Today", the attendance weekday and the session
// start/cutoff instants are always decided in the civil timezone, never in
// the host's zone.
package timewindow

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khedma/sunday-school-backend/internal/model"
)

// Clock is the single source of "now" for the domain services.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock of the host.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// WallClock is a local time of day, minute precision.
type WallClock struct {
	Hour   int
	Minute int
}

// ParseWallClock parses "HH:MM" (24h).
func ParseWallClock(s string) (WallClock, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return WallClock{}, fmt.Errorf("wall clock %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return WallClock{}, fmt.Errorf("wall clock %q: invalid hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return WallClock{}, fmt.Errorf("wall clock %q: invalid minute", s)
	}
	return WallClock{Hour: hour, Minute: minute}, nil
}

func (w WallClock) String() string {
	return fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)
}

// Date is a civil calendar date.
type Date struct {
	Year    int
	Month   time.Month
	Day     int
	Weekday time.Weekday
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns the date as midnight UTC, the representation pgx uses for
// DATE columns.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Window is the attendance schedule of one civil date.
type Window struct {
	Date     Date
	StartAt  time.Time
	CutoffAt time.Time
}

// Resolver answers calendar questions in a fixed civil timezone.
type Resolver struct {
	loc     *time.Location
	weekday time.Weekday
	start   WallClock
	cutoff  WallClock
}

// New builds a Resolver from already-parsed values.
func New(loc *time.Location, weekday time.Weekday, start, cutoff WallClock) *Resolver {
	return &Resolver{loc: loc, weekday: weekday, start: start, cutoff: cutoff}
}

// NewFromConfig parses the schedule settings: an IANA zone name, an English
// weekday name and two "HH:MM" wall-clock times.
func NewFromConfig(timezone, weekday, start, cutoff string) (*Resolver, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	wd, err := ParseWeekday(weekday)
	if err != nil {
		return nil, err
	}
	s, err := ParseWallClock(start)
	if err != nil {
		return nil, fmt.Errorf("session start: %w", err)
	}
	c, err := ParseWallClock(cutoff)
	if err != nil {
		return nil, fmt.Errorf("session cutoff: %w", err)
	}
	if c.Hour*60+c.Minute < s.Hour*60+s.Minute {
		return nil, fmt.Errorf("session cutoff %s is before start %s", c, s)
	}
	return New(loc, wd, s, c), nil
}

// ParseWeekday accepts English weekday names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Location returns the civil timezone.
func (r *Resolver) Location() *time.Location { return r.loc }

// AttendanceWeekday returns the weekday attendance is taken on.
func (r *Resolver) AttendanceWeekday() time.Weekday { return r.weekday }

// CivilDate returns the calendar date and weekday of now in the civil zone.
func (r *Resolver) CivilDate(now time.Time) Date {
	local := now.In(r.loc)
	y, m, d := local.Date()
	return Date{Year: y, Month: m, Day: d, Weekday: local.Weekday()}
}

// At returns the absolute instant of a wall-clock time on a civil date.
// The UTC offset comes from the zone rules in effect on that date, so a
// change of offset between "now" and the target date is honoured.
func (r *Resolver) At(d Date, wc WallClock) time.Time {
	return time.Date(d.Year, d.Month, d.Day, wc.Hour, wc.Minute, 0, 0, r.loc).UTC()
}

// Window returns the schedule for the civil date containing now.
func (r *Resolver) Window(now time.Time) Window {
	d := r.CivilDate(now)
	return Window{
		Date:     d,
		StartAt:  r.At(d, r.start),
		CutoffAt: r.At(d, r.cutoff),
	}
}

// IsAttendanceDay reports whether now falls on the attendance weekday.
func (r *Resolver) IsAttendanceDay(now time.Time) bool {
	return r.CivilDate(now).Weekday == r.weekday
}

// Classify compares a check-in instant to the cutoff. The cutoff itself is
// still on time.
func Classify(at, cutoff time.Time) model.AttendanceStatus {
	if at.After(cutoff) {
		return model.AttendanceLate
	}
	return model.AttendanceOnTime
}
