// Package trigger compiles a declarative Cadence into a cron schedule that
// yields its successive fire instants.
package trigger

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"dailyjobs/search-service/internal/model"
)

// ErrInvalidCadence marks a cadence that cannot be compiled (malformed
// "HH:MM" time, bad interval, unknown kind). It is surfaced to the caller
// saving the config, never at fire time.
var ErrInvalidCadence = errors.New("invalid cadence")

// Compile converts a cadence into a cron.Schedule. now anchors the
// every-N-hours variant; the other kinds ignore it.
func Compile(c model.Cadence, now time.Time) (cron.Schedule, error) {
	hour, minute, err := parseClock(c.Time)
	if err != nil {
		return nil, err
	}

	switch c.Kind {
	case model.CadenceDaily:
		return parseStandard(fmt.Sprintf("%d %d * * *", minute, hour))

	case model.CadenceHourly:
		return parseStandard(fmt.Sprintf("%d * * * *", minute))

	case model.CadenceEveryNHours:
		if c.N <= 0 {
			return nil, fmt.Errorf("%w: hour interval must be positive, got %d", ErrInvalidCadence, c.N)
		}
		every := time.Duration(c.N) * time.Hour
		anchor := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !anchor.After(now) {
			anchor = anchor.Add(every)
		}
		return &intervalSchedule{anchor: anchor, every: every}, nil

	case model.CadenceWeekdays:
		return parseStandard(fmt.Sprintf("%d %d * * 1-5", minute, hour))

	case model.CadenceWeekly:
		return parseStandard(fmt.Sprintf("%d %d * * %d", minute, hour, int(c.Weekday)))

	case model.CadenceTwiceWeekly:
		return parseStandard(fmt.Sprintf("%d %d * * %d,%d", minute, hour, int(c.Weekday), int(c.Weekday2)))

	case model.CadenceCustom:
		if len(c.Days) == 0 {
			// Documented fallback: an empty day set degrades to daily.
			return parseStandard(fmt.Sprintf("%d %d * * *", minute, hour))
		}
		// IntervalWeeks beyond 1 is accepted as configuration but the
		// schedule still fires every matching week.
		return parseStandard(fmt.Sprintf("%d %d * * %s", minute, hour, dayList(c.Days)))

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidCadence, c.Kind)
	}
}

// parseClock validates an "HH:MM" wall-clock string.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalidCadence, s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour in %q out of range", ErrInvalidCadence, s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute in %q out of range", ErrInvalidCadence, s)
	}
	return hour, minute, nil
}

func parseStandard(expr string) (cron.Schedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCadence, err)
	}
	return sched, nil
}

// dayList renders a deduplicated, sorted cron day-of-week list.
func dayList(days []time.Weekday) string {
	seen := make(map[time.Weekday]bool, len(days))
	uniq := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			uniq = append(uniq, int(d))
		}
	}
	sort.Ints(uniq)
	parts := make([]string, len(uniq))
	for i, d := range uniq {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// intervalSchedule fires every `every` starting from a fixed anchor.
// Next is derived from the anchor arithmetically, so the schedule is
// restartable and never depends on how many fires already happened.
type intervalSchedule struct {
	anchor time.Time
	every  time.Duration
}

// Next returns the first fire instant strictly after t.
func (s *intervalSchedule) Next(t time.Time) time.Time {
	if t.Before(s.anchor) {
		return s.anchor
	}
	steps := t.Sub(s.anchor)/s.every + 1
	return s.anchor.Add(steps * s.every)
}
