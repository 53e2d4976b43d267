// Package milestone reads the event details a call-for-papers milestone carries
// description holds "<HH:MM>;<location name>;<address>", due_on holds the day
package milestone

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrMalformed is returned for descriptions or dates that do not follow the milestone convention
var ErrMalformed = errors.New("milestone: malformed")

const dateLayout = "2006-01-02"

// Description is the parsed milestone description
type Description struct {
	Hour    int
	Minute  int
	Name    string
	Address string
}

// ParseDescription splits "<HH:MM>;<location name>;<address>" on semicolons
// fields are positional with no escaping; anything after the third semicolon-separated field is ignored
func ParseDescription(s string) (Description, error) {
	parts := strings.Split(s, ";")
	if len(parts) < 3 {
		return Description{}, fmt.Errorf("%w: description %q needs time;name;address", ErrMalformed, s)
	}
	h, m, err := parseClock(strings.TrimSpace(parts[0]))
	if err != nil {
		return Description{}, err
	}
	return Description{
		Hour:    h,
		Minute:  m,
		Name:    strings.TrimSpace(parts[1]),
		Address: strings.TrimSpace(parts[2]),
	}, nil
}

// EventDate combines the due_on day with the description time, in UTC
// due_on may be a bare date or a full RFC 3339 timestamp; only its date part is used
func EventDate(dueOn string, d Description) (time.Time, error) {
	day, err := datePart(dueOn)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), d.Hour, d.Minute, 0, 0, time.UTC), nil
}

// Year returns the calendar year of a GitHub timestamp or bare date
func Year(ts string) (int, error) {
	day, err := datePart(ts)
	if err != nil {
		return 0, err
	}
	return day.Year(), nil
}

func datePart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("%w: date %q", ErrMalformed, s)
	}
	day, err := time.Parse(dateLayout, s[:len(dateLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q: %v", ErrMalformed, s, err)
	}
	return day, nil
}

func parseClock(s string) (int, int, error) {
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || len(hs) == 0 || len(hs) > 2 || len(ms) != 2 {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrMalformed, s)
	}
	h, herr := strconv.Atoi(hs)
	m, merr := strconv.Atoi(ms)
	if herr != nil || merr != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("%w: time %q is not HH:MM", ErrMalformed, s)
	}
	return h, m, nil
}
