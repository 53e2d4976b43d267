// Package records defines the proposal, talk and event documents stored in the data repository
// and the codec that turns a stored file body into records and back
package records

import (
	"strconv"
	"time"
)

// Record types as stored in the "type" field
const (
	TypeProposal = "proposal"
	TypeTalk     = "talk"
	TypeEvent    = "event"
)

// Files in the data repository
const (
	ProposalsFile = "proposals.json"
	eventsPrefix  = "events-"
	jsonExt       = ".json"
)

// StampLayout is the JavaScript Date.toJSON layout existing files were written with
const StampLayout = "2006-01-02T15:04:05.000Z"

// Speaker is the GitHub identity behind a proposal; never replaced once stored
type Speaker struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	GitHub   string `json:"github"`
	Gravatar string `json:"gravatar"`
	Avatar   string `json:"avatar"`
	Twitter  string `json:"twitter,omitempty"`
}

// Record is a proposal, or a talk once promoted (Type "talk" with AcceptedAt set)
type Record struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Speaker     Speaker `json:"speaker"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Language    Scalar  `json:"language,omitempty"`
	Level       Scalar  `json:"level,omitempty"`
	Month       Scalar  `json:"month,omitempty"`
	Tags        Tags    `json:"tags,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
	AcceptedAt  string  `json:"accepted_at,omitempty"`
}

// Location is where an event happens, taken from the milestone description
type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Event is a meetup derived from a milestone; Talks keeps insertion order
type Event struct {
	ID       int64    `json:"id"`
	Type     string   `json:"type"`
	Location Location `json:"location"`
	Date     string   `json:"date"`
	Name     string   `json:"name"`
	Talks    []Record `json:"talks"`
}

// Key implements Keyed
func (r Record) Key() int64 { return r.ID }

// Key implements Keyed
func (e Event) Key() int64 { return e.ID }

// Keyed is anything stored in a file array under a unique id
type Keyed interface{ Key() int64 }

// FindIndexByID returns the position of the record with id, or -1
func FindIndexByID[T Keyed](items []T, id int64) int {
	for i, it := range items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}

// RemoveByID returns items without the record keyed id and whether one was removed
// the input slice is not modified
func RemoveByID[T Keyed](items []T, id int64) ([]T, bool) {
	i := FindIndexByID(items, id)
	if i < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...), true
}

// EventsFile is the yearly events file name, e.g. events-2024.json
func EventsFile(year int) string {
	return eventsPrefix + strconv.Itoa(year) + jsonExt
}

// Stamp formats t in StampLayout (UTC, millisecond precision)
func Stamp(t time.Time) string { return t.UTC().Format(StampLayout) }

// AsTalk returns a copy of a stored proposal promoted to a talk accepted at stamp
func (r Record) AsTalk(stamp string) Record {
	t := r
	t.Type = TypeTalk
	t.Tags = append(Tags(nil), r.Tags...)
	if len(t.Tags) == 0 {
		t.Tags = nil
	}
	t.AcceptedAt = stamp
	t.UpdatedAt = stamp
	return t
}
