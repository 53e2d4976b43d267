// Package domain defines the webhook payload, the dispatch result and the ports the webhook service depends on
package domain

import "gitevents/internal/core/records"

// Actions the dispatcher understands
const (
	ActionOpened  = "opened"
	ActionLabeled = "labeled"
)

// Payload is the subset of a GitHub "issues" delivery the dispatcher reads
// unknown fields are ignored when binding
type Payload struct {
	Action     string     `json:"action"  validate:"required,max=64"`
	Label      *Label     `json:"label,omitempty" validate:"required_if=Action labeled"`
	Issue      Issue      `json:"issue"`
	Sender     Sender     `json:"sender"`
	Repository Repository `json:"repository"`
}

// Label is the label added by a "labeled" action
type Label struct {
	Name string `json:"name" validate:"required,max=100"`
}

// Issue is the issue the delivery is about
type Issue struct {
	ID        int64      `json:"id"`
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	CreatedAt string     `json:"created_at"`
	Milestone *Milestone `json:"milestone,omitempty"`
}

// Milestone carries the event: description "<HH:MM>;<location name>;<address>", due_on the day
type Milestone struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueOn       string `json:"due_on"`
}

// Sender is the account that triggered the delivery
type Sender struct {
	Login string `json:"login" validate:"omitempty,github_login"`
}

// Repository is the repository the delivery came from
type Repository struct {
	URL      string `json:"url"`
	FullName string `json:"full_name"`
}

// LabelName returns the label name or "" when the delivery carries none
func (p Payload) LabelName() string {
	if p.Label == nil {
		return ""
	}
	return p.Label.Name
}

// Outcome names what a dispatch did
type Outcome string

// Dispatch outcomes
const (
	OutcomeNoop     Outcome = "noop"
	OutcomeProposal Outcome = "proposal_recorded"
	OutcomeTalk     Outcome = "talk_promoted"
	OutcomeJob      Outcome = "job_reserved"
	OutcomeIgnored  Outcome = "ignored"
	OutcomePong     Outcome = "pong"
)

// FileChange is one commit the dispatch made
type FileChange struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Created bool   `json:"created,omitempty"`
}

// Result reports a dispatch; Record is the proposal or talk written, Event the event it joined
type Result struct {
	Outcome Outcome         `json:"outcome"`
	Record  *records.Record `json:"record,omitempty"`
	Event   *records.Event  `json:"event,omitempty"`
	Files   []FileChange    `json:"files,omitempty"`
}
