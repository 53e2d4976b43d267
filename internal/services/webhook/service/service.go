// Package service routes issue deliveries and reconciles the record files they touch
package service

import (
	"context"
	"strings"
	"time"

	"gitevents/internal/platform/logger"
	"gitevents/internal/platform/metrics"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"
)

// Labels are the issue labels that drive the record lifecycle
// Job may be empty, in which case no label is reserved for jobs
type Labels struct {
	Proposal string
	Talk     string
	Job      string
}

// Options are the service collaborators; Store, Users and Parser are required
type Options struct {
	Store  domain.ContentStore
	Users  domain.UserDirectory
	Parser domain.Parser
	Labels Labels

	// Now defaults to time.Now
	Now func() time.Time
}

// Svc implements domain.Dispatcher
type Svc struct {
	store  domain.ContentStore
	users  domain.UserDirectory
	parser domain.Parser
	labels Labels
	now    func() time.Time
}

var _ domain.Dispatcher = (*Svc)(nil)

// New validates the options and builds the service
func New(o Options) (*Svc, error) {
	var missing []string
	if o.Store == nil {
		missing = append(missing, "store")
	}
	if o.Users == nil {
		missing = append(missing, "user directory")
	}
	if o.Parser == nil {
		missing = append(missing, "parser")
	}
	if strings.TrimSpace(o.Labels.Proposal) == "" {
		missing = append(missing, "proposal label")
	}
	if strings.TrimSpace(o.Labels.Talk) == "" {
		missing = append(missing, "talk label")
	}
	if len(missing) > 0 {
		return nil, domain.Wrap(perr.ErrorCodeValidation, domain.ErrConfiguration, nil,
			"webhook service missing "+strings.Join(missing, ", "))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return &Svc{
		store:  o.Store,
		users:  o.Users,
		parser: o.Parser,
		labels: o.Labels,
		now:    o.Now,
	}, nil
}

// Dispatch routes one delivery by action and label
func (s *Svc) Dispatch(ctx context.Context, p domain.Payload) (domain.Result, error) {
	log := logger.C(ctx)
	res, err := s.dispatch(ctx, p)
	if err != nil {
		metrics.Failure(domain.Kind(err))
		log.Warn().Err(err).
			Str("action", p.Action).
			Str("label", p.LabelName()).
			Int64("issue_id", p.Issue.ID).
			Str("kind", domain.Kind(err)).
			Msg("dispatch failed")
		return res, err
	}
	metrics.Delivery(string(res.Outcome))
	log.Info().
		Str("action", p.Action).
		Str("label", p.LabelName()).
		Int64("issue_id", p.Issue.ID).
		Str("outcome", string(res.Outcome)).
		Int("files", len(res.Files)).
		Msg("dispatched")
	return res, nil
}

func (s *Svc) dispatch(ctx context.Context, p domain.Payload) (domain.Result, error) {
	switch p.Action {
	case domain.ActionOpened:
		return domain.Result{Outcome: domain.OutcomeNoop}, nil
	case domain.ActionLabeled:
	default:
		return domain.Result{}, domain.Wrap(perr.ErrorCodeInvalidArgument, domain.ErrUnsupportedAction, nil,
			"unsupported action \""+p.Action+"\"")
	}

	if p.Label == nil {
		return domain.Result{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "labeled delivery without a label"), "label")
	}
	switch name := p.Label.Name; {
	case name == s.labels.Proposal:
		return s.recordProposal(ctx, p)
	case name == s.labels.Talk:
		return s.promoteTalk(ctx, p)
	case s.labels.Job != "" && name == s.labels.Job:
		return domain.Result{Outcome: domain.OutcomeJob}, nil
	default:
		return domain.Result{Outcome: domain.OutcomeNoop}, nil
	}
}
