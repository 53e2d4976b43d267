package service

import (
	"context"
	"errors"
	"strconv"

	"gitevents/internal/core/milestone"
	"gitevents/internal/core/records"
	"gitevents/internal/platform/logger"
	"gitevents/internal/platform/metrics"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"
)

// promoteTalk moves the issue's proposal into its milestone's event
// the event write and the proposal removal are separate commits; a failed removal is reported, not undone
func (s *Svc) promoteTalk(ctx context.Context, p domain.Payload) (domain.Result, error) {
	prop, err := s.findProposal(ctx, p.Issue.ID)
	if err != nil {
		return domain.Result{}, err
	}

	ev, year, err := s.eventFor(p.Issue)
	if err != nil {
		return domain.Result{}, err
	}

	stamp := records.Stamp(s.now())
	talk := prop.AsTalk(stamp)
	eventsPath := records.EventsFile(year)

	var (
		event  records.Event
		stored records.Record
	)
	fc, _, err := reconcile(ctx, s.store, eventsPath, func(items []records.Event) ([]records.Event, string, bool) {
		out, e, t, msg := mergeEvent(items, ev, talk, stamp)
		event, stored = e, t
		return out, msg, true
	})
	if err != nil {
		return domain.Result{}, err
	}
	res := domain.Result{
		Outcome: domain.OutcomeTalk,
		Record:  &stored,
		Event:   &event,
		Files:   []domain.FileChange{fc},
	}

	rm, wrote, err := reconcile(ctx, s.store, records.ProposalsFile, func(items []records.Record) ([]records.Record, string, bool) {
		out, ok := records.RemoveByID(items, prop.ID)
		return out, "Moved proposal to talks.", ok
	})
	if err != nil {
		metrics.PartialPromotion()
		logger.C(ctx).Error().Err(err).
			Int64("id", prop.ID).
			Str("events_file", eventsPath).
			Msg("talk promoted but proposal not removed")
		if !errors.Is(err, domain.ErrStorageWrite) {
			err = domain.Wrap(domain.StoreCode(err), domain.ErrStorageWrite, err, "talk promoted but proposal not removed")
		}
		return res, err
	}
	if wrote {
		res.Files = append(res.Files, rm)
	}
	return res, nil
}

// findProposal reads proposals.json and returns the proposal with id
func (s *Svc) findProposal(ctx context.Context, id int64) (records.Record, error) {
	f, err := s.store.FetchFile(ctx, records.ProposalsFile)
	switch {
	case errors.Is(err, domain.ErrFileNotFound):
		return records.Record{}, domain.Wrap(perr.ErrorCodeNotFound, domain.ErrNotFound, nil, "no proposals recorded yet")
	case err != nil:
		return records.Record{}, domain.Wrap(domain.StoreCode(err), domain.ErrStorageRead, err, "read "+records.ProposalsFile)
	}
	items, err := records.Decode[records.Record](f.Content)
	if err != nil {
		return records.Record{}, domain.Wrap(perr.ErrorCodeStorage, domain.ErrCorruptStorage, err, records.ProposalsFile+" is not a JSON array of records")
	}
	i := records.FindIndexByID(items, id)
	if i < 0 {
		return records.Record{}, domain.Wrap(perr.ErrorCodeNotFound, domain.ErrNotFound, nil, "no proposal for issue "+strconv.FormatInt(id, 10))
	}
	return items[i], nil
}

// eventFor builds the event named by the issue's milestone and the year file it lives in
func (s *Svc) eventFor(is domain.Issue) (records.Event, int, error) {
	ms := is.Milestone
	if ms == nil {
		return records.Event{}, 0, domain.Wrap(perr.ErrorCodeValidation, domain.ErrMissingMilestone, nil, "issue has no milestone")
	}
	d, err := milestone.ParseDescription(ms.Description)
	if err != nil {
		return records.Event{}, 0, domain.Wrap(perr.ErrorCodeValidation, domain.ErrMissingMilestone, err, "milestone description unusable")
	}
	date, err := milestone.EventDate(ms.DueOn, d)
	if err != nil {
		return records.Event{}, 0, domain.Wrap(perr.ErrorCodeValidation, domain.ErrMissingMilestone, err, "milestone due date unusable")
	}
	year, err := milestone.Year(is.CreatedAt)
	if err != nil {
		year = s.now().UTC().Year()
	}
	return records.Event{
		ID:       ms.ID,
		Type:     records.TypeEvent,
		Location: records.Location{Name: d.Name, Address: d.Address},
		Date:     records.Stamp(date),
		Name:     ms.Title,
	}, year, nil
}
