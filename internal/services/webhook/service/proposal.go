package service

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"

	"gitevents/internal/core/records"
	"gitevents/internal/platform/logger"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"
)

// recordProposal builds a proposal from the issue and upserts it into proposals.json
func (s *Svc) recordProposal(ctx context.Context, p domain.Payload) (domain.Result, error) {
	login := strings.TrimSpace(p.Sender.Login)
	if login == "" {
		return domain.Result{}, perr.WithField(perr.New(perr.ErrorCodeValidation, "proposal delivery without a sender"), "sender.login")
	}
	u, err := s.users.FetchUser(ctx, login)
	if err != nil {
		return domain.Result{}, domain.Wrap(domain.StoreCode(err), domain.ErrStorageRead, err, "fetch user "+login)
	}
	doc, err := s.parser.Parse(p.Issue.Body)
	if err != nil {
		return domain.Result{}, perr.WithOp(err, "parse issue body")
	}

	cand := newProposal(p.Issue, u, login, doc)
	stamp := records.Stamp(s.now())

	var stored records.Record
	fc, _, err := reconcile(ctx, s.store, records.ProposalsFile, func(items []records.Record) ([]records.Record, string, bool) {
		out, rec, msg := upsert(items, cand, stamp)
		stored = rec
		return out, msg, true
	})
	if err != nil {
		return domain.Result{}, err
	}

	logger.C(ctx).Debug().Int64("id", stored.ID).Str("github", stored.Speaker.GitHub).Str("message", fc.Message).Msg("proposal recorded")
	return domain.Result{
		Outcome: domain.OutcomeProposal,
		Record:  &stored,
		Files:   []domain.FileChange{fc},
	}, nil
}

func newProposal(is domain.Issue, u domain.User, login string, doc domain.Document) records.Record {
	if u.Login == "" {
		u.Login = login
	}
	r := records.Record{
		ID:   is.ID,
		Type: records.TypeProposal,
		Speaker: records.Speaker{
			ID:       u.ID,
			Name:     u.Name,
			Location: u.Location,
			GitHub:   u.Login,
			Gravatar: u.GravatarID,
			Avatar:   u.AvatarURL,
		},
		Title:       strings.TrimSpace(norm.NFC.String(is.Title)),
		Description: doc.HTML,
	}
	applyAttributes(&r, doc.Attributes)
	return r
}
