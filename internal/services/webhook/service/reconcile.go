package service

import (
	"context"
	"errors"
	"path"
	"strings"

	"gitevents/internal/core/records"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"
)

// mutation turns the current items of a file into the items to write
// write=false leaves the file untouched; items is nil when the file does not exist yet
type mutation[T any] func(items []T) (out []T, message string, write bool)

// reconcile reads path, applies fn and writes the result with the sha it read
// a missing file is created with a "Created <name>" message; a stale sha fails the write
func reconcile[T any](ctx context.Context, store domain.ContentStore, p string, fn mutation[T]) (domain.FileChange, bool, error) {
	f, err := store.FetchFile(ctx, p)
	missing := false
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrFileNotFound):
		missing = true
	default:
		return domain.FileChange{}, false, domain.Wrap(domain.StoreCode(err), domain.ErrStorageRead, err, "read "+p)
	}

	var items []T
	if !missing {
		items, err = records.Decode[T](f.Content)
		if err != nil {
			return domain.FileChange{}, false, domain.Wrap(perr.ErrorCodeStorage, domain.ErrCorruptStorage, err, p+" is not a JSON array of records")
		}
	}

	out, msg, write := fn(items)
	if !write {
		return domain.FileChange{}, false, nil
	}
	content, err := records.Encode(out)
	if err != nil {
		return domain.FileChange{}, false, domain.Wrap(perr.ErrorCodeStorage, domain.ErrStorageWrite, err, "encode "+p)
	}

	if missing {
		msg = "Created " + strings.TrimSuffix(path.Base(p), ".json")
		err = store.CreateFile(ctx, p, content, msg)
	} else {
		err = store.UpdateFile(ctx, p, content, f.SHA, msg)
	}
	if err != nil {
		return domain.FileChange{}, false, domain.Wrap(domain.StoreCode(err), domain.ErrStorageWrite, err, "write "+p)
	}
	return domain.FileChange{Path: p, Message: msg, Created: missing}, true, nil
}

// upsert replaces the record with the candidate's id or appends the candidate
// a replaced record keeps its created_at, speaker and accepted_at
func upsert(items []records.Record, cand records.Record, stamp string) ([]records.Record, records.Record, string) {
	out := append([]records.Record(nil), items...)
	if i := records.FindIndexByID(out, cand.ID); i >= 0 {
		prev := out[i]
		cand.Speaker = prev.Speaker
		if prev.CreatedAt != "" {
			cand.CreatedAt = prev.CreatedAt
		}
		if prev.AcceptedAt != "" {
			cand.AcceptedAt = prev.AcceptedAt
		}
		if cand.CreatedAt == "" {
			cand.CreatedAt = stamp
		}
		cand.UpdatedAt = stamp
		out[i] = cand
		return out, cand, "Updated " + cand.Type + " by " + cand.Speaker.GitHub
	}
	if cand.CreatedAt == "" {
		cand.CreatedAt = stamp
	}
	cand.UpdatedAt = stamp
	out = append(out, cand)
	return out, cand, "New " + cand.Type + " by " + cand.Speaker.GitHub
}

// mergeEvent adds talk to the event with ev's id, creating the event when absent
// an existing event takes name, date and location from ev and keeps its talks in order
func mergeEvent(events []records.Event, ev records.Event, talk records.Record, stamp string) ([]records.Event, records.Event, records.Record, string) {
	out := append([]records.Event(nil), events...)
	i := records.FindIndexByID(out, ev.ID)
	cur := ev
	if i >= 0 {
		cur = out[i]
		cur.Type = records.TypeEvent
		cur.Name, cur.Date, cur.Location = ev.Name, ev.Date, ev.Location
	}
	talks, merged, msg := upsert(cur.Talks, talk, stamp)
	cur.Talks = talks
	if i >= 0 {
		out[i] = cur
	} else {
		out = append(out, cur)
	}
	return out, cur, merged, msg
}
