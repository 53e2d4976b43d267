package github

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"gitevents/internal/platform/metrics"
	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"
)

// StoreOptions points the store at the data repository
type StoreOptions struct {
	Owner  string
	Repo   string
	Branch string // empty means the repository default branch
	Dir    string // optional folder inside the repository holding the record files

	// Committer overrides the token owner as commit author when set
	Committer *Committer
}

// Store adapts the client to the webhook ports
type Store struct {
	c    *Client
	opts StoreOptions
}

var (
	_ domain.ContentStore  = (*Store)(nil)
	_ domain.UserDirectory = (*Store)(nil)
)

// NewStore returns a Store; owner and repo are required
func NewStore(c *Client, o StoreOptions) (*Store, error) {
	if c == nil || strings.TrimSpace(o.Owner) == "" || strings.TrimSpace(o.Repo) == "" {
		return nil, domain.Wrap(perr.ErrorCodeValidation, domain.ErrConfiguration, nil, "github store needs a client, owner and repo")
	}
	o.Dir = strings.Trim(o.Dir, "/")
	return &Store{c: c, opts: o}, nil
}

// Repo returns owner/repo
func (s *Store) Repo() string { return s.opts.Owner + "/" + s.opts.Repo }

func (s *Store) full(p string) string {
	if s.opts.Dir == "" {
		return p
	}
	return path.Join(s.opts.Dir, p)
}

func observe(op string, start time.Time, errp *error) { metrics.StoreOp(op, start, *errp) }

// FetchFile implements domain.ContentStore
func (s *Store) FetchFile(ctx context.Context, p string) (f domain.File, err error) {
	defer observe("fetch", time.Now(), &err)
	full := s.full(p)
	c, err := s.c.GetContent(ctx, s.opts.Owner, s.opts.Repo, full, s.opts.Branch)
	if err != nil {
		if StatusOf(err) == 404 {
			return domain.File{}, domain.Wrap(perr.ErrorCodeNotFound, domain.ErrFileNotFound, err, full+" not found")
		}
		return domain.File{}, err
	}
	return domain.File{Path: p, Content: c.Content, SHA: c.SHA}, nil
}

// CreateFile implements domain.ContentStore
func (s *Store) CreateFile(ctx context.Context, p, content, message string) (err error) {
	defer observe("create", time.Now(), &err)
	return s.put(ctx, p, content, "", message)
}

// UpdateFile implements domain.ContentStore
func (s *Store) UpdateFile(ctx context.Context, p, content, sha, message string) (err error) {
	defer observe("update", time.Now(), &err)
	if sha == "" {
		return perr.New(perr.ErrorCodeInvalidArgument, "update needs the sha of the version being replaced")
	}
	return s.put(ctx, p, content, sha, message)
}

func (s *Store) put(ctx context.Context, p, content, sha, message string) error {
	full := s.full(p)
	_, err := s.c.PutContent(ctx, s.opts.Owner, s.opts.Repo, full, PutContentRequest{
		Message:   message,
		Content:   content,
		SHA:       sha,
		Branch:    s.opts.Branch,
		Committer: s.opts.Committer,
	})
	if err == nil {
		return nil
	}
	switch StatusOf(err) {
	case 409, 422:
		return domain.Wrap(perr.ErrorCodeConflict, domain.ErrConflict, err, full+" changed since it was read")
	}
	return err
}

// FetchUser implements domain.UserDirectory
func (s *Store) FetchUser(ctx context.Context, login string) (u domain.User, err error) {
	defer observe("user", time.Now(), &err)
	gu, err := s.c.UserByLogin(ctx, login)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		ID:         gu.ID,
		Login:      gu.Login,
		Name:       gu.Name,
		Location:   gu.Location,
		GravatarID: gu.GravatarID,
		AvatarURL:  gu.AvatarURL,
	}, nil
}

// ErrNoQuota is returned by Ping when the core rate limit is exhausted
var ErrNoQuota = errors.New("github core rate limit exhausted")

// Ping checks GitHub is reachable and the token still has quota
func (s *Store) Ping(ctx context.Context) error {
	rl, err := s.c.RateLimit(ctx)
	if err != nil {
		return err
	}
	if rl.Resources.Core.Limit > 0 && rl.Resources.Core.Remaining == 0 {
		return perr.Wrap(ErrNoQuota, perr.ErrorCodeTooManyRequests, "github quota exhausted")
	}
	return nil
}
