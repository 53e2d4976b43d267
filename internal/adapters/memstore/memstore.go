// Package memstore is an in-memory content store and user directory
// it mirrors the contents API contract: git blob shas as generation ids and optimistic concurrency on update
package memstore

import (
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	perr "gitevents/internal/platform/errors"
	"gitevents/internal/services/webhook/domain"
)

// Op names a store call for fault injection and call counting
type Op string

// Store operations
const (
	OpFetch  Op = "fetch"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpUser   Op = "user"
)

// Commit is one accepted write
type Commit struct {
	Path    string
	Message string
	SHA     string
}

type file struct {
	body []byte
	sha  string
}

type fault struct {
	op   Op
	path string
	err  error
}

// Store is safe for concurrent use
type Store struct {
	mu      sync.Mutex
	files   map[string]file
	users   map[string]domain.User
	commits []Commit
	calls   map[Op]int
	faults  []fault
}

// New returns an empty store
func New() *Store {
	return &Store{
		files: map[string]file{},
		users: map[string]domain.User{},
		calls: map[Op]int{},
	}
}

// BlobSHA is the git blob id of body, the generation id GitHub reports for file contents
func BlobSHA(body []byte) string {
	h := sha1.New()
	_, _ = h.Write([]byte("blob " + strconv.Itoa(len(body)) + "\x00"))
	_, _ = h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Seed stores body at path without recording a commit and returns its sha
func (s *Store) Seed(path string, body []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	sha := BlobSHA(body)
	s.files[path] = file{body: append([]byte(nil), body...), sha: sha}
	return sha
}

// LoadDir seeds every *.json file in dir under its base name
func (s *Store) LoadDir(dir string) (int, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, err
	}
	for _, m := range matches {
		b, err := os.ReadFile(m)
		if err != nil {
			return 0, err
		}
		s.Seed(filepath.Base(m), b)
	}
	return len(matches), nil
}

// AddUser registers a profile for FetchUser
func (s *Store) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Login] = u
}

// FailOn makes the next op on path return err; an empty path matches any path
func (s *Store) FailOn(op Op, path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, path: path, err: err})
}

// Body returns the stored bytes at path
func (s *Store) Body(path string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[path]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), f.body...), true
}

// Paths lists stored paths in lexical order
func (s *Store) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for p := range s.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Commits returns accepted writes in order
func (s *Store) Commits() []Commit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Commit(nil), s.commits...)
}

// Calls reports how many times op was invoked, failed calls included
func (s *Store) Calls(op Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// FetchFile implements domain.ContentStore
func (s *Store) FetchFile(ctx context.Context, path string) (domain.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpFetch, path); err != nil {
		return domain.File{}, err
	}
	f, ok := s.files[path]
	if !ok {
		return domain.File{}, domain.Wrap(perr.ErrorCodeNotFound, domain.ErrFileNotFound, nil, path+" not found")
	}
	return domain.File{
		Path:    path,
		Content: base64.StdEncoding.EncodeToString(f.body),
		SHA:     f.sha,
	}, nil
}

// CreateFile implements domain.ContentStore; creating over an existing path is a conflict
func (s *Store) CreateFile(ctx context.Context, path, content, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpCreate, path); err != nil {
		return err
	}
	if _, ok := s.files[path]; ok {
		return domain.Wrap(perr.ErrorCodeConflict, domain.ErrConflict, nil, path+" already exists")
	}
	return s.write(path, content, message)
}

// UpdateFile implements domain.ContentStore; sha must match the stored generation
func (s *Store) UpdateFile(ctx context.Context, path, content, sha, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpUpdate, path); err != nil {
		return err
	}
	f, ok := s.files[path]
	if !ok {
		return domain.Wrap(perr.ErrorCodeConflict, domain.ErrConflict, nil, path+" was deleted")
	}
	if f.sha != sha {
		return domain.Wrap(perr.ErrorCodeConflict, domain.ErrConflict, nil, path+" does not match "+sha)
	}
	return s.write(path, content, message)
}

// FetchUser implements domain.UserDirectory
// unknown logins resolve to a bare profile so dry runs work without fixtures
func (s *Store) FetchUser(ctx context.Context, login string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(ctx, OpUser, login); err != nil {
		return domain.User{}, err
	}
	if u, ok := s.users[login]; ok {
		return u, nil
	}
	return domain.User{Login: login}, nil
}

// enter counts the call and returns an injected fault or context error; caller holds mu
func (s *Store) enter(ctx context.Context, op Op, path string) error {
	s.calls[op]++
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "memstore: context done")
	}
	for i, f := range s.faults {
		if f.op == op && (f.path == "" || f.path == path) {
			s.faults = append(s.faults[:i], s.faults[i+1:]...)
			return f.err
		}
	}
	return nil
}

// write stores decoded content and records the commit; caller holds mu
func (s *Store) write(path, content, message string) error {
	body, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "memstore: content is not base64")
	}
	sha := BlobSHA(body)
	s.files[path] = file{body: body, sha: sha}
	s.commits = append(s.commits, Commit{Path: path, Message: message, SHA: sha})
	return nil
}
