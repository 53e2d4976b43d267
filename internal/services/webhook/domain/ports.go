package domain

import "context"

// File is a stored file body (base64) and its generation id
type File struct {
	Path    string
	Content string
	SHA     string
}

// ContentStore is the backing store for record files
// FetchFile returns an error matching ErrFileNotFound when the path does not exist
// UpdateFile must reject a stale sha with an error matching ErrConflict
type ContentStore interface {
	FetchFile(ctx context.Context, path string) (File, error)
	CreateFile(ctx context.Context, path, content, message string) error
	UpdateFile(ctx context.Context, path, content, sha, message string) error
}

// User is a speaker profile as the user directory reports it
type User struct {
	ID         int64
	Login      string
	Name       string
	Location   string
	GravatarID string
	AvatarURL  string
}

// UserDirectory resolves a login to a profile
type UserDirectory interface {
	FetchUser(ctx context.Context, login string) (User, error)
}

// Document is a parsed issue body: rendered HTML plus front-matter attributes
type Document struct {
	HTML       string
	Attributes map[string]any
}

// Parser turns an issue body into a Document
type Parser interface {
	Parse(markdown string) (Document, error)
}

// Dispatcher routes one delivery
type Dispatcher interface {
	Dispatch(ctx context.Context, p Payload) (Result, error)
}
