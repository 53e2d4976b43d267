package domain

import (
	"errors"
	"fmt"

	perr "gitevents/internal/platform/errors"
)

// Sentinels; every error the service returns is a *perr.Error whose chain holds one of these
var (
	ErrConfiguration     = errors.New("configuration error")
	ErrUnsupportedAction = errors.New("unsupported action")
	ErrNotFound          = errors.New("proposal not found")
	ErrMissingMilestone  = errors.New("missing milestone")
	ErrCorruptStorage    = errors.New("corrupt storage")
	ErrStorageRead       = errors.New("storage read failed")
	ErrStorageWrite      = errors.New("storage write failed")

	// store port sentinels
	ErrFileNotFound = errors.New("file not found")
	ErrConflict     = errors.New("file changed concurrently")
)

// Wrap builds a *perr.Error with code and msg whose chain holds sentinel and cause
func Wrap(code perr.ErrorCode, sentinel, cause error, msg string) error {
	chain := sentinel
	if cause != nil {
		chain = fmt.Errorf("%w: %w", sentinel, cause)
	}
	return perr.Wrap(chain, code, msg)
}

// StoreCode picks the perr code for a failed store call: transient codes survive, the rest is Storage
func StoreCode(err error) perr.ErrorCode {
	switch c := perr.CodeOf(err); c {
	case perr.ErrorCodeUnavailable, perr.ErrorCodeTooManyRequests, perr.ErrorCodeUnauthorized, perr.ErrorCodeForbidden:
		return c
	}
	if errors.Is(err, ErrConflict) {
		return perr.ErrorCodeConflict
	}
	return perr.ErrorCodeStorage
}

// Kind is a short label for metrics and logs
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUnsupportedAction):
		return "unsupported_action"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMissingMilestone):
		return "missing_milestone"
	case errors.Is(err, ErrCorruptStorage):
		return "corrupt_storage"
	case errors.Is(err, ErrStorageRead):
		return "storage_read"
	case errors.Is(err, ErrStorageWrite) && errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrStorageWrite):
		return "storage_write"
	default:
		return "other"
	}
}
