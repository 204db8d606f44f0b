package lib

import (
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// PreconditionError signals that a referenced entity no longer exists in the
// state the operation assumed. Callers typically re-fetch and retry or
// surface the message as-is.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func NewPreconditionError(format string, args ...any) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness collision and names the identifier
// that already exists, so the response can say which slug collided.
type ConflictError struct {
	Entity     string
	Identifier string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.Identifier)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func NewConflictError(entity, identifier string) *ConflictError {
	return &ConflictError{Entity: entity, Identifier: identifier}
}

// BatchItemError is one failed item of a batch operation
type BatchItemError struct {
	Index int    `json:"index"`
	Err   string `json:"error"`
}

// PartialBatchError reports a batch where some items succeeded and some
// failed. Succeeded results stay usable; only the listed indexes failed.
type PartialBatchError struct {
	Total  int              `json:"total"`
	Failed []BatchItemError `json:"failed"`
}

func (e *PartialBatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d items failed:", len(e.Failed), e.Total)
	for _, f := range e.Failed {
		fmt.Fprintf(&sb, " [%d] %s;", f.Index, f.Err)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "23503": // foreign_key_violation
			return ErrConflict
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}
