package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for outcomes the HTTP layer branches on.
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrEmptyNotes       = errors.New("rejection requires non-empty notes")
	ErrApprovalOrder    = errors.New("final tier approval requires a prior first tier approval")
	ErrUnavailable      = errors.New("storage temporarily unavailable")
)

// InvalidTransitionError reports a lifecycle action attempted from a status
// outside its allowed source set.
type InvalidTransitionError struct {
	Action  string
	Current string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s from status '%s' (allowed: %s)",
		e.Action, e.Current, strings.Join(e.Allowed, ", "))
}

// LockConflictError reports an acquire attempt against an unexpired lock
// held by another user.
type LockConflictError struct {
	HeldBy    int
	HeldSince time.Time
}

func (e *LockConflictError) Error() string {
	return fmt.Sprintf("item locked by user %d since %s", e.HeldBy, e.HeldSince.Format(time.RFC3339))
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}

// IsLockConflict reports whether err is a LockConflictError.
func IsLockConflict(err error) bool {
	var lce *LockConflictError
	return errors.As(err, &lce)
}
