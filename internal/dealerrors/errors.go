package dealerrors

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the services wraps exactly one of these.
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Repository-level errors
var (
	ErrPostNotFound  = fmt.Errorf("post %w", ErrNotFound)
	ErrUserNotFound  = fmt.Errorf("user %w", ErrNotFound)
	ErrRatingExists  = fmt.Errorf("%w: rating already exists for post and user", ErrConflict)
	ErrUnknownDriver = errors.New("unknown database driver")
)

// business logic errors
var (
	ErrInvalidPost       = fmt.Errorf("%w: invalid post details", ErrInvalidArgument)
	ErrInvalidScore      = fmt.Errorf("%w: rating must be 1-5", ErrInvalidArgument)
	ErrPendingPostExists = fmt.Errorf("%w: pending post exists", ErrConflict)
	ErrAlreadyRated      = fmt.Errorf("%w: already rated this post", ErrConflict)
	ErrPostNotRatable    = fmt.Errorf("%w: post is not open for rating", ErrConflict)
	ErrSelfRating        = fmt.Errorf("%w: cannot rate own post", ErrForbidden)
)
