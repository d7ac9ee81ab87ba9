package application

import "errors"

// Error kinds. Handlers pick the HTTP status with errors.Is against these.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Error is a client-facing failure of a given kind.
type Error struct {
	kind error
	msg  string
}

func newError(kind error, msg string) *Error { return &Error{kind: kind, msg: msg} }

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

var (
	// Unknown email and wrong password share one value so callers cannot tell them apart.
	ErrInvalidCredentials  = newError(ErrNotFound, "invalid email or password")
	ErrUserNotFound        = newError(ErrNotFound, "user not found")
	ErrEmailTaken          = newError(ErrConflict, "user with this email already exists")
	ErrMissingRefreshToken = newError(ErrUnauthorized, "refresh token is missing")

	ErrPostNotFound    = newError(ErrNotFound, "post not found")
	ErrPostForbidden   = newError(ErrForbidden, "you are not allowed to view this post")
	ErrPostNotOwned    = newError(ErrConflict, "post not found or you are not its author")
	ErrCommentNotOwned = newError(ErrConflict, "comment not found or you are not its author")

	ErrUnsupportedImage = newError(ErrBadRequest, "only .jpg, .jpeg and .png files are allowed")
	ErrImageTooLarge    = newError(ErrBadRequest, "file must not exceed 2 MiB")
	ErrEmptyUpload      = newError(ErrBadRequest, "file is required")
)
