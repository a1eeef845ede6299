package domain

import "errors"

var (
	ErrForbidden            = errors.New("access forbidden")
	ErrSelfRoleChange       = errors.New("administrators cannot change their own role")
	ErrUnknownRole          = errors.New("unknown role")
	ErrNoToken              = errors.New("no credential token")
	ErrTokenMalformed       = errors.New("credential token is malformed")
	ErrTokenExpired         = errors.New("credential token has expired")
	ErrGenerationInProgress = errors.New("a website is already being generated")
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotAuthenticated     = errors.New("not authenticated")
)
