package models

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyEdited    = errors.New("message already edited")
	ErrEmptyContent     = errors.New("content is empty")
	ErrContentUnchanged = errors.New("content unchanged")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInternal         = errors.New("internal error")
)
