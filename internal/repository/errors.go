package repository

import "errors"

var (
	ErrMalformedAtom      = errors.New("malformed package atom")
	ErrLocalDrift         = errors.New("local changes detected in repository cache")
	ErrCacheUninitialized = errors.New("repository cache not initialized")
	ErrRefresh            = errors.New("repository refresh failed")
)
