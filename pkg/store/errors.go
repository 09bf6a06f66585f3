package store

import "errors"

var (
	ErrQueryFailed  = errors.New("store: query failed")
	ErrUnknownTable = errors.New("store: unknown table")
)
