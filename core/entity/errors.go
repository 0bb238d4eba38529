package entity

import "errors"

var (
	// ErrEmptyEndpoint is returned when a resource is created without a
	// collection endpoint.
	ErrEmptyEndpoint = errors.New("entity: empty endpoint")

	// ErrEmptyID is returned when an operation that addresses a single
	// entity is called with an empty id.
	ErrEmptyID = errors.New("entity: empty id")

	// ErrEmptyFilename is returned when an upload is attempted without a
	// filename.
	ErrEmptyFilename = errors.New("entity: empty filename")
)
