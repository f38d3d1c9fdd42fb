package export

import "errors"

var (
	// ErrSinkFailed wraps every output write or close failure. Sink failures
	// abort the run.
	ErrSinkFailed = errors.New("export sink failed")

	// ErrUnknownVariant is returned for a variant other than flow or legacy
	ErrUnknownVariant = errors.New("unknown export variant")

	// ErrUploadFailed wraps object storage upload failures
	ErrUploadFailed = errors.New("export upload failed")
)
