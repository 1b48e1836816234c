// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import (
	"errors"
	"fmt"
)

// Common sentinels across storage, controller and transport layers.
var (
	// ErrNotFound indicates the requested key does not exist in a store.
	ErrNotFound = errors.New("not found")

	// ErrAttachmentRejected indicates a selected file violates size or type constraints.
	ErrAttachmentRejected = errors.New("attachment rejected")

	// ErrAttachmentTooLarge is an ErrAttachmentRejected for files over the size limit.
	ErrAttachmentTooLarge = fmt.Errorf("%w: file too large", ErrAttachmentRejected)

	// ErrAttachmentType is an ErrAttachmentRejected for unsupported MIME types.
	ErrAttachmentType = fmt.Errorf("%w: unsupported file type", ErrAttachmentRejected)

	// ErrTransport indicates the submission could not complete or was not accepted.
	ErrTransport = errors.New("submission failed")

	// ErrNotFinalStep indicates submit was requested before the last step.
	ErrNotFinalStep = errors.New("not at final step")

	// ErrSubmitInFlight indicates a submission is already running.
	ErrSubmitInFlight = errors.New("submission in flight")

	// ErrSealed indicates a sealed value could not be opened (wrong key or tampered).
	ErrSealed = errors.New("sealed value cannot be opened")
)
