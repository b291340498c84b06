package pipeline

import "errors"

var (
	// ErrPrerequisiteMissing halts before any side effect.
	ErrPrerequisiteMissing = errors.New("prerequisite missing")
	// ErrCaptureFailure halts before anything is filed.
	ErrCaptureFailure = errors.New("capture failed")
	ErrFilingFailure  = errors.New("filing failed")
	// ErrInterrupted is a user abort before any artifact exists.
	ErrInterrupted = errors.New("interrupted")
)
