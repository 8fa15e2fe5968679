package contract

import "errors"

var (
	ErrTrackerUnavailable = errors.New("issue tracker unavailable")
	ErrMalformedIssue     = errors.New("issue payload is malformed")
	ErrToolLookupFailed   = errors.New("tool lookup failed")
	ErrModelService       = errors.New("model service call failed")
	ErrInputValidation    = errors.New("invalid input")
	ErrTranscription      = errors.New("transcription failed")
	ErrPromptMissing      = errors.New("required prompt is missing")
	ErrValidation         = errors.New("validation failed")
)
