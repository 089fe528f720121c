package types

import "errors"

// Error taxonomy (sentinels)
var (
	ErrTranscription     = errors.New("transcription error")
	ErrCompletion        = errors.New("completion error")
	ErrInvalidUpload     = errors.New("invalid upload")
	ErrUploadTooLarge    = errors.New("upload too large")
	ErrMissingCredential = errors.New("missing credential")
)
