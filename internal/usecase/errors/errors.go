package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrRunStore     = errors.New("run store unavailable")
)

// Pipeline stage errors. Every stage failure wraps exactly one of these.
var (
	ErrAudioDecode     = errors.New("audio decode failed")
	ErrStorage         = errors.New("object storage upload failed")
	ErrTranscription   = errors.New("transcription failed")
	ErrSummarization   = errors.New("summarization failed")
	ErrEmptyTranscript = errors.New("transcription returned no segments")
)

// Run errors
var (
	ErrRunNotFound        = errors.New("run not found")
	ErrUnsupportedFormat  = errors.New("unsupported audio format")
	ErrServiceUnavailable = errors.New("pipeline is shutting down")
)

// AI provider errors
var (
	ErrQuotaExceeded = errors.New("ai provider quota exceeded")
)
