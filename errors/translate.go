package errors

import (
	stdErrors "errors"

	ucErrors "github.com/johnquangdev/speech-summarizer/internal/usecase/errors"
)

// FromError converts usecase errors into an AppError. Errors that already
// are AppErrors are returned unchanged; anything unknown becomes internal.
func FromError(err error) AppError {
	var appErr AppError
	if stdErrors.As(err, &appErr) {
		return appErr
	}

	switch {
	case stdErrors.Is(err, ucErrors.ErrQuotaExceeded):
		return ErrAIQuotaExceeded(err)
	case stdErrors.Is(err, ucErrors.ErrUnsupportedFormat):
		appErr := ErrUnsupportedAudioFormat("")
		appErr.Details = nil
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, ucErrors.ErrAudioDecode):
		return ErrAudioDecodeFailed(err)
	case stdErrors.Is(err, ucErrors.ErrStorage):
		return ErrStorageFailed("upload", err)
	case stdErrors.Is(err, ucErrors.ErrEmptyTranscript):
		appErr := ErrAIEmptyTranscript()
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, ucErrors.ErrTranscription):
		return ErrAITranscriptionFailed(err)
	case stdErrors.Is(err, ucErrors.ErrSummarization):
		return ErrAISummaryFailed(err)
	case stdErrors.Is(err, ucErrors.ErrRunNotFound):
		appErr := ErrRunNotFound("")
		appErr.Details = nil
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, ucErrors.ErrServiceUnavailable):
		return ErrServiceUnavailable(err)
	case stdErrors.Is(err, ucErrors.ErrInvalidInput):
		appErr := ErrInvalidArgument("Invalid input")
		appErr.Raw = err
		return appErr
	case stdErrors.Is(err, ucErrors.ErrRunStore):
		return ErrCacheFailed("run store", err)
	}
	return ErrInternal(err)
}
