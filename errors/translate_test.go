package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	ucErrors "github.com/johnquangdev/speech-summarizer/internal/usecase/errors"
)

func TestFromError(t *testing.T) {
	upstream := stdErrors.New("upstream")

	tests := []struct {
		name     string
		err      error
		wantCode ErrorCode
		wantHTTP int
	}{
		{
			name:     "unsupported format",
			err:      fmt.Errorf("%w: notes.txt", ucErrors.ErrUnsupportedFormat),
			wantCode: ErrorCode_AUDIO_UNSUPPORTED_FORMAT,
			wantHTTP: http.StatusBadRequest,
		},
		{
			name:     "decode",
			err:      fmt.Errorf("%w: %w", ucErrors.ErrAudioDecode, upstream),
			wantCode: ErrorCode_AUDIO_DECODE_FAILED,
			wantHTTP: http.StatusUnprocessableEntity,
		},
		{
			name:     "storage",
			err:      fmt.Errorf("%w: %w", ucErrors.ErrStorage, upstream),
			wantCode: ErrorCode_INTEGRATION_STORAGE_FAILED,
			wantHTTP: http.StatusBadGateway,
		},
		{
			name:     "transcription",
			err:      fmt.Errorf("%w: %w", ucErrors.ErrTranscription, upstream),
			wantCode: ErrorCode_AI_TRANSCRIPTION_FAILED,
			wantHTTP: http.StatusBadGateway,
		},
		{
			name:     "quota wins over stage",
			err:      fmt.Errorf("%w: %w: %w", ucErrors.ErrSummarization, ucErrors.ErrQuotaExceeded, upstream),
			wantCode: ErrorCode_AI_QUOTA_EXCEEDED,
			wantHTTP: http.StatusTooManyRequests,
		},
		{
			name:     "empty transcript",
			err:      ucErrors.ErrEmptyTranscript,
			wantCode: ErrorCode_AI_EMPTY_TRANSCRIPT,
			wantHTTP: http.StatusUnprocessableEntity,
		},
		{
			name:     "run not found",
			err:      fmt.Errorf("%w: abc", ucErrors.ErrRunNotFound),
			wantCode: ErrorCode_RUN_NOT_FOUND,
			wantHTTP: http.StatusNotFound,
		},
		{
			name:     "run store",
			err:      fmt.Errorf("%w: load run: %w", ucErrors.ErrRunStore, upstream),
			wantCode: ErrorCode_INTEGRATION_CACHE_FAILED,
			wantHTTP: http.StatusInternalServerError,
		},
		{
			name:     "shutting down",
			err:      ucErrors.ErrServiceUnavailable,
			wantCode: ErrorCode_SERVICE_UNAVAILABLE,
			wantHTTP: http.StatusServiceUnavailable,
		},
		{
			name:     "app error passes through",
			err:      fmt.Errorf("wrapped: %w", ErrPayloadTooLarge(25)),
			wantCode: ErrorCode_PAYLOAD_TOO_LARGE,
			wantHTTP: http.StatusRequestEntityTooLarge,
		},
		{
			name:     "unknown",
			err:      upstream,
			wantCode: ErrorCode_INTERNAL,
			wantHTTP: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", got.Code, tt.wantCode)
			}
			if got.HTTPCode != tt.wantHTTP {
				t.Errorf("HTTPCode = %d, want %d", got.HTTPCode, tt.wantHTTP)
			}
		})
	}
}
