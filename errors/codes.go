package errors

// ErrorCode identifies an application error in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL            ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT    ErrorCode = 1001
	ErrorCode_NOT_FOUND           ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD     ErrorCode = 1003
	ErrorCode_PAYLOAD_TOO_LARGE   ErrorCode = 1004
	ErrorCode_SERVICE_UNAVAILABLE ErrorCode = 1005

	// Audio
	ErrorCode_AUDIO_UNSUPPORTED_FORMAT ErrorCode = 2000
	ErrorCode_AUDIO_DECODE_FAILED      ErrorCode = 2001

	// Runs
	ErrorCode_RUN_NOT_FOUND ErrorCode = 3000

	// AI
	ErrorCode_AI_TRANSCRIPTION_FAILED ErrorCode = 4000
	ErrorCode_AI_SUMMARY_FAILED       ErrorCode = 4001
	ErrorCode_AI_QUOTA_EXCEEDED       ErrorCode = 4002
	ErrorCode_AI_EMPTY_TRANSCRIPT     ErrorCode = 4003

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED   ErrorCode = 5001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "HTTP_OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_PAYLOAD_TOO_LARGE:          "PAYLOAD_TOO_LARGE",
	ErrorCode_SERVICE_UNAVAILABLE:        "SERVICE_UNAVAILABLE",
	ErrorCode_AUDIO_UNSUPPORTED_FORMAT:   "AUDIO_UNSUPPORTED_FORMAT",
	ErrorCode_AUDIO_DECODE_FAILED:        "AUDIO_DECODE_FAILED",
	ErrorCode_RUN_NOT_FOUND:              "RUN_NOT_FOUND",
	ErrorCode_AI_TRANSCRIPTION_FAILED:    "AI_TRANSCRIPTION_FAILED",
	ErrorCode_AI_SUMMARY_FAILED:          "AI_SUMMARY_FAILED",
	ErrorCode_AI_QUOTA_EXCEEDED:          "AI_QUOTA_EXCEEDED",
	ErrorCode_AI_EMPTY_TRANSCRIPT:        "AI_EMPTY_TRANSCRIPT",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:   "INTEGRATION_CACHE_FAILED",
}

// String returns the symbolic name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// MarshalText renders the code by name in JSON payloads
func (c ErrorCode) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
