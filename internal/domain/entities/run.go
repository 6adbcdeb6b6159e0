package entities

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunState represents the progress of one upload through the pipeline
type RunState string

const (
	RunStateIdle         RunState = "idle"         // Upload received, pipeline not started yet
	RunStateNormalizing  RunState = "normalizing"  // Converting to 16 kHz mono PCM WAV
	RunStateUploading    RunState = "uploading"    // Writing normalized audio to the bucket
	RunStateTranscribing RunState = "transcribing" // Waiting on the long-running recognition
	RunStateTranscribed  RunState = "transcribed"  // Transcript available, summary not requested yet
	RunStateSummarizing  RunState = "summarizing"  // Waiting on the language model
	RunStateSummarized   RunState = "summarized"   // Terminal success
	RunStateFailed       RunState = "error"        // Terminal failure
)

// IsTerminal reports whether no further transitions can happen
func (s RunState) IsTerminal() bool {
	return s == RunStateSummarized || s == RunStateFailed
}

// Segment is one contiguous span of recognized speech, top alternative only
type Segment struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence,omitempty"`
}

// ObjectLocation identifies a stored object (bucket + key)
type ObjectLocation struct {
	Scheme string `json:"scheme"`
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

// URI renders the location as <scheme>://<bucket>/<key>
func (l ObjectLocation) URI() string {
	if l.Bucket == "" && l.Key == "" {
		return ""
	}
	return l.Scheme + "://" + l.Bucket + "/" + l.Key
}

// RunError records which stage failed and why
type RunError struct {
	Stage   RunState `json:"stage"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// Run is the per-upload pipeline snapshot shown to the user
type Run struct {
	ID          uuid.UUID      `json:"id"`
	FileName    string         `json:"file_name"`
	State       RunState       `json:"state"`
	Location    ObjectLocation `json:"location"`
	Segments    []Segment      `json:"segments,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Error       *RunError      `json:"error,omitempty"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	Elapsed     time.Duration  `json:"elapsed,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewRun creates a run for an uploaded file. startedAt is when the upload
// arrived; elapsed time is measured from it.
func NewRun(fileName string, startedAt time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		FileName:  fileName,
		State:     RunStateIdle,
		StartedAt: startedAt,
		UpdatedAt: time.Now(),
	}
}

// Transcript joins the segments with single spaces, preserving order
func (r *Run) Transcript() string {
	return JoinSegments(r.Segments)
}

// JoinSegments concatenates segment texts separated by one space
func JoinSegments(segments []Segment) string {
	texts := make([]string, 0, len(segments))
	for _, s := range segments {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, " ")
}

// Transition moves the run to the next state
func (r *Run) Transition(state RunState) {
	r.State = state
	r.UpdatedAt = time.Now()
}

// Complete marks the run as successfully summarized
func (r *Run) Complete(summary string) {
	now := time.Now()
	r.Summary = summary
	r.State = RunStateSummarized
	r.CompletedAt = &now
	r.Elapsed = now.Sub(r.StartedAt)
	r.UpdatedAt = now
}

// Fail marks the run as failed during the given stage
func (r *Run) Fail(stage RunState, code, message string) {
	now := time.Now()
	r.Error = &RunError{Stage: stage, Code: code, Message: message}
	r.State = RunStateFailed
	r.CompletedAt = &now
	r.UpdatedAt = now
}
