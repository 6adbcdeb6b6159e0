package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/audio"
)

// Service defines the interface for the transcription pipeline use case
type Service interface {
	// Start validates and stages an upload, then runs the pipeline in the
	// background. The returned run is in state idle.
	Start(ctx context.Context, input StartInput) (*entities.Run, error)

	// Process runs every stage for a staged upload and returns the final
	// snapshot. The staged file is removed before it returns.
	Process(ctx context.Context, run *entities.Run, staged *audio.TempAudio) (*entities.Run, error)

	// Wait blocks until the run reaches a terminal state or ctx is done
	Wait(ctx context.Context, runID uuid.UUID) (*entities.Run, error)

	// Get returns the current snapshot of a run
	Get(ctx context.Context, runID uuid.UUID) (*entities.Run, error)

	// Shutdown cancels in-flight runs and waits for them to finish
	Shutdown(ctx context.Context) error
}

// StartInput carries one uploaded file
type StartInput struct {
	FileName string    `validate:"required,audiofile"`
	Audio    io.Reader `validate:"required"`
	// ReceivedAt is when the upload began arriving; elapsed time counts
	// from here. Zero means now.
	ReceivedAt time.Time
}

// Normalizer turns an upload into canonical 16 kHz mono PCM WAV
type Normalizer interface {
	Stage(name string, r io.Reader) (*audio.TempAudio, error)
	Normalize(ctx context.Context, src *audio.TempAudio) (*audio.TempAudio, error)
}

// Uploader stores normalized audio and returns where it lives
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64) (entities.ObjectLocation, error)
}

// Transcriber turns stored audio into ordered transcript segments
type Transcriber interface {
	Transcribe(ctx context.Context, loc entities.ObjectLocation) ([]entities.Segment, error)
}

// Summarizer condenses a transcript
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}
