package presenter

import (
	rundto "github.com/johnquangdev/speech-summarizer/internal/adapter/dto/run"
	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/internal/usecase/pipeline"
)

// runSteps orders the states shown by the progress indicator
var runSteps = []entities.RunState{
	entities.RunStateNormalizing,
	entities.RunStateUploading,
	entities.RunStateTranscribing,
	entities.RunStateTranscribed,
	entities.RunStateSummarizing,
	entities.RunStateSummarized,
}

// ToRunResponse converts a Run entity to RunResponse DTO
func ToRunResponse(r *entities.Run) *rundto.RunResponse {
	if r == nil {
		return nil
	}

	segments := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		segments = append(segments, s.Text)
	}

	response := &rundto.RunResponse{
		ID:          r.ID.String(),
		FileName:    r.FileName,
		State:       string(r.State),
		Done:        r.State.IsTerminal(),
		Step:        stepOf(r),
		TotalSteps:  len(runSteps),
		Location:    r.Location.URI(),
		Segments:    segments,
		Transcript:  r.Transcript(),
		Summary:     r.Summary,
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	// Elapsed is only reported for successful runs
	if r.State == entities.RunStateSummarized {
		response.Elapsed = pipeline.FormatElapsed(r.Elapsed)
	}

	if r.Error != nil {
		response.Error = &rundto.RunErrorResponse{
			Stage:   string(r.Error.Stage),
			Code:    r.Error.Code,
			Message: r.Error.Message,
		}
	}

	return response
}

// stepOf returns the 1-based progress step; failed runs report the stage
// they failed in
func stepOf(r *entities.Run) int {
	state := r.State
	if state == entities.RunStateFailed && r.Error != nil {
		state = r.Error.Stage
	}
	for i, s := range runSteps {
		if s == state {
			return i + 1
		}
	}
	return 0
}
