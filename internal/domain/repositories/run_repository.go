package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
)

// RunRepository keeps pipeline snapshots for the lifetime of a session
type RunRepository interface {
	// Save stores the latest snapshot of a run
	Save(ctx context.Context, run *entities.Run) error

	// FindByID returns nil, nil when the run is unknown or expired
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Run, error)
}
