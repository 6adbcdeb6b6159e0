package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/cache"
)

// RunRepository stores run snapshots as JSON in a cache.Store
type RunRepository struct {
	store cache.Store
	ttl   time.Duration
}

// NewRunRepository creates a new run repository
func NewRunRepository(store cache.Store, ttl time.Duration) *RunRepository {
	return &RunRepository{store: store, ttl: ttl}
}

func runKey(id uuid.UUID) string {
	return fmt.Sprintf("run:%s", id.String())
}

// Save stores the latest snapshot of a run
func (r *RunRepository) Save(ctx context.Context, run *entities.Run) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	b, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	return r.store.Set(ctx, runKey(run.ID), string(b), r.ttl)
}

// FindByID retrieves a run snapshot; returns nil, nil if it does not exist
func (r *RunRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Run, error) {
	value, ok, err := r.store.Get(ctx, runKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var run entities.Run
	if err := json.Unmarshal([]byte(value), &run); err != nil {
		return nil, fmt.Errorf("failed to decode run: %w", err)
	}
	return &run, nil
}
