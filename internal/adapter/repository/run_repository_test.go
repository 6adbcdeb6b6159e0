package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/cache"
)

func TestRunRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	repo := NewRunRepository(store, time.Minute)

	run := entities.NewRun("meeting.m4a", time.Now())
	run.Transition(entities.RunStateTranscribed)
	run.Location = entities.ObjectLocation{Scheme: "gs", Bucket: "b", Key: "audio_files/x"}
	run.Segments = []entities.Segment{{Text: "テスト", Confidence: 0.9}}

	if err := repo.Save(ctx, run); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := repo.FindByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got == nil {
		t.Fatal("expected run")
	}
	if got.State != entities.RunStateTranscribed {
		t.Errorf("state = %s, want transcribed", got.State)
	}
	if got.Location.URI() != "gs://b/audio_files/x" {
		t.Errorf("location = %s", got.Location.URI())
	}
	if got.Transcript() != "テスト" {
		t.Errorf("transcript = %q", got.Transcript())
	}
}

func TestRunRepository_NotFound(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	repo := NewRunRepository(store, time.Minute)

	got, err := repo.FindByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil run, got %+v", got)
	}
}

func TestRunRepository_SaveNil(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	defer store.Close()
	repo := NewRunRepository(store, time.Minute)

	if err := repo.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil run")
	}
}
