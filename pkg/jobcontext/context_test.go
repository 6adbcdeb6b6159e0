package jobcontext

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestJobBegin(t *testing.T) {
	id := uuid.New()

	ctx := WithStage(JobBegin(context.Background(), id, "meeting.wav"), "uploading")

	if got, ok := GetJobID(ctx); !ok || got != id {
		t.Errorf("GetJobID() = %s, %v, want %s", got, ok, id)
	}
	if got, ok := GetFileName(ctx); !ok || got != "meeting.wav" {
		t.Errorf("GetFileName() = %q, %v, want meeting.wav", got, ok)
	}
	if got, ok := GetStage(ctx); !ok || got != "uploading" {
		t.Errorf("GetStage() = %q, %v, want uploading", got, ok)
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want []string
	}{
		{
			name: "empty context",
			ctx:  context.Background(),
			want: nil,
		},
		{
			name: "run only",
			ctx:  JobBegin(context.Background(), uuid.New(), "a.mp3"),
			want: []string{"run_id", "file_name"},
		},
		{
			name: "run and stage",
			ctx:  WithStage(JobBegin(context.Background(), uuid.New(), "a.mp3"), "transcribing"),
			want: []string{"run_id", "file_name", "stage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Fields(tt.ctx)
			if len(fields) != len(tt.want) {
				t.Fatalf("got %d fields, want %d", len(fields), len(tt.want))
			}
			for i, f := range fields {
				if f.Key != tt.want[i] {
					t.Errorf("field %d key = %q, want %q", i, f.Key, tt.want[i])
				}
			}
		})
	}
}

func TestCancellationPropagates(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := JobBegin(parent, uuid.New(), "a.wav")
	cancel()

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected derived context to be cancelled")
	}
}
