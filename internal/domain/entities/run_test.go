package entities

import (
	"testing"
	"time"
)

func TestJoinSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{name: "empty", segments: nil, want: ""},
		{name: "single", segments: []Segment{{Text: "テスト"}}, want: "テスト"},
		{
			name:     "order preserved",
			segments: []Segment{{Text: "一つ目。"}, {Text: "二つ目。"}, {Text: "三つ目。"}},
			want:     "一つ目。 二つ目。 三つ目。",
		},
		{
			name:     "duplicates kept",
			segments: []Segment{{Text: "はい"}, {Text: "はい"}},
			want:     "はい はい",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JoinSegments(tt.segments); got != tt.want {
				t.Errorf("JoinSegments() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectLocation_URI(t *testing.T) {
	loc := ObjectLocation{Scheme: "gs", Bucket: "audio-bucket", Key: "audio_files/abc"}
	if got := loc.URI(); got != "gs://audio-bucket/audio_files/abc" {
		t.Errorf("URI() = %q", got)
	}
	if got := (ObjectLocation{}).URI(); got != "" {
		t.Errorf("empty location URI() = %q, want empty", got)
	}
}

func TestRun_Lifecycle(t *testing.T) {
	run := NewRun("meeting.wav", time.Now())
	if run.State != RunStateIdle {
		t.Fatalf("initial state = %s, want idle", run.State)
	}

	run.StartedAt = time.Now().Add(-125 * time.Second)
	run.Transition(RunStateSummarizing)
	run.Complete("要約")

	if !run.State.IsTerminal() {
		t.Fatalf("state %s should be terminal", run.State)
	}
	if run.Elapsed < 125*time.Second {
		t.Errorf("elapsed = %s, want >= 125s", run.Elapsed)
	}
	if run.CompletedAt == nil {
		t.Error("expected completed_at")
	}
}

func TestRun_Fail(t *testing.T) {
	run := NewRun("meeting.mp3", time.Now())
	run.Segments = []Segment{{Text: "前半"}}
	run.Fail(RunStateSummarizing, "AI_SUMMARY_FAILED", "rate limited")

	if run.State != RunStateFailed {
		t.Fatalf("state = %s, want error", run.State)
	}
	if run.Error == nil || run.Error.Stage != RunStateSummarizing {
		t.Fatalf("error = %+v, want stage summarizing", run.Error)
	}
	if run.Transcript() != "前半" {
		t.Errorf("transcript should survive a later failure, got %q", run.Transcript())
	}
	if run.Elapsed != 0 {
		t.Errorf("elapsed should only be set on success, got %s", run.Elapsed)
	}
}
