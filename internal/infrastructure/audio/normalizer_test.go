package audio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// fakeExecutor records calls and optionally writes a WAV file to the
// output path (the last argument), mimicking ffmpeg
type fakeExecutor struct {
	calls    [][]string
	err      error
	channels uint16
	rate     uint32
}

func (f *fakeExecutor) Execute(_ context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		// ffmpeg may leave a partial file behind
		os.WriteFile(args[len(args)-1], []byte("partial"), 0o600)
		return "", f.err
	}
	data := buildWAV(f.channels, f.rate, 16, 160, false)
	return "", os.WriteFile(args[len(args)-1], data, 0o600)
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func stage(t *testing.T, n *Normalizer, name string, data []byte) *TempAudio {
	t.Helper()
	src, err := n.Stage(name, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Stage() error = %v", err)
	}
	t.Cleanup(func() { src.Close() })
	return src
}

func TestNormalize_CanonicalWAVPassesThrough(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{}
	n := NewNormalizer(exec, "ffmpeg", dir, nil)

	input := buildWAV(1, 16000, 16, 16000*10, false)
	src := stage(t, n, "テスト.wav", input)

	out, err := n.Normalize(context.Background(), src)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	defer out.Close()

	if len(exec.calls) != 0 {
		t.Errorf("ffmpeg should not run for canonical wav, got %v", exec.calls)
	}
	got, err := os.ReadFile(out.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, input) {
		t.Error("pass-through output differs from input")
	}
	if out.Path() == src.Path() {
		t.Error("normalized file must be a separate temp file")
	}
}

func TestNormalize_ConvertsToMono16k(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		input    []byte
		wantHint bool
	}{
		{name: "stereo wav", file: "meeting.wav", input: buildWAV(2, 44100, 16, 100, false)},
		{name: "mp3", file: "meeting.mp3", input: []byte("ID3 fake mp3")},
		{name: "m4a gets demuxer hint", file: "Voice Memo.M4A", input: []byte("fake m4a"), wantHint: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			exec := &fakeExecutor{channels: 1, rate: 16000}
			n := NewNormalizer(exec, "/usr/bin/ffmpeg", dir, nil)
			src := stage(t, n, tt.file, tt.input)

			out, err := n.Normalize(context.Background(), src)
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			defer out.Close()

			if len(exec.calls) != 1 {
				t.Fatalf("expected one ffmpeg call, got %d", len(exec.calls))
			}
			cmd := strings.Join(exec.calls[0], " ")
			for _, want := range []string{"/usr/bin/ffmpeg", "-ar 16000", "-ac 1", "-c:a pcm_s16le", "-i " + src.Path()} {
				if !strings.Contains(cmd, want) {
					t.Errorf("command %q missing %q", cmd, want)
				}
			}
			hasHint := strings.Contains(cmd, "-f mp4 -i")
			if hasHint != tt.wantHint {
				t.Errorf("mp4 demuxer hint = %v, want %v (%s)", hasHint, tt.wantHint, cmd)
			}

			format, err := ProbeWAVFile(out.Path())
			if err != nil {
				t.Fatal(err)
			}
			if !format.IsCanonical() {
				t.Errorf("output format = %s, want canonical", format)
			}
		})
	}
}

func TestNormalize_DecodeFailureLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{err: errors.New("Invalid data found when processing input")}
	n := NewNormalizer(exec, "ffmpeg", dir, nil)
	src := stage(t, n, "broken.mp3", []byte("garbage"))

	out, err := n.Normalize(context.Background(), src)
	if err == nil {
		out.Close()
		t.Fatal("expected decode error")
	}

	// Only the staged upload may remain
	files := listDir(t, dir)
	if len(files) != 1 {
		t.Errorf("temp dir has %v, want only the staged upload", files)
	}
}

func TestNormalize_RejectsNonCanonicalOutput(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{channels: 2, rate: 44100}
	n := NewNormalizer(exec, "ffmpeg", dir, nil)
	src := stage(t, n, "meeting.mp3", []byte("fake"))

	if _, err := n.Normalize(context.Background(), src); err == nil {
		t.Fatal("expected error for non canonical output")
	}
	if files := listDir(t, dir); len(files) != 1 {
		t.Errorf("temp dir has %v, want only the staged upload", files)
	}
}

func TestTempAudio_CloseRemovesFile(t *testing.T) {
	dir := t.TempDir()
	staged, err := Stage(dir, "a.wav", strings.NewReader("abc"))
	if err != nil {
		t.Fatal(err)
	}

	size, err := staged.Size()
	if err != nil || size != 3 {
		t.Fatalf("Size() = %d, %v", size, err)
	}
	if err := staged.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(staged.Path()); !os.IsNotExist(err) {
		t.Errorf("file still exists after Close: %v", err)
	}
	if err := staged.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
