package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// buildWAV returns a PCM WAV file with the given layout and silent samples.
// When extraChunk is set a LIST chunk with an odd size precedes "fmt ".
func buildWAV(channels uint16, rate uint32, bits uint16, samples int, extraChunk bool) []byte {
	var body bytes.Buffer
	body.WriteString("WAVE")

	if extraChunk {
		body.WriteString("LIST")
		binary.Write(&body, binary.LittleEndian, uint32(3))
		body.Write([]byte{'a', 'b', 'c', 0})
	}

	blockAlign := channels * bits / 8
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(16))
	binary.Write(&body, binary.LittleEndian, uint16(wavFormatPCM))
	binary.Write(&body, binary.LittleEndian, channels)
	binary.Write(&body, binary.LittleEndian, rate)
	binary.Write(&body, binary.LittleEndian, rate*uint32(blockAlign))
	binary.Write(&body, binary.LittleEndian, blockAlign)
	binary.Write(&body, binary.LittleEndian, bits)

	data := make([]byte, samples*int(blockAlign))
	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(len(data)))
	body.Write(data)

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeWAV(t *testing.T, path string, channels uint16, rate uint32, bits uint16) {
	t.Helper()
	if err := os.WriteFile(path, buildWAV(channels, rate, bits, 160, false), 0o600); err != nil {
		t.Fatalf("write wav: %v", err)
	}
}

func TestReadWAVFormat(t *testing.T) {
	tests := []struct {
		name          string
		data          []byte
		wantErr       bool
		wantCanonical bool
	}{
		{name: "canonical", data: buildWAV(1, 16000, 16, 10, false), wantCanonical: true},
		{name: "canonical after odd chunk", data: buildWAV(1, 16000, 16, 10, true), wantCanonical: true},
		{name: "stereo 44.1k", data: buildWAV(2, 44100, 16, 10, false)},
		{name: "8 bit", data: buildWAV(1, 16000, 8, 10, false)},
		{name: "not riff", data: []byte("ID3\x03\x00\x00\x00\x00\x00\x00\x00\x00"), wantErr: true},
		{name: "truncated", data: []byte("RIFF"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := ReadWAVFormat(bytes.NewReader(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadWAVFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && format.IsCanonical() != tt.wantCanonical {
				t.Errorf("IsCanonical() = %v, want %v (%s)", format.IsCanonical(), tt.wantCanonical, format)
			}
		})
	}
}

func TestProbeWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.wav")
	writeWAV(t, path, 2, 48000, 16)

	format, err := ProbeWAVFile(path)
	if err != nil {
		t.Fatalf("ProbeWAVFile() error = %v", err)
	}
	if format.Channels != 2 || format.SampleRate != 48000 {
		t.Errorf("format = %s", format)
	}
}
