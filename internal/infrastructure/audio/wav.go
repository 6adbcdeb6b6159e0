package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// TargetSampleRate is the rate the speech service is configured for
	TargetSampleRate = 16000
	// TargetChannels is mono
	TargetChannels = 1
	// TargetBitsPerSample is 16-bit linear PCM
	TargetBitsPerSample = 16

	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

var errNotWAV = errors.New("not a RIFF/WAVE file")

// WAVFormat is the subset of the fmt chunk the pipeline cares about
type WAVFormat struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// IsCanonical reports whether the audio is 16 kHz mono 16-bit PCM
func (f WAVFormat) IsCanonical() bool {
	return f.AudioFormat == wavFormatPCM &&
		f.Channels == TargetChannels &&
		f.SampleRate == TargetSampleRate &&
		f.BitsPerSample == TargetBitsPerSample
}

func (f WAVFormat) String() string {
	return fmt.Sprintf("format=%d channels=%d rate=%d bits=%d", f.AudioFormat, f.Channels, f.SampleRate, f.BitsPerSample)
}

// ReadWAVFormat walks the RIFF chunks until it finds "fmt "
func ReadWAVFormat(r io.Reader) (WAVFormat, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return WAVFormat{}, errNotWAV
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return WAVFormat{}, errNotWAV
	}

	for {
		var chunkHeader [8]byte
		if _, err := io.ReadFull(r, chunkHeader[:]); err != nil {
			return WAVFormat{}, fmt.Errorf("fmt chunk not found: %w", err)
		}
		id := string(chunkHeader[0:4])
		size := binary.LittleEndian.Uint32(chunkHeader[4:8])

		if id != "fmt " {
			// Chunks are word aligned
			skip := int64(size) + int64(size%2)
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return WAVFormat{}, fmt.Errorf("skip %q chunk: %w", id, err)
			}
			continue
		}

		if size < 16 {
			return WAVFormat{}, fmt.Errorf("fmt chunk too short: %d bytes", size)
		}
		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return WAVFormat{}, fmt.Errorf("read fmt chunk: %w", err)
		}

		// Layout: format(2) channels(2) rate(4) byteRate(4) blockAlign(2) bits(2)
		format := WAVFormat{
			AudioFormat:   binary.LittleEndian.Uint16(body[0:2]),
			Channels:      binary.LittleEndian.Uint16(body[2:4]),
			SampleRate:    binary.LittleEndian.Uint32(body[4:8]),
			BitsPerSample: binary.LittleEndian.Uint16(body[14:16]),
		}

		// WAVE_FORMAT_EXTENSIBLE keeps the real format in the sub-format GUID
		if format.AudioFormat == wavFormatExtensible && size >= 26 {
			format.AudioFormat = binary.LittleEndian.Uint16(body[24:26])
		}

		return format, nil
	}
}

// ProbeWAVFile reads the WAV format of a file on disk
func ProbeWAVFile(path string) (WAVFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVFormat{}, err
	}
	defer f.Close()
	return ReadWAVFormat(f)
}
