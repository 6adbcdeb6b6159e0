package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/johnquangdev/speech-summarizer/pkg/executor"
)

// Normalizer converts uploaded audio into 16 kHz mono 16-bit PCM WAV
type Normalizer struct {
	exec       executor.Executor
	ffmpegPath string
	tempDir    string
	logger     *zap.Logger
}

// NewNormalizer creates a normalizer that shells out to ffmpeg
func NewNormalizer(exec executor.Executor, ffmpegPath, tempDir string, logger *zap.Logger) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{
		exec:       exec,
		ffmpegPath: ffmpegPath,
		tempDir:    tempDir,
		logger:     logger,
	}
}

// Stage copies an upload into the normalizer's temp directory
func (n *Normalizer) Stage(name string, r io.Reader) (*TempAudio, error) {
	return Stage(n.tempDir, name, r)
}

// Normalize produces a new temp WAV file from src. The caller owns the
// returned file and must Close it; on error nothing is left on disk.
func (n *Normalizer) Normalize(ctx context.Context, src *TempAudio) (*TempAudio, error) {
	out, err := newTempWAV(n.tempDir, src.Name())
	if err != nil {
		return nil, err
	}

	if err := n.convert(ctx, src, out); err != nil {
		out.Close()
		return nil, err
	}

	format, err := ProbeWAVFile(out.Path())
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("read normalized wav header: %w", err)
	}
	if !format.IsCanonical() {
		out.Close()
		return nil, fmt.Errorf("normalized audio has unexpected format (%s)", format)
	}

	return out, nil
}

func (n *Normalizer) convert(ctx context.Context, src, out *TempAudio) error {
	if src.Ext() == ".wav" {
		format, err := ProbeWAVFile(src.Path())
		if err == nil && format.IsCanonical() {
			n.logger.Debug("audio already canonical, copying",
				zap.String("file_name", src.Name()),
				zap.String("format", format.String()),
			)
			return copyFile(src.Path(), out.Path())
		}
	}

	args := n.ffmpegArgs(src, out.Path())
	n.logger.Debug("converting audio with ffmpeg",
		zap.String("file_name", src.Name()),
		zap.Strings("args", args),
	)
	if _, err := n.exec.Execute(ctx, n.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg convert %s: %w", src.Name(), err)
	}
	return nil
}

// ffmpegArgs builds the conversion command.
// -ar 16000: sample rate expected by the speech service
// -ac 1: mono
// -c:a pcm_s16le: 16-bit little-endian linear PCM
func (n *Normalizer) ffmpegArgs(src *TempAudio, outPath string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	// MPEG-4 audio needs the demuxer named explicitly
	if src.Ext() == ".m4a" {
		args = append(args, "-f", "mp4")
	}
	args = append(args,
		"-i", src.Path(),
		"-vn",
		"-ar", strconv.Itoa(TargetSampleRate),
		"-ac", strconv.Itoa(TargetChannels),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		"-y",
		outPath,
	)
	return args
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy audio: %w", err)
	}
	return out.Close()
}
