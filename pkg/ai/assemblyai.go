package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/pkg/config"
	"github.com/johnquangdev/speech-summarizer/pkg/jobcontext"
)

// ObjectOpener reads a stored object back
type ObjectOpener interface {
	Open(ctx context.Context, loc entities.ObjectLocation) (io.ReadCloser, error)
}

// AssemblyAIClient transcribes stored audio with the AssemblyAI SDK
type AssemblyAIClient struct {
	client       *aai.Client
	objects      ObjectOpener
	languageCode string
	logger       *zap.Logger
}

// NewAssemblyAIClient creates an AssemblyAI client that reads audio from objects
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig, objects ObjectOpener, logger *zap.Logger) *AssemblyAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	languageCode := cfg.LanguageCode
	if languageCode == "" {
		languageCode = "ja"
	}
	return &AssemblyAIClient{
		client:       aai.NewClient(cfg.APIKey),
		objects:      objects,
		languageCode: languageCode,
		logger:       logger,
	}
}

// Transcribe uploads the stored object to AssemblyAI and waits for the
// transcript
func (c *AssemblyAIClient) Transcribe(ctx context.Context, loc entities.ObjectLocation) ([]entities.Segment, error) {
	logger := c.logger.With(jobcontext.Fields(ctx)...)

	audio, err := c.objects.Open(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", loc.URI(), err)
	}
	defer audio.Close()

	uploadURL, err := c.client.Upload(ctx, audio)
	if err != nil {
		return nil, classifyAssemblyAI(fmt.Errorf("failed to upload audio to AssemblyAI: %w", err))
	}

	params := &aai.TranscriptOptionalParams{
		LanguageCode:  aai.TranscriptLanguageCode(c.languageCode),
		Punctuate:     aai.Bool(true),
		FormatText:    aai.Bool(true),
		SpeakerLabels: aai.Bool(true),
	}

	logger.Info("🎙️ AssemblyAI transcription started", zap.String("location", loc.URI()))

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, uploadURL, params)
	if err != nil {
		return nil, classifyAssemblyAI(fmt.Errorf("AssemblyAI transcription failed: %w", err))
	}
	if transcript.Status == aai.TranscriptStatusError {
		return nil, fmt.Errorf("AssemblyAI transcription failed: %s", deref(transcript.Error))
	}

	segments := segmentsFromTranscript(transcript)
	logger.Info("✅ AssemblyAI transcription completed",
		zap.String("transcript_id", deref(transcript.ID)),
		zap.Int("segments", len(segments)),
	)
	return segments, nil
}

// segmentsFromTranscript turns utterances into segments; without utterances
// the full text becomes a single segment
func segmentsFromTranscript(t aai.Transcript) []entities.Segment {
	segments := make([]entities.Segment, 0, len(t.Utterances))
	for _, utt := range t.Utterances {
		text := deref(utt.Text)
		if text == "" {
			continue
		}
		segment := entities.Segment{Text: text}
		if utt.Confidence != nil {
			segment.Confidence = float32(*utt.Confidence)
		}
		segments = append(segments, segment)
	}
	if len(segments) > 0 {
		return segments
	}

	if text := deref(t.Text); text != "" {
		segment := entities.Segment{Text: text}
		if t.Confidence != nil {
			segment.Confidence = float32(*t.Confidence)
		}
		segments = append(segments, segment)
	}
	return segments
}

func classifyAssemblyAI(err error) error {
	var apiErr *aai.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusTooManyRequests {
		return rateLimited(err)
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
