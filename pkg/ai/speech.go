package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/cenkalti/backoff/v4"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/audio"
	"github.com/johnquangdev/speech-summarizer/pkg/config"
	"github.com/johnquangdev/speech-summarizer/pkg/jobcontext"
)

var errOperationPending = errors.New("recognition still running")

// recognizeOperation is the part of the long-running operation handle the
// client relies on
type recognizeOperation interface {
	Poll(ctx context.Context, opts ...gax.CallOption) (*speechpb.LongRunningRecognizeResponse, error)
	Done() bool
	Name() string
}

type submitFunc func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (recognizeOperation, error)

// GoogleSpeechClient transcribes audio stored in Cloud Storage with
// Speech-to-Text long-running recognition
type GoogleSpeechClient struct {
	client          *speech.Client
	submit          submitFunc
	languageCode    string
	model           string
	pollInterval    time.Duration
	pollMaxInterval time.Duration
	logger          *zap.Logger
}

// NewGoogleSpeechClient dials the Speech-to-Text API. An empty
// credentialsFile falls back to application default credentials.
func NewGoogleSpeechClient(ctx context.Context, cfg *config.SpeechConfig, credentialsFile string, logger *zap.Logger) (*GoogleSpeechClient, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	c := newGoogleSpeechClient(func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) (recognizeOperation, error) {
		return client.LongRunningRecognize(ctx, req)
	}, cfg, logger)
	c.client = client
	return c, nil
}

func newGoogleSpeechClient(submit submitFunc, cfg *config.SpeechConfig, logger *zap.Logger) *GoogleSpeechClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &GoogleSpeechClient{
		submit:          submit,
		languageCode:    cfg.LanguageCode,
		model:           cfg.Model,
		pollInterval:    cfg.PollInterval,
		pollMaxInterval: cfg.PollMaxInterval,
		logger:          logger,
	}
	if c.languageCode == "" {
		c.languageCode = "ja-JP"
	}
	if c.model == "" {
		c.model = "latest_long"
	}
	if c.pollInterval <= 0 {
		c.pollInterval = 2 * time.Second
	}
	if c.pollMaxInterval < c.pollInterval {
		c.pollMaxInterval = c.pollInterval
	}
	return c
}

// Transcribe submits the object for recognition and waits for the result.
// Only the context ends the wait early.
func (c *GoogleSpeechClient) Transcribe(ctx context.Context, loc entities.ObjectLocation) ([]entities.Segment, error) {
	if loc.Scheme != "gs" {
		return nil, fmt.Errorf("speech-to-text reads only gs:// objects, got %q", loc.URI())
	}

	op, err := c.submit(ctx, c.request(loc.URI()))
	if err != nil {
		return nil, classifyGRPC(fmt.Errorf("failed to start recognition: %w", err))
	}

	logger := c.logger.With(jobcontext.Fields(ctx)...)
	logger.Info("🎙️ Recognition started",
		zap.String("operation", op.Name()),
		zap.String("location", loc.URI()),
	)

	resp, err := c.wait(ctx, op)
	if err != nil {
		return nil, classifyGRPC(err)
	}

	segments := segmentsFromResults(resp.GetResults())
	logger.Info("✅ Recognition completed",
		zap.String("operation", op.Name()),
		zap.Int("segments", len(segments)),
	)
	return segments, nil
}

func (c *GoogleSpeechClient) request(uri string) *speechpb.LongRunningRecognizeRequest {
	return &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            audio.TargetSampleRate,
			LanguageCode:               c.languageCode,
			EnableAutomaticPunctuation: true,
			UseEnhanced:                true,
			Model:                      c.model,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Uri{Uri: uri},
		},
	}
}

// wait polls the operation on an exponential schedule with no elapsed cap
func (c *GoogleSpeechClient) wait(ctx context.Context, op recognizeOperation) (*speechpb.LongRunningRecognizeResponse, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.pollInterval
	bo.MaxInterval = c.pollMaxInterval
	bo.MaxElapsedTime = 0

	var resp *speechpb.LongRunningRecognizeResponse
	poll := func() error {
		r, err := op.Poll(ctx)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("recognition %s failed: %w", op.Name(), err))
		}
		if !op.Done() {
			return errOperationPending
		}
		resp = r
		return nil
	}
	notify := func(_ error, next time.Duration) {
		c.logger.Debug("recognition still running",
			append(jobcontext.Fields(ctx),
				zap.String("operation", op.Name()),
				zap.Duration("next_poll", next),
			)...,
		)
	}

	if err := backoff.RetryNotify(poll, backoff.WithContext(bo, ctx), notify); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("recognition %s finished without a response", op.Name())
	}
	return resp, nil
}

// Close releases the underlying gRPC connection
func (c *GoogleSpeechClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// segmentsFromResults keeps the top alternative of every result in order
func segmentsFromResults(results []*speechpb.SpeechRecognitionResult) []entities.Segment {
	segments := make([]entities.Segment, 0, len(results))
	for _, result := range results {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		segments = append(segments, entities.Segment{
			Text:       alts[0].GetTranscript(),
			Confidence: alts[0].GetConfidence(),
		})
	}
	return segments
}

func classifyGRPC(err error) error {
	if status.Code(err) == codes.ResourceExhausted {
		return rateLimited(err)
	}
	return err
}
