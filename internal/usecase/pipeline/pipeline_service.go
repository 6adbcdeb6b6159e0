package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/johnquangdev/speech-summarizer/errors"
	"github.com/johnquangdev/speech-summarizer/internal/domain/entities"
	"github.com/johnquangdev/speech-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/speech-summarizer/internal/infrastructure/audio"
	ucErrors "github.com/johnquangdev/speech-summarizer/internal/usecase/errors"
	pkgai "github.com/johnquangdev/speech-summarizer/pkg/ai"
	"github.com/johnquangdev/speech-summarizer/pkg/jobcontext"
	"github.com/johnquangdev/speech-summarizer/pkg/validator"
)

type pipelineService struct {
	normalizer  Normalizer
	uploader    Uploader
	transcriber Transcriber
	summarizer  Summarizer
	runRepo     repositories.RunRepository
	validator   *validator.CustomValidator
	logger      *zap.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	closed  bool
	done    map[uuid.UUID]chan struct{}
	workers sync.WaitGroup
}

// NewService creates a new pipeline service
func NewService(
	normalizer Normalizer,
	uploader Uploader,
	transcriber Transcriber,
	summarizer Summarizer,
	runRepo repositories.RunRepository,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &pipelineService{
		normalizer:  normalizer,
		uploader:    uploader,
		transcriber: transcriber,
		summarizer:  summarizer,
		runRepo:     runRepo,
		validator:   validator.New(),
		logger:      logger,
		baseCtx:     ctx,
		cancel:      cancel,
		done:        make(map[uuid.UUID]chan struct{}),
	}
}

// Start validates the upload, stages it to disk and launches the pipeline
func (s *pipelineService) Start(ctx context.Context, input StartInput) (*entities.Run, error) {
	startedAt := input.ReceivedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	if s.isClosed() {
		return nil, ucErrors.ErrServiceUnavailable
	}
	if err := s.validator.Validate(input); err != nil {
		if input.FileName != "" && !validator.IsAudioFile(input.FileName) {
			return nil, fmt.Errorf("%w: %s", ucErrors.ErrUnsupportedFormat, input.FileName)
		}
		return nil, fmt.Errorf("%w: %v", ucErrors.ErrInvalidInput, err)
	}

	staged, err := s.normalizer.Stage(input.FileName, input.Audio)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}

	run := entities.NewRun(input.FileName, startedAt)
	if err := s.runRepo.Save(ctx, run); err != nil {
		staged.Close()
		return nil, fmt.Errorf("%w: save run: %w", ucErrors.ErrRunStore, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		staged.Close()
		return nil, ucErrors.ErrServiceUnavailable
	}
	done := make(chan struct{})
	s.done[run.ID] = done
	s.workers.Add(1)
	s.mu.Unlock()

	s.logger.Info("📥 Run created",
		zap.String("run_id", run.ID.String()),
		zap.String("file_name", run.FileName),
	)

	// The background copy keeps mutating; callers get their own snapshot.
	snapshot := *run

	go func() {
		defer s.workers.Done()
		defer func() {
			s.mu.Lock()
			delete(s.done, run.ID)
			s.mu.Unlock()
			close(done)
		}()
		s.Process(s.baseCtx, run, staged)
	}()

	return &snapshot, nil
}

// Process runs normalize → upload → transcribe → summarize. A failure stops
// the run at that stage; results of earlier stages stay on the run.
func (s *pipelineService) Process(ctx context.Context, run *entities.Run, staged *audio.TempAudio) (*entities.Run, error) {
	defer staged.Close()

	ctx = jobcontext.JobBegin(ctx, run.ID, run.FileName)
	logger := s.logger.With(jobcontext.Fields(ctx)...)

	ctx = s.advance(ctx, run, entities.RunStateNormalizing)
	normalized, err := s.normalizer.Normalize(ctx, staged)
	if err != nil {
		return s.fail(ctx, run, entities.RunStateNormalizing, stageError(ucErrors.ErrAudioDecode, err))
	}
	defer normalized.Close()

	// Drop the upload as soon as the normalized copy exists
	staged.Close()

	ctx = s.advance(ctx, run, entities.RunStateUploading)
	loc, err := s.upload(ctx, normalized)
	if err != nil {
		return s.fail(ctx, run, entities.RunStateUploading, stageError(ucErrors.ErrStorage, err))
	}
	run.Location = loc
	logger.Info("☁️ Audio stored", zap.String("location", loc.URI()))

	ctx = s.advance(ctx, run, entities.RunStateTranscribing)
	segments, err := s.transcriber.Transcribe(ctx, loc)
	if err != nil {
		return s.fail(ctx, run, entities.RunStateTranscribing, stageError(ucErrors.ErrTranscription, err))
	}
	if len(segments) == 0 {
		return s.fail(ctx, run, entities.RunStateTranscribing, ucErrors.ErrEmptyTranscript)
	}
	run.Segments = segments
	s.advance(ctx, run, entities.RunStateTranscribed)
	logger.Info("📝 Transcript ready", zap.Int("segments", len(segments)))

	ctx = s.advance(ctx, run, entities.RunStateSummarizing)
	summary, err := s.summarizer.Summarize(ctx, run.Transcript())
	if err != nil {
		return s.fail(ctx, run, entities.RunStateSummarizing, stageError(ucErrors.ErrSummarization, err))
	}

	run.Complete(summary)
	s.save(ctx, run)

	logger.Info("✅ Run completed",
		zap.String("elapsed", FormatElapsed(run.Elapsed)),
	)
	return run, nil
}

func (s *pipelineService) upload(ctx context.Context, normalized *audio.TempAudio) (entities.ObjectLocation, error) {
	f, err := normalized.Open()
	if err != nil {
		return entities.ObjectLocation{}, fmt.Errorf("open normalized audio: %w", err)
	}
	defer f.Close()

	size, err := normalized.Size()
	if err != nil {
		return entities.ObjectLocation{}, fmt.Errorf("stat normalized audio: %w", err)
	}
	return s.uploader.Upload(ctx, f, size)
}

// Wait blocks until the run is terminal, then returns its snapshot
func (s *pipelineService) Wait(ctx context.Context, runID uuid.UUID) (*entities.Run, error) {
	run, err := s.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run.State.IsTerminal() {
		return run, nil
	}

	s.mu.Lock()
	done, ok := s.done[runID]
	s.mu.Unlock()
	if !ok {
		// Finished between the two reads, or not running in this process
		return s.Get(ctx, runID)
	}

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.Get(ctx, runID)
}

// Get returns the stored snapshot of a run
func (s *pipelineService) Get(ctx context.Context, runID uuid.UUID) (*entities.Run, error) {
	run, err := s.runRepo.FindByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: load run: %w", ucErrors.ErrRunStore, err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ucErrors.ErrRunNotFound, runID)
	}
	return run, nil
}

// Shutdown stops accepting runs, cancels in-flight ones and waits for them
func (s *pipelineService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.logger.Info("🛑 Stopping pipeline...")
	s.cancel()

	finished := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		s.logger.Info("✅ Pipeline stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("pipeline shutdown: %w", ctx.Err())
	}
}

func (s *pipelineService) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *pipelineService) advance(ctx context.Context, run *entities.Run, state entities.RunState) context.Context {
	run.Transition(state)
	s.save(ctx, run)
	return jobcontext.WithStage(ctx, string(state))
}

func (s *pipelineService) fail(ctx context.Context, run *entities.Run, stage entities.RunState, err error) (*entities.Run, error) {
	appErr := apperrors.FromError(err)
	run.Fail(stage, appErr.Code.String(), appErr.Message)
	s.save(ctx, run)

	s.logger.Error("❌ Run failed",
		zap.String("run_id", run.ID.String()),
		zap.String("stage", string(stage)),
		zap.Any("app_code", appErr.Code),
		zap.Error(err),
	)
	return run, err
}

// save persists a snapshot. Failures are logged; the run keeps going.
func (s *pipelineService) save(ctx context.Context, run *entities.Run) {
	if err := s.runRepo.Save(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("⚠️ Failed to store run snapshot",
			zap.String("run_id", run.ID.String()),
			zap.String("state", string(run.State)),
			zap.Error(err),
		)
	}
}

// stageError tags err with the stage sentinel, and with ErrQuotaExceeded
// when the provider rate limited the call
func stageError(sentinel, err error) error {
	if errors.Is(err, pkgai.ErrRateLimited) {
		return fmt.Errorf("%w: %w: %w", sentinel, ucErrors.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
