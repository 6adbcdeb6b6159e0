package handler

import (
	"context"
	stdErrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/speech-summarizer/errors"
	rundto "github.com/johnquangdev/speech-summarizer/internal/adapter/dto/run"
	"github.com/johnquangdev/speech-summarizer/internal/adapter/presenter"
	"github.com/johnquangdev/speech-summarizer/internal/usecase/pipeline"
)

// Run handles pipeline run endpoints
type Run struct {
	svc         pipeline.Service
	maxUploadMB int
	logger      *zap.Logger
}

// NewRun creates a new run handler
func NewRun(svc pipeline.Service, maxUploadMB int, logger *zap.Logger) *Run {
	return &Run{svc: svc, maxUploadMB: maxUploadMB, logger: logger}
}

// CreateRun accepts an audio upload and starts the pipeline
// @Summary      Start a transcription run
// @Description  Uploads a .wav, .mp3 or .m4a file; the run is processed in the background unless wait=true
// @Tags         Runs
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true   "Audio file"
// @Param        wait  query     bool  false  "Block until the run is finished"
// @Success      200   {object}  map[string]interface{}  "Finished run (wait=true)"
// @Success      202   {object}  map[string]interface{}  "Run accepted"
// @Failure      400   {object}  map[string]interface{}  "Missing file or unsupported format"
// @Failure      413   {object}  map[string]interface{}  "File too large"
// @Router       /v1/runs [post]
func (h *Run) CreateRun(c echo.Context) error {
	receivedAt := time.Now()
	ctx := c.Request().Context()

	var query rundto.CreateRunQuery
	if err := echo.QueryParamsBinder(c).Bool("wait", &query.Wait).BindError(); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("wait must be a boolean"))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			return HandleError(h.logger, c, errors.ErrPayloadTooLarge(h.maxUploadMB))
		}
		return HandleError(h.logger, c, errors.ErrInvalidArgument("multipart field 'file' is required"))
	}
	if h.maxUploadMB > 0 && fileHeader.Size > int64(h.maxUploadMB)<<20 {
		return HandleError(h.logger, c, errors.ErrPayloadTooLarge(h.maxUploadMB))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer file.Close()

	run, err := h.svc.Start(ctx, pipeline.StartInput{
		FileName:   fileHeader.Filename,
		Audio:      file,
		ReceivedAt: receivedAt,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if !query.Wait {
		return HandleSuccessWithStatus(h.logger, c, http.StatusAccepted, presenter.ToRunResponse(run))
	}

	final, err := h.svc.Wait(ctx, run.ID)
	if err != nil {
		if stdErrors.Is(err, context.Canceled) && ctx.Err() != nil {
			// Client went away; the run keeps going in the background
			if h.logger != nil {
				h.logger.Info("client disconnected while waiting",
					zap.String("request_id", getRequestID(c)),
					zap.String("run_id", run.ID.String()),
				)
			}
			return nil
		}
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToRunResponse(final))
}

// GetRun returns the current snapshot of a run
// @Summary      Get run status
// @Description  Returns state, transcript segments, summary, location and elapsed time of a run
// @Tags         Runs
// @Produce      json
// @Param        id   path      string  true  "Run ID (UUID)"
// @Success      200  {object}  map[string]interface{}  "Run snapshot"
// @Failure      400  {object}  map[string]interface{}  "Invalid run ID"
// @Failure      404  {object}  map[string]interface{}  "Run not found"
// @Router       /v1/runs/{id} [get]
func (h *Run) GetRun(c echo.Context) error {
	id, err := bindRunID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	run, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToRunResponse(run))
}

func bindRunID(c echo.Context) (uuid.UUID, error) {
	var req rundto.GetRunRequest
	if err := c.Bind(&req); err != nil {
		return uuid.Nil, errors.ErrInvalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("run id must be a UUID")
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("run id must be a UUID")
	}
	return id, nil
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if stdErrors.As(err, &maxErr) {
		return true
	}
	var httpErr *echo.HTTPError
	return stdErrors.As(err, &httpErr) && httpErr.Code == http.StatusRequestEntityTooLarge
}
