package handler

import (
	"embed"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	rundto "github.com/johnquangdev/speech-summarizer/internal/adapter/dto/run"
	"github.com/johnquangdev/speech-summarizer/internal/adapter/presenter"
	"github.com/johnquangdev/speech-summarizer/internal/usecase/pipeline"
	"github.com/johnquangdev/speech-summarizer/pkg/validator"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer renders the embedded HTML templates for echo
type TemplateRenderer struct {
	templates *template.Template
}

// NewTemplateRenderer parses the embedded templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	t, err := template.New("").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: t}, nil
}

// Render implements echo.Renderer
func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// pageData feeds index.html
type pageData struct {
	Accept string
	Steps  []stepView
	Run    *rundto.RunResponse
	Error  string
}

type stepView struct {
	Name  string
	Class string
}

var pageSteps = []string{"normalizing", "uploading", "transcribing", "transcribed", "summarizing", "summarized"}

// Web serves the single-page UI
type Web struct {
	svc    pipeline.Service
	logger *zap.Logger
}

// NewWeb creates a new web handler
func NewWeb(svc pipeline.Service, logger *zap.Logger) *Web {
	return &Web{svc: svc, logger: logger}
}

func newPageData(run *rundto.RunResponse) pageData {
	return pageData{
		Accept: strings.Join(validator.AudioExtensions, ","),
		Steps:  stepViews(run),
		Run:    run,
	}
}

// stepViews marks finished, current and failed steps for the progress bar
func stepViews(run *rundto.RunResponse) []stepView {
	views := make([]stepView, len(pageSteps))
	for i, name := range pageSteps {
		views[i].Name = name
		if run == nil {
			continue
		}
		switch {
		case i+1 < run.Step:
			views[i].Class = "done"
		case i+1 == run.Step && run.Error != nil:
			views[i].Class = "failed"
		case i+1 == run.Step && run.Done:
			views[i].Class = "done"
		case i+1 == run.Step:
			views[i].Class = "current"
		}
	}
	return views
}

// Index renders the upload page
func (h *Web) Index(c echo.Context) error {
	return c.Render(http.StatusOK, "index.html", newPageData(nil))
}

// ShowRun renders the page pre-filled with one run, for bookmarking and
// browsers without JavaScript
func (h *Web) ShowRun(c echo.Context) error {
	data := newPageData(nil)

	id, err := bindRunID(c)
	if err != nil {
		data.Error = "Invalid run ID"
		return c.Render(http.StatusBadRequest, "index.html", data)
	}

	run, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("run not available", zap.String("run_id", id.String()), zap.Error(err))
		}
		data.Error = "Run not found or expired"
		return c.Render(http.StatusNotFound, "index.html", data)
	}

	return c.Render(http.StatusOK, "index.html", newPageData(presenter.ToRunResponse(run)))
}
