package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/story-perf/internal/apperr"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/download"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/machine"
	"github.com/DjordjeVuckovic/story-perf/internal/perf/story"
	"github.com/labstack/echo/v4"
)

const maxUploadBytes = 8 << 20

// Controller is the part of the benchmark machine the router drives.
type Controller interface {
	Dispatch(ctx context.Context, ev machine.Event) (machine.Snapshot, error)
	Snapshot() machine.Snapshot
}

type BenchRouter struct {
	e         *echo.Echo
	machine   Controller
	stories   story.Provider
	downloads *download.Memory
}

func NewBenchRouter(e *echo.Echo, m Controller, stories story.Provider, downloads *download.Memory) *BenchRouter {
	return &BenchRouter{
		e:         e,
		machine:   m,
		stories:   stories,
		downloads: downloads,
	}
}

func (r *BenchRouter) Bind() {
	g := r.e.Group("/api")
	g.GET("/stories", r.listStories)
	g.POST("/stories/:id/select", r.selectStory)
	g.GET("/state", r.state)
	g.POST("/values", r.setValues)
	g.POST("/start", r.command(machine.StartAll{}))
	g.POST("/cancel", r.command(machine.Cancel{}))
	g.POST("/pin", r.command(machine.Pin{}))
	g.POST("/unpin", r.command(machine.Unpin{}))
	g.POST("/save", r.command(machine.Save{}))
	g.GET("/download", r.download)
	g.POST("/load", r.load)
}

// listStories godoc
// @Summary List stories
// @Tags stories
// @Produce json
// @Success 200 {array} machine.StoryInfo
// @Router /api/stories [get]
func (r *BenchRouter) listStories(c echo.Context) error {
	stories := r.stories.Stories()
	out := make([]machine.StoryInfo, 0, len(stories))
	for _, s := range stories {
		out = append(out, machine.StoryInfo{ID: s.ID, Name: s.Name, Interactions: s.InteractionNames()})
	}
	return c.JSON(http.StatusOK, out)
}

// selectStory godoc
// @Summary Make a story the active one
// @Tags stories
// @Produce json
// @Param id path string true "Story ID"
// @Success 200 {object} machine.Snapshot
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/stories/{id}/select [post]
func (r *BenchRouter) selectStory(c echo.Context) error {
	id := c.Param("id")
	if _, err := r.stories.Story(id); err != nil {
		if errors.Is(err, story.ErrNotFound) {
			return apperr.NewNotFound("story", id)
		}
		return err
	}
	return r.dispatch(c, machine.SelectStory{StoryID: id})
}

// state godoc
// @Summary Current benchmark state
// @Tags bench
// @Produce json
// @Success 200 {object} machine.Snapshot
// @Router /api/state [get]
func (r *BenchRouter) state(c echo.Context) error {
	return c.JSON(http.StatusOK, r.machine.Snapshot())
}

type valuesRequest struct {
	Copies  int `json:"copies"`
	Samples int `json:"samples"`
}

// setValues godoc
// @Summary Choose copies and samples for the next run
// @Tags bench
// @Accept json
// @Produce json
// @Param values body valuesRequest true "Run configuration"
// @Success 200 {object} machine.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/values [post]
func (r *BenchRouter) setValues(c echo.Context) error {
	var req valuesRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Copies < 1 || req.Samples < 1 {
		return apperr.NewValidation("copies and samples must be at least 1")
	}
	return r.dispatch(c, machine.SetValues{Copies: req.Copies, Samples: req.Samples})
}

// command godoc
// @Summary Send a control event (start, cancel, pin, unpin, save)
// @Tags bench
// @Produce json
// @Success 200 {object} machine.Snapshot
// @Failure 409 {object} map[string]string
// @Router /api/start [post]
// @Router /api/cancel [post]
// @Router /api/pin [post]
// @Router /api/unpin [post]
// @Router /api/save [post]
func (r *BenchRouter) command(ev machine.Event) echo.HandlerFunc {
	return func(c echo.Context) error {
		return r.dispatch(c, ev)
	}
}

// download godoc
// @Summary Fetch the last saved result file
// @Tags files
// @Produce json
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Router /api/download [get]
func (r *BenchRouter) download(c echo.Context) error {
	f, ok := r.downloads.Last()
	if !ok {
		return apperr.NewNotFound("download", "")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", f.Name))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, f.Data)
}

// load godoc
// @Summary Load a saved result file as the pinned baseline
// @Tags files
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "Result file"
// @Success 200 {object} machine.Snapshot
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/load [post]
func (r *BenchRouter) load(c echo.Context) error {
	data, name, err := readUpload(c)
	if err != nil {
		return err
	}
	return r.dispatch(c, machine.LoadFromFile{Data: data, FileName: name})
}

func (r *BenchRouter) dispatch(c echo.Context, ev machine.Event) error {
	if snap := r.machine.Snapshot(); !snap.Can(ev.Type()) {
		return apperr.NewConflict(fmt.Sprintf("%s is not available", ev.Type()), string(snap.State))
	}
	snap, err := r.machine.Dispatch(c.Request().Context(), ev)
	if err != nil {
		return fmt.Errorf("dispatch %s: %w", ev.Type(), err)
	}
	return c.JSON(http.StatusOK, snap)
}

func readUpload(c echo.Context) ([]byte, string, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, "", apperr.NewValidationWrap("missing file field", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		data, err := readLimited(f)
		if err != nil {
			return nil, "", err
		}
		return data, fh.Filename, nil
	}

	data, err := readLimited(req.Body)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", apperr.NewValidation("empty request body")
	}
	return data, c.QueryParam("name"), nil
}

// readLimited reads at most maxUploadBytes and rejects anything larger.
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > maxUploadBytes {
		return nil, apperr.NewValidation(fmt.Sprintf("result file exceeds %d bytes", maxUploadBytes))
	}
	return data, nil
}
