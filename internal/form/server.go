// Package form serves the local browser form that collects render inputs and
// runs the pipeline synchronously, the desktop-app workflow turned into a
// small localhost web page.
package form

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"MysteryChart/internal/pipeline"
	"MysteryChart/internal/recorder"
)

const dateLayout = "2006-01-02"

// Runner executes one render request. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Server is the form UI.
type Server struct {
	echo     *echo.Echo
	runner   Runner
	recorder recorder.Recorder
}

// New creates the form server. The recorder may be nil.
func New(runner Runner, rec recorder.Recorder) *Server {
	s := &Server{
		echo:     echo.New(),
		runner:   runner,
		recorder: rec,
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/render", s.handleRender)
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return s
}

// Start serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("form server listening")
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleIndex(c echo.Context) error {
	return s.renderPage(c, http.StatusOK, s.defaultData())
}

func (s *Server) handleRender(c echo.Context) error {
	data := pageData{
		Ticker:   strings.TrimSpace(c.FormValue("ticker")),
		Start:    strings.TrimSpace(c.FormValue("start")),
		End:      strings.TrimSpace(c.FormValue("end")),
		Manual:   c.FormValue("manual"),
		Answer:   strings.TrimSpace(c.FormValue("answer")),
		Reveal:   c.FormValue("reveal") != "",
		UseAudio: c.FormValue("audio") != "",
	}

	req := pipeline.Request{
		Ticker:     data.Ticker,
		ManualText: data.Manual,
		Label:      data.Answer,
		Reveal:     data.Reveal,
		UseAudio:   data.UseAudio,
	}

	// Input validation before touching the pipeline.
	if strings.TrimSpace(req.ManualText) == "" {
		if req.Ticker == "" {
			data.Status = "Ticker or manual data is required."
			data.StatusClass = "err"
			return s.renderPage(c, http.StatusBadRequest, data)
		}
		var err error
		if req.Start, err = time.Parse(dateLayout, data.Start); err != nil {
			data.Status = "Start date must look like 2021-01-01."
			data.StatusClass = "err"
			return s.renderPage(c, http.StatusBadRequest, data)
		}
		if req.End, err = time.Parse(dateLayout, data.End); err != nil {
			data.Status = "End date must look like 2021-01-01."
			data.StatusClass = "err"
			return s.renderPage(c, http.StatusBadRequest, data)
		}
		if !req.Start.Before(req.End) {
			data.Status = "Start date must be before end date."
			data.StatusClass = "err"
			return s.renderPage(c, http.StatusBadRequest, data)
		}
	}

	res, err := s.runner.Run(c.Request().Context(), req)
	if err != nil {
		log.Error().Err(err).Str("category", pipeline.Category(err)).Msg("render failed")
		data.Status = fmt.Sprintf("%s: %v", pipeline.Category(err), err)
		data.StatusClass = "err"
		return s.renderPage(c, http.StatusOK, data)
	}

	data.Status = fmt.Sprintf("Finished: %s (%d frames in %s)",
		res.OutputPath, res.Frames, res.Elapsed.Round(time.Second))
	data.StatusClass = "ok"
	return s.renderPage(c, http.StatusOK, data)
}

func (s *Server) renderPage(c echo.Context, status int, data pageData) error {
	if s.recorder != nil {
		if jobs, err := s.recorder.RecentJobs(10); err == nil {
			for _, j := range jobs {
				data.Jobs = append(data.Jobs, jobRow{
					When:    j.StartedAt.Format("2006-01-02 15:04"),
					Label:   j.Label,
					Status:  j.Status,
					Output:  j.OutputPath,
					Elapsed: j.Elapsed.Round(time.Second).String(),
				})
			}
		}
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTMLBlob(status, buf.Bytes())
}

func (s *Server) defaultData() pageData {
	now := time.Now()
	return pageData{
		Start:    now.AddDate(-5, 0, 0).Format(dateLayout),
		End:      now.Format(dateLayout),
		UseAudio: true,
	}
}
