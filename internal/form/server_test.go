package form

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"MysteryChart/internal/pipeline"
)

type fakeRunner struct {
	req  pipeline.Request
	res  *pipeline.Result
	err  error
	runs int
}

func (f *fakeRunner) Run(_ context.Context, req pipeline.Request) (*pipeline.Result, error) {
	f.req = req
	f.runs++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

func postForm(t *testing.T, s *Server, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s := New(&fakeRunner{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MYSTERY CHART GENERATOR") {
		t.Error("index page missing title")
	}
}

func TestRender_ManualSuccess(t *testing.T) {
	runner := &fakeRunner{res: &pipeline.Result{
		OutputPath: "videos/Mystery_BITCOIN.mp4",
		Frames:     660,
		Elapsed:    3 * time.Second,
	}}
	s := New(runner, nil)

	rec := postForm(t, s, url.Values{
		"manual": {"2021-01-01 100\n2021-02-01 200"},
		"answer": {"BITCOIN"},
		"reveal": {"on"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Finished: videos/Mystery_BITCOIN.mp4") {
		t.Errorf("missing success status: %s", rec.Body.String())
	}
	if !runner.req.Reveal || runner.req.Label != "BITCOIN" {
		t.Errorf("request = %+v", runner.req)
	}
}

func TestRender_TickerDatesParsed(t *testing.T) {
	runner := &fakeRunner{res: &pipeline.Result{OutputPath: "x.mp4"}}
	s := New(runner, nil)

	rec := postForm(t, s, url.Values{
		"ticker": {"BTC-USD"},
		"start":  {"2021-01-01"},
		"end":    {"2024-01-01"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if runner.req.Start.Year() != 2021 || runner.req.End.Year() != 2024 {
		t.Errorf("range = %v..%v", runner.req.Start, runner.req.End)
	}
}

func TestRender_MissingInput(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, nil)

	rec := postForm(t, s, url.Values{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if runner.runs != 0 {
		t.Error("pipeline must not run on invalid input")
	}
}

func TestRender_BadDates(t *testing.T) {
	s := New(&fakeRunner{}, nil)
	rec := postForm(t, s, url.Values{
		"ticker": {"BTC-USD"},
		"start":  {"january"},
		"end":    {"2024-01-01"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = postForm(t, s, url.Values{
		"ticker": {"BTC-USD"},
		"start":  {"2024-01-01"},
		"end":    {"2021-01-01"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d for inverted range, want 400", rec.Code)
	}
}

func TestRender_FailureKeepsFormUsable(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("%w: no rows", pipeline.ErrDataUnavailable)}
	s := New(runner, nil)

	rec := postForm(t, s, url.Values{"manual": {"junk but non-empty"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "DataUnavailable") {
		t.Errorf("failure category not surfaced: %s", body)
	}
	if !strings.Contains(body, "GENERATE VIDEO") {
		t.Error("form should remain usable after a failure")
	}

	// A second, valid attempt goes through.
	runner.err = nil
	runner.res = &pipeline.Result{OutputPath: "ok.mp4"}
	rec = postForm(t, s, url.Values{"manual": {"2021-01-01 100\n2021-02-01 200"}})
	if !strings.Contains(rec.Body.String(), "Finished: ok.mp4") {
		t.Error("second attempt after failure should succeed")
	}
}

func TestHealthz(t *testing.T) {
	s := New(&fakeRunner{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
