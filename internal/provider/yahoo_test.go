package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func yahooTestServer(t *testing.T, body string, status int) *YahooProvider {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)

	p := NewYahooProvider("")
	p.BaseURL = ts.URL
	p.Client = ts.Client()
	return p
}

const chartOK = `{"chart":{"result":[{
	"timestamp":[1609459200,1609545600,1609632000,1609718400],
	"indicators":{"quote":[{"close":[100.5,null,102.25,103.0]}]}
}],"error":null}}`

func TestYahooFetchDaily_ParsesAndSkipsNulls(t *testing.T) {
	p := yahooTestServer(t, chartOK, http.StatusOK)

	s, err := p.FetchDaily(context.Background(), "TEST", time.Unix(1609459200, 0), time.Unix(1609718400, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 points (null bar skipped), got %d", s.Len())
	}
	if s.Points[0].Price != 100.5 {
		t.Errorf("first price = %v, want 100.5", s.Points[0].Price)
	}
	if s.Source != "yahoo" {
		t.Errorf("source = %q, want yahoo", s.Source)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("series invariants violated: %v", err)
	}
}

func TestYahooFetchDaily_PrefersAdjClose(t *testing.T) {
	body := `{"chart":{"result":[{
		"timestamp":[1609459200,1609545600],
		"indicators":{"quote":[{"close":[100.0,101.0]}],
		"adjclose":[{"adjclose":[99.0,100.0]}]}
	}],"error":null}}`
	p := yahooTestServer(t, body, http.StatusOK)

	s, err := p.FetchDaily(context.Background(), "TEST", time.Unix(0, 0), time.Unix(1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Points[0].Price != 99.0 {
		t.Errorf("price = %v, want adjusted close 99.0", s.Points[0].Price)
	}
}

func TestYahooFetchDaily_APIError(t *testing.T) {
	body := `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`
	p := yahooTestServer(t, body, http.StatusOK)

	if _, err := p.FetchDaily(context.Background(), "NOPE", time.Unix(0, 0), time.Unix(1, 0)); err == nil {
		t.Fatal("expected error for API error payload")
	}
}

func TestYahooFetchDaily_EmptyResult(t *testing.T) {
	body := `{"chart":{"result":[],"error":null}}`
	p := yahooTestServer(t, body, http.StatusOK)

	if _, err := p.FetchDaily(context.Background(), "EMPTY", time.Unix(0, 0), time.Unix(1, 0)); err == nil {
		t.Fatal("expected error for empty result")
	}
}

func TestYahooFetchDaily_HTTPError(t *testing.T) {
	p := yahooTestServer(t, "too many requests", http.StatusTooManyRequests)

	if _, err := p.FetchDaily(context.Background(), "TEST", time.Unix(0, 0), time.Unix(1, 0)); err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestYahooSymbolMap(t *testing.T) {
	p := NewYahooProvider("")
	if got := p.yahooSymbol("SPX500"); got != "^GSPC" {
		t.Errorf("yahooSymbol(SPX500) = %q, want ^GSPC", got)
	}
	if got := p.yahooSymbol("BTC-USD"); got != "BTC-USD" {
		t.Errorf("yahooSymbol(BTC-USD) = %q, want passthrough", got)
	}
}
