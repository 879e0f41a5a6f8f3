package provider

import (
	"testing"
	"time"
)

const sampleRows = `2021-01-01 29000
2021-02-01 35000
2021-03-01 55000
2021-04-15 64000
2021-05-20 35000
2021-07-20 29000
2021-09-01 50000
2021-11-10 69000
2022-01-01 47000
2022-05-01 30000
2022-06-15 17000
2022-11-01 16000
2023-01-01 22000
2023-04-01 30000
2023-10-01 27000
2024-01-01 45000
2024-03-01 65000`

func TestParseManual_SampleRows(t *testing.T) {
	s, err := ParseManual(sampleRows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 17 {
		t.Fatalf("expected 17 points, got %d", s.Len())
	}
	if s.Points[0].Price != 29000 {
		t.Errorf("first price = %v, want 29000", s.Points[0].Price)
	}
	if s.Points[16].Price != 65000 {
		t.Errorf("last price = %v, want 65000", s.Points[16].Price)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("series invariants violated: %v", err)
	}
}

func TestParseManual_SkipsJunkLines(t *testing.T) {
	text := "header line\n2021-01-01 100\nnot a row\n2021-02-01 200\n\n"
	s, err := ParseManual(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", s.Len())
	}
}

func TestParseManual_DottedDatesAndCommaPrices(t *testing.T) {
	text := "2021.01.01 1,234.5\n2021.02.01, 2,000"
	s, err := ParseManual(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 points, got %d", s.Len())
	}
	if s.Points[0].Price != 1234.5 {
		t.Errorf("price = %v, want 1234.5", s.Points[0].Price)
	}
}

func TestParseManual_SortsUnorderedRows(t *testing.T) {
	text := "2022-01-01 200\n2021-01-01 100"
	s, err := ParseManual(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	if !s.Points[0].Time.Equal(want) {
		t.Errorf("first time = %v, want %v", s.Points[0].Time, want)
	}
}

func TestParseManual_DuplicateDatesDropped(t *testing.T) {
	text := "2021-01-01 100\n2021-01-01 150\n2021-01-02 200"
	s, err := ParseManual(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 points after dedupe, got %d", s.Len())
	}
	if s.Points[0].Price != 100 {
		t.Errorf("kept price = %v, want first occurrence 100", s.Points[0].Price)
	}
}

func TestParseManual_NoValidRows(t *testing.T) {
	for _, text := range []string{"", "garbage", "2021-13-45 oops", "hello world\nfoo bar"} {
		if _, err := ParseManual(text); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}
