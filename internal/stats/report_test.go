package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		values   []float64
		want     string
	}{
		{
			name:     "capacity above length",
			capacity: 3,
			values:   []float64{1.0, 2.5},
			want:     `{"samples":3, "length":2, "mean":1.7500, "std_deviation":1.0607, "data":[1.0000, 2.5000]}`,
		},
		{
			name:     "grown buffer",
			capacity: 1,
			values:   []float64{-1, 1, 3},
			want:     `{"samples":3, "length":3, "mean":1.0000, "std_deviation":2.0000, "data":[-1.0000, 1.0000, 3.0000]}`,
		},
		{
			name:     "empty",
			capacity: 4,
			want:     `{"samples":4, "length":0, "mean":null, "std_deviation":null, "data":[]}`,
		},
		{
			name:     "single sample",
			capacity: 1,
			values:   []float64{10},
			want:     `{"samples":1, "length":1, "mean":10.0000, "std_deviation":null, "data":[10.0000]}`,
		},
		{
			name:     "rounding",
			capacity: 2,
			values:   []float64{0.123456, 0.98765},
			want:     `{"samples":2, "length":2, "mean":0.5556, "std_deviation":0.6111, "data":[0.1235, 0.9877]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBuffer(t, tt.capacity, tt.values...)
			got := Render(b, Compute(b))
			if got != tt.want {
				t.Fatalf("Render:\n got %s\nwant %s", got, tt.want)
			}
			if !json.Valid([]byte(got)) {
				t.Fatalf("Render produced invalid JSON: %s", got)
			}
		})
	}
}

func TestRenderReadsBufferAtRenderTime(t *testing.T) {
	b := mustBuffer(t, 2, 1, 2)
	r := Compute(b)
	if err := b.Append(3); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got := Render(b, r)
	if !strings.HasPrefix(got, `{"samples":3, "length":3, "mean":1.5000,`) {
		t.Fatalf("unexpected header: %s", got)
	}
	if !strings.HasSuffix(got, `"data":[1.0000, 2.0000, 3.0000]}`) {
		t.Fatalf("unexpected data: %s", got)
	}
}

func TestRenderNonFiniteData(t *testing.T) {
	b := mustBuffer(t, 3, 1, math.Inf(-1), math.NaN())
	got := Render(b, Compute(b))
	if !strings.HasSuffix(got, `"data":[1.0000, null, null]}`) {
		t.Fatalf("unexpected data: %s", got)
	}
	if !json.Valid([]byte(got)) {
		t.Fatalf("invalid JSON: %s", got)
	}
}

func TestRenderDecodes(t *testing.T) {
	b := mustBuffer(t, 8, 2, 4, 4, 4, 5, 5, 7, 9)
	var decoded struct {
		Samples int       `json:"samples"`
		Length  int       `json:"length"`
		Mean    float64   `json:"mean"`
		StdDev  float64   `json:"std_deviation"`
		Data    []float64 `json:"data"`
	}
	if err := json.Unmarshal([]byte(Render(b, Compute(b))), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Samples != 8 || decoded.Length != 8 || decoded.Mean != 5 || decoded.StdDev != 2.1381 {
		t.Fatalf("decoded = %+v", decoded)
	}
	if len(decoded.Data) != 8 || decoded.Data[7] != 9 {
		t.Fatalf("decoded data = %v", decoded.Data)
	}
}

type failingWriter struct{}

var errWrite = errors.New("sink closed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestWriteReport(t *testing.T) {
	b := mustBuffer(t, 3, 1, 2.5)
	r := Compute(b)

	var buf bytes.Buffer
	if err := WriteReport(&buf, b, r); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if buf.String() != Render(b, r) {
		t.Fatalf("WriteReport wrote %q", buf.String())
	}

	if err := WriteReport(failingWriter{}, b, r); !errors.Is(err, errWrite) {
		t.Fatalf("expected wrapped write error, got %v", err)
	}
}

func TestSummarize(t *testing.T) {
	b := mustBuffer(t, 3, 1, 2.5)
	r, text := Summarize(b)
	if r.Mean != 1.75 || r.Length != 2 || r.SampleCount != 3 {
		t.Fatalf("result = %+v", r)
	}
	if text != Render(b, r) {
		t.Fatalf("text = %s", text)
	}
}
