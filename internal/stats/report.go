package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
)

// reportDecimals is the fixed precision of every float in a report.
const reportDecimals = 4

// Render formats the buffer and its statistics as a JSON object:
//
//	{"samples":3, "length":2, "mean":1.7500, "std_deviation":1.0607, "data":[1.0000, 2.5000]}
//
// samples and length are read from the buffer at render time, so samples
// reports the allocated capacity, not the number of occupied slots.
// NaN and ±Inf are written as null.
func Render(b *Buffer, r Result) string {
	return string(appendReport(nil, b, r))
}

// WriteReport writes the Render output to w.
func WriteReport(w io.Writer, b *Buffer, r Result) error {
	if _, err := w.Write(appendReport(nil, b, r)); err != nil {
		return fmt.Errorf("write statistics report: %w", err)
	}
	return nil
}

// Summarize computes the statistics and renders them in one step.
func Summarize(b *Buffer) (Result, string) {
	r := Compute(b)
	return r, Render(b, r)
}

func appendReport(dst []byte, b *Buffer, r Result) []byte {
	data := b.occupied()

	dst = append(dst, `{"samples":`...)
	dst = strconv.AppendInt(dst, int64(b.Cap()), 10)
	dst = append(dst, `, "length":`...)
	dst = strconv.AppendInt(dst, int64(b.Len()), 10)
	dst = append(dst, `, "mean":`...)
	dst = appendFixed(dst, r.Mean)
	dst = append(dst, `, "std_deviation":`...)
	dst = appendFixed(dst, r.StdDeviation)
	dst = append(dst, `, "data":[`...)
	for i, v := range data {
		if i > 0 {
			dst = append(dst, ", "...)
		}
		dst = appendFixed(dst, v)
	}
	dst = append(dst, "]}"...)
	return dst
}

func appendFixed(dst []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(dst, "null"...)
	}
	return strconv.AppendFloat(dst, v, 'f', reportDecimals, 64)
}
