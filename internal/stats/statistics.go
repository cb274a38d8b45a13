package stats

import "math"

// Result holds statistics derived from a Buffer at one point in time.
type Result struct {
	SampleCount  int // buffer capacity when computed
	Length       int // occupied samples when computed
	Mean         float64
	StdDeviation float64 // sample standard deviation, divisor Length-1
}

// Compute scans the occupied samples twice: once for the mean, once for
// the squared deviations. The buffer is not modified.
//
// An empty buffer yields NaN for both mean and standard deviation. A
// single sample gives sqrt(0/0), which is NaN as well.
func Compute(b *Buffer) Result {
	data := b.occupied()
	n := float64(len(data))

	res := Result{
		SampleCount: b.Cap(),
		Length:      len(data),
	}
	if len(data) == 0 {
		res.Mean = math.NaN()
		res.StdDeviation = math.NaN()
		return res
	}

	var sum float64
	for _, v := range data {
		sum += v
	}
	res.Mean = sum / n

	var sq float64
	for _, v := range data {
		d := v - res.Mean
		sq += d * d
	}
	res.StdDeviation = math.Sqrt(sq / (n - 1))

	return res
}
