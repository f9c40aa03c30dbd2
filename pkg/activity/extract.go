package activity

import (
	"math"

	"github.com/benmeehan/activity-heatmap/pkg/geo"
)

const (
	// DefaultQuantum is the bucket size, in semicircles, used to remove GPS jitter.
	DefaultQuantum = 1000
	// DefaultStride keeps one sample in every DefaultStride.
	DefaultStride = 10
)

// Extract returns the quantized, decimated positions in a record table using
// the default quantum and stride.
func Extract(t Table) []geo.RawSample {
	return ExtractWith(t, DefaultQuantum, DefaultStride)
}

// ExtractWith is Extract with an explicit quantum and stride. Rows missing
// either coordinate are dropped before decimation.
func ExtractWith(t Table, quantum int64, stride int) []geo.RawSample {
	if !t.HasRecords || len(t.Records) == 0 {
		return []geo.RawSample{}
	}

	samples := make([]geo.RawSample, 0, len(t.Records))
	for _, r := range t.Records {
		if !r.HasLat || !r.HasLong {
			continue
		}
		samples = append(samples, geo.RawSample{
			Lat: Quantize(int64(r.Lat), quantum),
			Lon: Quantize(int64(r.Long), quantum),
		})
	}

	return Decimate(samples, stride)
}

// Quantize rounds v to the nearest multiple of quantum, ties to even.
func Quantize(v, quantum int64) int64 {
	if quantum <= 1 {
		return v
	}
	q := float64(quantum)
	return int64(math.RoundToEven(float64(v)/q) * q)
}

// Decimate keeps samples at indices 0, stride, 2*stride, ... in order.
func Decimate(samples []geo.RawSample, stride int) []geo.RawSample {
	if stride <= 1 {
		return samples
	}
	out := make([]geo.RawSample, 0, (len(samples)+stride-1)/stride)
	for i := 0; i < len(samples); i += stride {
		out = append(out, samples[i])
	}
	return out
}
