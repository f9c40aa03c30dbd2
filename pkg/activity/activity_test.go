package activity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/benmeehan/activity-heatmap/pkg/activity"
	"github.com/benmeehan/activity-heatmap/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(lat, long int32) activity.Record {
	return activity.Record{Lat: lat, Long: long, HasLat: true, HasLong: true}
}

func TestQuantize(t *testing.T) {
	cases := []struct {
		in, want int64
	}{
		{0, 0},
		{499, 0},
		{501, 1000},
		{1500, 2000},
		{2500, 2000},
		{-1500, -2000},
		{-2500, -2000},
		{618123456, 618123000},
		{2147483647, 2147484000},
		{-2147483648, -2147484000},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.want, activity.Quantize(tc.in, 1000), "Quantize(%d)", tc.in)
	}

	assert.Equal(t, int64(1234), activity.Quantize(1234, 1))
}

func TestDecimate(t *testing.T) {
	samples := make([]geo.RawSample, 25)
	for i := range samples {
		samples[i] = geo.RawSample{Lat: int64(i)}
	}

	out := activity.Decimate(samples, 10)

	require.Len(t, out, 3)
	assert.Equal(t, int64(0), out[0].Lat)
	assert.Equal(t, int64(10), out[1].Lat)
	assert.Equal(t, int64(20), out[2].Lat)

	assert.Len(t, activity.Decimate(samples, 1), 25)
	assert.Empty(t, activity.Decimate(nil, 10))
}

func TestExtract_DropsMissingFieldsBeforeDecimation(t *testing.T) {
	table := activity.Table{HasRecords: true}
	for i := 0; i < 30; i++ {
		r := record(int32(i*1000), int32(-i*1000))
		if i%2 == 1 {
			r.HasLong = false
		}
		table.Records = append(table.Records, r)
	}

	out := activity.Extract(table)

	// 15 usable rows (even i) decimated to indices 0 and 10 → i = 0 and i = 20.
	require.Len(t, out, 2)
	assert.Equal(t, geo.RawSample{Lat: 0, Lon: 0}, out[0])
	assert.Equal(t, geo.RawSample{Lat: 20000, Lon: -20000}, out[1])
}

func TestExtract_QuantizesBeforeDecimation(t *testing.T) {
	table := activity.Table{HasRecords: true, Records: []activity.Record{record(618123456, -101234567)}}

	out := activity.Extract(table)

	require.Len(t, out, 1)
	assert.Equal(t, geo.RawSample{Lat: 618123000, Lon: -101235000}, out[0])
}

func TestExtract_NoRecords(t *testing.T) {
	out := activity.Extract(activity.Table{})
	assert.NotNil(t, out)
	assert.Empty(t, out)

	out = activity.Extract(activity.Table{HasRecords: true, Records: []activity.Record{{Lat: 1}}})
	assert.Empty(t, out)
}

func TestExtractWith_CustomStride(t *testing.T) {
	table := activity.Table{HasRecords: true}
	for i := 0; i < 6; i++ {
		table.Records = append(table.Records, record(int32(i*1000), 0))
	}

	out := activity.ExtractWith(table, 1000, 2)

	require.Len(t, out, 3)
	assert.Equal(t, int64(4000), out[2].Lat)
}

func TestFitDecoder_UnreadableFile(t *testing.T) {
	dec := activity.NewFitDecoder()

	_, err := dec.Decode(filepath.Join(t.TempDir(), "missing.fit"))

	assert.ErrorIs(t, err, activity.ErrUnreadable)
}

func TestFitDecoder_CorruptFileIsRecoverable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.fit")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a fit stream"), 0600))
	dec := activity.NewFitDecoder()

	table, err := dec.Decode(path)

	require.NoError(t, err)
	assert.False(t, table.HasRecords)
	require.NotEmpty(t, table.Errors)
	assert.ErrorIs(t, table.Errors[0], activity.ErrDecode)
	assert.Empty(t, activity.Extract(table))
}
