package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string", in: `"30m"`, want: 30 * time.Minute},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Duration{Duration: 90 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}

func TestParseNaive(t *testing.T) {
	got, err := ParseNaive("2035-06-06T08:54:16.209000")
	require.NoError(t, err)
	assert.Equal(t, "2035-06-06T08:54:16.209000", FormatNaive(got))

	got, err = ParseNaive("2035-06-06T10:54:16+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2035, 6, 6, 10, 54, 16, 0, time.UTC), got)

	_, err = ParseNaive("yesterday")
	require.Error(t, err)
}

func TestParseNaive_Forms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"space separator", "2024-03-01 12:30:15", time.Date(2024, 3, 1, 12, 30, 15, 0, time.UTC)},
		{"no seconds", "2024-03-01T12:30", time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)},
		{"single digit fields", "2024-3-1T9:05", time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)},
		{"short fraction", "2024-03-01T12:30:15.5", time.Date(2024, 3, 1, 12, 30, 15, 500000000, time.UTC)},
		{"fraction past micros", "2024-03-01T12:30:15.123456789", time.Date(2024, 3, 1, 12, 30, 15, 123456000, time.UTC)},
		{"zulu", "2024-03-01T12:30:15Z", time.Date(2024, 3, 1, 12, 30, 15, 0, time.UTC)},
		{"offset without colon", "2024-03-01T12:30:15-0530", time.Date(2024, 3, 1, 12, 30, 15, 0, time.UTC)},
		{"offset hours only", "2024-03-01T12:30:15+03", time.Date(2024, 3, 1, 12, 30, 15, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNaive(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNaive_Rejects(t *testing.T) {
	for _, in := range []string{
		"2024-03-01",
		"2024-13-01T00:00",
		"2024-02-30T00:00",
		"2024-03-01T24:00",
		"2024-03-01T12:60",
		"2024-03-01T12:30:15+25:00",
		"2024-03-01T12:30:15 UTC",
		"",
	} {
		_, err := ParseNaive(in)
		assert.ErrorIs(t, err, ErrInvalidDateTime, in)
	}
}

func TestStripZone_KeepsWallClock(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	in := time.Date(2030, 1, 15, 12, 0, 0, 0, msk)

	assert.Equal(t, time.Date(2030, 1, 15, 12, 0, 0, 0, time.UTC), StripZone(in))
	assert.Equal(t, time.Date(2030, 1, 15, 9, 0, 0, 0, time.UTC), Naive(in))
}

func TestFormatNaive(t *testing.T) {
	assert.Equal(t, "2024-01-02T03:04:05", FormatNaive(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.Equal(t, "2024-01-02T03:04:05.000001", FormatNaive(time.Date(2024, 1, 2, 3, 4, 5, 1000, time.UTC)))
}
