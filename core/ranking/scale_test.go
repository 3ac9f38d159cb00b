package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScale(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    Scale
		wantErr error
	}{
		{
			name: "default spec",
			spec: "A+:90,A:80,B:70,C:60,D:40,F:0",
			want: DefaultScale(),
		},
		{
			name: "whitespace tolerated",
			spec: " A+:90, A:80 ,F:0",
			want: Scale{{Grade: "A+", Min: 90}, {Grade: "A", Min: 80}, {Grade: "F", Min: 0}},
		},
		{name: "empty", spec: "", wantErr: ErrEmptyScale},
		{name: "not descending", spec: "A:80,B:90,F:0", wantErr: ErrScaleOverlap},
		{name: "duplicate min", spec: "A:80,B:80,F:0", wantErr: ErrScaleOverlap},
		{name: "no floor", spec: "A:90,B:40", wantErr: ErrScaleGap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScale(tt.spec)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Every percentage in [0, 100] maps to exactly one grade: Grade picks the
// first matching band, and a validated scale's bands are disjoint by
// construction, so checking total coverage is enough.
func TestScale_Grade_partitionsRange(t *testing.T) {
	scale := DefaultScale()
	require.NoError(t, scale.Validate())

	boundaries := map[float64]string{
		100: "A+", 90: "A+", 89.99: "A",
		80: "A", 79.99: "B",
		70: "B", 69.99: "C",
		60: "C", 59.99: "D",
		40: "D", 39.99: "F",
		0: "F",
	}
	for pct, want := range boundaries {
		assert.Equal(t, want, scale.Grade(pct), "pct=%v", pct)
	}

	for pct := 0.0; pct <= 100; pct += 0.25 {
		got := scale.Grade(pct)
		assert.NotEmpty(t, got, "pct=%v must map to a grade", pct)
	}
}
