package ranking

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEmptyScale   = errors.New("grading scale is empty")
	ErrScaleGap     = errors.New("grading scale must cover down to 0")
	ErrScaleOverlap = errors.New("grading scale bands must strictly descend")
)

type (
	// Band maps a minimum percentage (inclusive) to a grade.
	Band struct {
		Grade string
		Min   float64
	}

	// Scale is an ordered set of grade bands, highest minimum first.
	// A percentage is graded by the first band whose minimum it meets, so a
	// valid scale partitions [0, 100] completely and without overlap.
	Scale []Band
)

// DefaultScale mirrors the school's published grading table.
func DefaultScale() Scale {
	return Scale{
		{Grade: "A+", Min: 90},
		{Grade: "A", Min: 80},
		{Grade: "B", Min: 70},
		{Grade: "C", Min: 60},
		{Grade: "D", Min: 40},
		{Grade: "F", Min: 0},
	}
}

// ParseScale parses a "grade:min" comma-separated spec, e.g.
// "A+:90,A:80,B:70,C:60,D:40,F:0". Bands must be listed highest first.
func ParseScale(spec string) (Scale, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, ErrEmptyScale
	}

	var scale Scale
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		i := strings.LastIndex(part, ":")
		if i <= 0 || i == len(part)-1 {
			return nil, errors.Errorf("invalid scale band %q", part)
		}
		min, err := strconv.ParseFloat(part[i+1:], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid scale band %q", part)
		}
		scale = append(scale, Band{Grade: strings.TrimSpace(part[:i]), Min: min})
	}
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	return scale, nil
}

// Validate checks that the bands strictly descend and bottom out at 0 so that
// every percentage in [0, 100] maps to exactly one grade.
func (s Scale) Validate() error {
	if len(s) == 0 {
		return ErrEmptyScale
	}
	for i, band := range s {
		if i > 0 && band.Min >= s[i-1].Min {
			return ErrScaleOverlap
		}
	}
	if s[len(s)-1].Min != 0 {
		return ErrScaleGap
	}
	return nil
}

// Grade returns the grade for a percentage, evaluating bands highest-first.
func (s Scale) Grade(percentage float64) string {
	for _, band := range s {
		if percentage >= band.Min {
			return band.Grade
		}
	}
	// unreachable with a validated scale; negative input lands here
	return s[len(s)-1].Grade
}
