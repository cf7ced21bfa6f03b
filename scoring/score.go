package scoring

import (
	"fmt"
	"math"
)

const (
	MinPosition = 1
	MaxPosition = 20
)

// DefaultMultipliers is the stock battle-royale placement table used when a
// tournament does not override its scoring config.
var DefaultMultipliers = map[int]float64{
	1:  2.0,
	2:  1.8,
	3:  1.8,
	4:  1.6,
	5:  1.6,
	6:  1.4,
	7:  1.4,
	8:  1.2,
	9:  1.2,
	10: 1.0,
}

// Input carries everything needed to score one match result. Manual, when
// non-nil, is used verbatim as the score and the multiplier table is ignored.
type Input struct {
	Kills       int
	Position    int
	Multipliers map[int]float64
	Manual      *float64
}

// Result is the outcome of scoring a single entry. Callers must refuse to
// persist a match when Valid is false.
type Result struct {
	Score  float64
	Valid  bool
	Errors []string
}

// Compute scores a single match result. In automatic mode the score is
// kills × multiplier for the finish position, defaulting the multiplier to
// 1.0 for positions absent from the table. Output is rounded to one decimal.
func Compute(in Input) Result {
	var errs []string

	if in.Manual != nil {
		if *in.Manual < 0 {
			errs = append(errs, fmt.Sprintf("manual score must not be negative, got %.1f", *in.Manual))
		}
		if len(errs) > 0 {
			return Result{Score: 0, Valid: false, Errors: errs}
		}
		return Result{Score: round1(*in.Manual), Valid: true}
	}

	if in.Kills < 0 {
		errs = append(errs, fmt.Sprintf("kills must not be negative, got %d", in.Kills))
	}
	if in.Position < MinPosition || in.Position > MaxPosition {
		errs = append(errs, fmt.Sprintf("position must be between %d and %d, got %d", MinPosition, MaxPosition, in.Position))
	}
	if len(errs) > 0 {
		return Result{Score: 0, Valid: false, Errors: errs}
	}

	multiplier := 1.0
	if m, ok := in.Multipliers[in.Position]; ok {
		multiplier = m
	}

	return Result{Score: round1(float64(in.Kills) * multiplier), Valid: true}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
