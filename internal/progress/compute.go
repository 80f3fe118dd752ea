package progress

import (
	"math"

	"github.com/yukikurage/progress-bot/internal/constants"
)

// Outcome classifies the result of Compute.
type Outcome int

const (
	// Changed means Value holds a new unit count different from the current one.
	Changed Outcome = iota
	// NoChange means the clamped target equals the current unit count.
	NoChange
	// Invalid means the judgment could not be turned into a target.
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case Changed:
		return "changed"
	case NoChange:
		return "no_change"
	default:
		return "invalid"
	}
}

type Result struct {
	Outcome Outcome
	Value   int
}

// ScaleContext is the basis handed to the interpreter so it can ground relative phrases.
func ScaleContext(total int) int {
	if total > 0 {
		return total
	}
	return constants.VirtualScale
}

// Clamp bounds a unit count to [0, total], or to >= 0 when total is 0.
func Clamp(value, total int) int {
	if value < 0 {
		value = 0
	}
	if total > 0 && value > total {
		value = total
	}
	return value
}

// Compute converts a judgment into a new unit count for an entity with the given current
// and total units.
func Compute(j Judgment, current, total int) Result {
	var target int

	switch j.Kind {
	case KindUnits:
		target = current + j.Value
	case KindPercent:
		if total == 0 {
			// percent reads as raw units on the virtual scale
			target = j.Value
		} else {
			target = int(math.RoundToEven(float64(j.Value) / 100 * float64(total)))
		}
	case KindAbsoluteSet:
		target = j.Value
	case KindComplete:
		target = ScaleContext(total)
	default:
		return Result{Outcome: Invalid}
	}

	target = Clamp(target, total)
	if target == current {
		return Result{Outcome: NoChange, Value: current}
	}
	return Result{Outcome: Changed, Value: target}
}
