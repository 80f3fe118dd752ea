package utils

import (
	"fmt"
	"time"
)

// Pace describes how fast an entity needs to move to meet its deadline versus how fast it has moved.
type Pace struct {
	Required string
	Actual   string
	Forecast string
}

// ComputePace reports false when there is not enough information: no fixed total, no deadline,
// already at the total, or a deadline before the creation date.
func ComputePace(createdAt time.Time, deadline *time.Time, today time.Time, current, total int) (Pace, bool) {
	if deadline == nil || total <= 0 || current >= total {
		return Pace{}, false
	}
	if DaysBetween(createdAt, *deadline) < 0 {
		return Pace{}, false
	}

	daysPassed := DaysBetween(createdAt, today)
	daysLeft := DaysBetween(today, *deadline)
	unitsLeft := total - current

	var p Pace
	var required, actual float64
	haveRequired, haveActual := false, false

	if daysLeft > 0 {
		required = float64(unitsLeft) / float64(daysLeft)
		haveRequired = true
		p.Required = fmt.Sprintf("%.2f units/day", required)
	} else {
		p.Required = "deadline passed"
	}

	switch {
	case current == 0:
		p.Actual = "not started yet"
	case daysPassed > 0:
		actual = float64(current) / float64(daysPassed)
		haveActual = true
		p.Actual = fmt.Sprintf("%.2f units/day", actual)
	default:
		p.Actual = "done today"
	}

	switch {
	case !haveRequired:
		p.Forecast = "Deadline passed, not finished."
	case current > 0 && !haveActual:
		p.Forecast = "Great start!"
	case haveActual && actual >= required:
		p.Forecast = "On track!"
	case haveActual:
		p.Forecast = "Need to speed up!"
	}

	return p, true
}
