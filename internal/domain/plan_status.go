// internal/domain/plan_status.go
package domain

import (
	"fmt"
	"math"
	"time"
)

// PlanStatus is the display state of a plan relative to the current date.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusUpcoming  PlanStatus = "upcoming"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusUnknown   PlanStatus = "unknown" // Sentinel for an absent plan
)

// isoDateLayout keeps all status comparisons at calendar-date granularity.
// Lexicographic order on this layout equals chronological order.
const isoDateLayout = "2006-01-02"

// Color returns the display color tag associated with a status.
func (s PlanStatus) Color() string {
	switch s {
	case PlanStatusActive:
		return "#4CAF50" // green
	case PlanStatusUpcoming:
		return "#FF9800" // orange
	case PlanStatusCompleted:
		return "#9E9E9E" // gray
	default:
		return "#9E9E9E"
	}
}

// DerivedPlanStatus is computed from a plan and the current date on every
// request. It is never persisted.
type DerivedPlanStatus struct {
	Status          PlanStatus `json:"status"`
	Color           string     `json:"color"`
	Duration        string     `json:"duration"`
	WorkoutsPerWeek int        `json:"workoutsPerWeek"`
}

// ClassifyPlan derives the display status, formatted duration, and weekly
// workout count for a plan as of the given date.
//
// Tie-break order matters: a plan whose end date has passed is Completed
// even if its start date is also in the future relative to some clock skew;
// only then is a not-yet-started plan Upcoming; everything else is Active.
// A nil plan yields the Unknown sentinel rather than an error.
func ClassifyPlan(plan *Plan, today time.Time) DerivedPlanStatus {
	if plan == nil {
		return DerivedPlanStatus{
			Status: PlanStatusUnknown,
			Color:  PlanStatusUnknown.Color(),
		}
	}

	var status PlanStatus
	day := today.Format(isoDateLayout)
	start := plan.StartDate.Format(isoDateLayout)
	end := plan.EndDate.Format(isoDateLayout)
	switch {
	case end < day:
		status = PlanStatusCompleted
	case start > day:
		status = PlanStatusUpcoming
	default:
		status = PlanStatusActive
	}

	return DerivedPlanStatus{
		Status:          status,
		Color:           status.Color(),
		Duration:        FormatPlanDuration(plan.StartDate, plan.EndDate),
		WorkoutsPerWeek: plan.Schedule.WorkoutsPerWeek(),
	}
}

// FormatPlanDuration renders the span between two dates as a human-readable
// length: days under a week, weeks under a month, months beyond that.
// Week and month counts use floor division (7 and 30 days respectively).
func FormatPlanDuration(start, end time.Time) string {
	days := daySpan(start, end)
	switch {
	case days < 7:
		return pluralize(days, "day")
	case days < 30:
		return pluralize(days/7, "week")
	default:
		return pluralize(days/30, "month")
	}
}

// PlanProgress summarizes how far through its date range a plan is.
// Derived from the calendar only; there is no per-session completion data
// in this service yet.
type PlanProgress struct {
	TotalDays       int `json:"totalDays"`
	DaysElapsed     int `json:"daysElapsed"`
	DaysRemaining   int `json:"daysRemaining"`
	PercentComplete int `json:"percentComplete"`
}

// CalculatePlanProgress computes date-range progress for a plan as of the
// given date. Elapsed days are clamped to [0, TotalDays] so upcoming plans
// report 0% and completed plans report 100%.
func CalculatePlanProgress(plan *Plan, today time.Time) PlanProgress {
	if plan == nil {
		return PlanProgress{}
	}

	total := daySpan(plan.StartDate, plan.EndDate)
	elapsed := daySpan(plan.StartDate, today)
	if today.Format(isoDateLayout) < plan.StartDate.Format(isoDateLayout) {
		elapsed = 0
	}
	if elapsed > total {
		elapsed = total
	}

	percent := 0
	if total > 0 {
		percent = int(math.Round(float64(elapsed) / float64(total) * 100))
	}

	return PlanProgress{
		TotalDays:       total,
		DaysElapsed:     elapsed,
		DaysRemaining:   total - elapsed,
		PercentComplete: percent,
	}
}

// daySpan returns the absolute number of days between two dates, rounded up.
func daySpan(a, b time.Time) int {
	hours := math.Abs(b.Sub(a).Hours())
	return int(math.Ceil(hours / 24))
}

func pluralize(count int, unit string) string {
	if count > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", count, unit)
}
