// internal/domain/schedule.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Display names for schedule slots that do not resolve to a template.
const (
	RestDayName         = "Rest Day"
	UnknownTemplateName = "Unknown Template"
)

// DaySchedule is one display-ready row of a plan's weekly schedule.
type DaySchedule struct {
	Day         string `json:"day"`
	WorkoutName string `json:"workoutName"`
	RestDay     bool   `json:"restDay"`
}

// ResolveTemplateName maps a schedule slot to a human-readable workout name.
// A nil slot is a rest day. A slot referencing a template that is missing
// from the catalog resolves to UnknownTemplateName; stale references must
// not break the schedule view.
func ResolveTemplateName(templateID *primitive.ObjectID, templates []WorkoutTemplate) string {
	if templateID == nil {
		return RestDayName
	}
	for _, tpl := range templates {
		if tpl.ID == *templateID {
			return tpl.Name
		}
	}
	return UnknownTemplateName
}

// ResolveWeekSchedule resolves all seven slots of a schedule against the
// template catalog, in Monday..Sunday order.
func ResolveWeekSchedule(schedule WeeklySchedule, templates []WorkoutTemplate) []DaySchedule {
	slots := schedule.Slots()
	week := make([]DaySchedule, len(slots))
	for i, slot := range slots {
		week[i] = DaySchedule{
			Day:         WeekdayLabels[i],
			WorkoutName: ResolveTemplateName(slot, templates),
			RestDay:     slot == nil,
		}
	}
	return week
}
