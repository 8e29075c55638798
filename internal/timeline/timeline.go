// Package timeline derives the 24-hour duty status graph of an ELD log.
//
// Build is a pure function of its inputs: it selects the duty statuses that
// start on the requested calendar date, orders them by start time and places
// each one on a fixed 24-hour axis. Overlapping records are neither merged
// nor rejected; they are returned in list order and render stacked.
package timeline

import (
	"slices"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/domain"
)

// HoursPerDay is the length of the graph axis.
const HoursPerDay = 24

// Segment is one duty status placed on the 24-hour axis.
// Offset and Extent are fractions of the axis in [0, 1]; multiply by the
// rendered axis length to get pixels or cells.
type Segment struct {
	StartHour float64           `json:"start_hour"`
	EndHour   float64           `json:"end_hour"`
	Offset    float64           `json:"offset"`
	Extent    float64           `json:"extent"`
	Color     string            `json:"color"`
	Label     string            `json:"label"`
	Status    domain.DutyStatus `json:"duty_status"`
}

// Scale returns the segment's offset and extent on an axis of the given length.
func (s Segment) Scale(axis float64) (offset, extent float64) {
	return s.Offset * axis, s.Extent * axis
}

// Builder places duty statuses on the axis using one timezone and palette.
// The zero Builder uses UTC and the ELD palette.
type Builder struct {
	Location *time.Location
	Palette  *Palette
}

// Build uses the ELD palette in loc.
func Build(statuses []domain.DutyStatus, date openapi_types.Date, loc *time.Location) []Segment {
	return Builder{Location: loc}.Build(statuses, date)
}

// Build returns one segment per duty status whose start time falls on date.
// The input is not modified. An empty selection yields an empty, non-nil slice.
//
// A record ending on a later day is cut at 24:00. A record whose end is not
// after its start gets a zero extent instead of being dropped.
func (b Builder) Build(statuses []domain.DutyStatus, date openapi_types.Date) []Segment {
	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}
	palette := ELDPalette
	if b.Palette != nil {
		palette = *b.Palette
	}

	selected := SelectDate(statuses, date, loc)
	slices.SortStableFunc(selected, func(a, b domain.DutyStatus) int {
		return a.StartTime.Compare(b.StartTime)
	})

	segments := make([]Segment, 0, len(selected))
	for _, ds := range selected {
		start := hourOf(ds.StartTime, loc)
		end := hourOf(ds.EndTime, loc)
		if !domain.SameDate(ds.EndTime, date, loc) && ds.EndTime.After(ds.StartTime) {
			end = HoursPerDay
		}
		if end < start {
			end = start
		}
		segments = append(segments, Segment{
			StartHour: start,
			EndHour:   end,
			Offset:    start / HoursPerDay,
			Extent:    (end - start) / HoursPerDay,
			Color:     palette.Color(ds.Status),
			Label:     Label(ds.Status),
			Status:    ds,
		})
	}
	return segments
}

// SelectDate returns a copy of the duty statuses whose start time, viewed in
// loc, falls on date. Input order is preserved.
func SelectDate(statuses []domain.DutyStatus, date openapi_types.Date, loc *time.Location) []domain.DutyStatus {
	out := make([]domain.DutyStatus, 0, len(statuses))
	for _, ds := range statuses {
		if domain.SameDate(ds.StartTime, date, loc) {
			out = append(out, ds)
		}
	}
	return out
}

// hourOf returns hour + minute/60 of t in loc. Seconds are ignored.
func hourOf(t time.Time, loc *time.Location) float64 {
	lt := t.In(loc)
	return float64(lt.Hour()) + float64(lt.Minute())/60
}

// Total is the time spent in one status on the graph.
type Total struct {
	Status domain.DutyStatusKind `json:"status"`
	Label  string                `json:"label"`
	Hours  float64               `json:"hours"`
}

// Totals sums the hours per status. Known kinds come first in grid row order
// (always present, possibly zero), followed by unknown kinds in order of
// first appearance.
func Totals(segments []Segment) []Total {
	hours := make(map[domain.DutyStatusKind]float64)
	var extra []domain.DutyStatusKind
	for _, s := range segments {
		k := s.Status.Status
		if _, seen := hours[k]; !seen && !k.Valid() {
			extra = append(extra, k)
		}
		hours[k] += s.EndHour - s.StartHour
	}

	out := make([]Total, 0, len(domain.DutyStatusKinds)+len(extra))
	for _, k := range append(slices.Clone(domain.DutyStatusKinds), extra...) {
		out = append(out, Total{Status: k, Label: Label(k), Hours: hours[k]})
	}
	return out
}
