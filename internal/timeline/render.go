package timeline

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/pkordes/hos-planner/internal/domain"
)

// cellsPerHour gives the text grid a 15-minute resolution.
const cellsPerHour = 4

// RenderText draws the segments as an ELD-style grid: one row per duty
// status, one column per quarter hour, and the row total on the right.
// Rows for unknown statuses are appended under "Other".
func RenderText(w io.Writer, segments []Segment) error {
	width := HoursPerDay * cellsPerHour

	var header strings.Builder
	header.WriteString(fmt.Sprintf("%-22s", ""))
	for h := 0; h < HoursPerDay; h += 2 {
		header.WriteString(fmt.Sprintf("%-8s", fmt.Sprintf("%02d", h)))
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(header.String(), " ")); err != nil {
		return err
	}

	rows := make(map[string][]rune)
	order := make([]string, 0, len(domain.DutyStatusKinds)+1)
	for _, k := range domain.DutyStatusKinds {
		order = append(order, Label(k))
	}
	order = append(order, "Other")
	for _, name := range order {
		rows[name] = []rune(strings.Repeat(".", width))
	}

	hours := make(map[string]float64)
	for _, s := range segments {
		name := "Other"
		if s.Status.Status.Valid() {
			name = Label(s.Status.Status)
		}
		from := int(math.Round(s.Offset * float64(width)))
		to := int(math.Round((s.Offset + s.Extent) * float64(width)))
		for i := from; i < to && i < width; i++ {
			rows[name][i] = '#'
		}
		hours[name] += s.EndHour - s.StartHour
	}

	for _, name := range order {
		if name == "Other" && hours[name] == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%-22s%s %5.2fh\n", name, string(rows[name]), hours[name]); err != nil {
			return err
		}
	}
	return nil
}
