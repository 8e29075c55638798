package timeline

import (
	"strings"

	"github.com/pkordes/hos-planner/internal/domain"
)

// DefaultColor is used for any status a palette has no entry for.
const DefaultColor = "#6B7280"

// Palette maps duty status kinds to display colors.
// Color is total: unknown kinds, and the zero Palette, yield DefaultColor.
type Palette struct {
	colors map[domain.DutyStatusKind]string
}

// NewPalette builds a palette from explicit colors.
func NewPalette(colors map[domain.DutyStatusKind]string) Palette {
	c := make(map[domain.DutyStatusKind]string, len(colors))
	for k, v := range colors {
		c[k] = v
	}
	return Palette{colors: c}
}

// Color returns the display color for k.
func (p Palette) Color(k domain.DutyStatusKind) string {
	if c, ok := p.colors[k]; ok {
		return c
	}
	return DefaultColor
}

// ELDPalette is used on the ELD log grid, where off-duty time is gray.
var ELDPalette = NewPalette(map[domain.DutyStatusKind]string{
	domain.Driving:          "#10B981",
	domain.OnDutyNotDriving: "#3B82F6",
	domain.OffDuty:          "#6B7280",
	domain.SleeperBerth:     "#F59E0B",
})

// DetailsPalette is used on the trip details timeline, where off-duty time is red.
var DetailsPalette = NewPalette(map[domain.DutyStatusKind]string{
	domain.Driving:          "#22C55E",
	domain.OnDutyNotDriving: "#3B82F6",
	domain.OffDuty:          "#EF4444",
	domain.SleeperBerth:     "#EAB308",
})

// Label turns a status constant into a display label,
// e.g. ON_DUTY_NOT_DRIVING becomes "On Duty Not Driving".
func Label(k domain.DutyStatusKind) string {
	words := strings.FieldsFunc(strings.ToLower(string(k)), func(r rune) bool {
		return r == '_' || r == ' '
	})
	if len(words) == 0 {
		return "Unknown"
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
