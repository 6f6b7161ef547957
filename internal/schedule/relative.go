package schedule

import (
	"fmt"
	"math"
)

// RelativeKind is the bucket a day count falls into for display.
type RelativeKind string

const (
	RelativePast     RelativeKind = "past"
	RelativeToday    RelativeKind = "today"
	RelativeTomorrow RelativeKind = "tomorrow"
	RelativeFuture   RelativeKind = "future"
)

// RelativeDay is a day count bucketed for display. Days is always >= 0.
type RelativeDay struct {
	Kind RelativeKind
	Days int
}

// Relative buckets a fractional day count returned by DaysUntilWatering.
func Relative(days float64) RelativeDay {
	if days < 0 {
		return RelativeDay{Kind: RelativePast, Days: int(math.Abs(math.Floor(days)))}
	}
	if days < 1 {
		return RelativeDay{Kind: RelativeToday}
	}
	d := int(math.Floor(days))
	if d == 1 {
		return RelativeDay{Kind: RelativeTomorrow, Days: 1}
	}
	return RelativeDay{Kind: RelativeFuture, Days: d}
}

// Phrases renders RelativeDay values in one language.
type Phrases struct {
	AgoOne   string
	AgoMany  string // %d
	Today    string
	Tomorrow string
	InMany   string // %d
}

var (
	Spanish = Phrases{
		AgoOne:   "Hace 1 día",
		AgoMany:  "Hace %d días",
		Today:    "¡Hoy!",
		Tomorrow: "Mañana",
		InMany:   "En %d días",
	}
	English = Phrases{
		AgoOne:   "1 day ago",
		AgoMany:  "%d days ago",
		Today:    "Today!",
		Tomorrow: "Tomorrow",
		InMany:   "In %d days",
	}
)

// PhrasesFor returns the phrases for a language code, defaulting to Spanish.
func PhrasesFor(lang string) Phrases {
	if lang == "en" {
		return English
	}
	return Spanish
}

// Format renders r.
func (p Phrases) Format(r RelativeDay) string {
	switch r.Kind {
	case RelativePast:
		if r.Days == 1 {
			return p.AgoOne
		}
		return fmt.Sprintf(p.AgoMany, r.Days)
	case RelativeToday:
		return p.Today
	case RelativeTomorrow:
		return p.Tomorrow
	default:
		return fmt.Sprintf(p.InMany, r.Days)
	}
}
