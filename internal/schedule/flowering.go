package schedule

import "time"

// Flowering describes where a plant is in its recorded flowering period.
type Flowering string

const (
	FloweringNone     Flowering = "none"
	FloweringUpcoming Flowering = "upcoming"
	FloweringActive   Flowering = "flowering"
	FloweringFinished Flowering = "finished"
)

// FloweringState classifies a flowering record at now. An end without a
// start is ignored.
func FloweringState(start, end *time.Time, now time.Time) Flowering {
	if start == nil {
		return FloweringNone
	}
	if now.Before(*start) {
		return FloweringUpcoming
	}
	if end == nil || now.Before(*end) {
		return FloweringActive
	}
	return FloweringFinished
}
