package payload

import "time"

const MinEventDuration = time.Hour

// ClampEventEnd returns end, pushed up to start+MinEventDuration when it
// falls short. Callers apply it whenever start or end changes.
func ClampEventEnd(start, end time.Time) time.Time {
	floor := start.Add(MinEventDuration)
	if end.Before(floor) {
		return floor
	}
	return end
}
