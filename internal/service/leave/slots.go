package leave

import (
	"time"

	"github.com/lumenhr/backoffice-go/internal/domain/leave"
)

// daySlots is the set of half-day slots a request occupies on one date.
type daySlots uint8

const (
	slotAM daySlots = 1 << iota
	slotPM
)

const slotBoth = slotAM | slotPM

func (s daySlots) intersects(other daySlots) bool {
	return s&other != 0
}

func (s daySlots) isHalf() bool {
	return s == slotAM || s == slotPM
}

const dateFormat = "2006-01-02"

func dateKey(t time.Time) string {
	return t.Format(dateFormat)
}

// normalizeDate truncates to midnight UTC so date arithmetic and
// equality are independent of the incoming location and clock time.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// singleDaySlots resolves the slots occupied by a single-day request.
// The union of the slots named by both flags is used: no flag set means
// the full day, exactly one named slot means that half, and am+pm in
// either arrangement (complementary or contradictory) occupies the full
// day.
func singleDaySlots(startHalf, endHalf leave.HalfDay) daySlots {
	var slots daySlots
	for _, flag := range []leave.HalfDay{startHalf, endHalf} {
		switch flag {
		case leave.HalfDayAM:
			slots |= slotAM
		case leave.HalfDayPM:
			slots |= slotPM
		}
	}
	if slots == 0 {
		return slotBoth
	}
	return slots
}

// expandSlots maps every calendar date of the inclusive range to the
// slots the request occupies there. Interior days occupy both slots; a
// "pm" start frees the first morning and an "am" end frees the last
// afternoon. Dates must be normalized.
func expandSlots(start, end time.Time, startHalf, endHalf leave.HalfDay) map[string]daySlots {
	occupied := make(map[string]daySlots)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		occupied[dateKey(d)] = slotBoth
	}

	if start.Equal(end) {
		occupied[dateKey(start)] = singleDaySlots(startHalf, endHalf)
		return occupied
	}

	if startHalf == leave.HalfDayPM {
		occupied[dateKey(start)] = slotPM
	}
	if endHalf == leave.HalfDayAM {
		occupied[dateKey(end)] = slotAM
	}
	return occupied
}
