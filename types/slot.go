package types

import "time"

const (
	// NumDateSlots is the size of the withdrawal queue ring buffer. Each
	// calendar day maps to one slot, so two requests made an exact
	// multiple of NumDateSlots days apart land in the same slot and
	// collide until the earlier one is claimed.
	NumDateSlots = 10

	// DateSlotOffset shifts slot boundaries so that days roll over at
	// midnight UTC+8, matching the reference deployment.
	DateSlotOffset = 8 * time.Hour

	dateSlotDuration = 24 * time.Hour
)

// DateSlot returns the withdrawal queue slot for the given point in time.
func DateSlot(t time.Time) uint8 {
	day := (t.Unix() + int64(DateSlotOffset/time.Second)) / int64(dateSlotDuration/time.Second)

	return uint8(day % NumDateSlots)
}

// ValidSlot reports whether slot is within the ring buffer bounds.
func ValidSlot(slot uint8) bool {
	return slot < NumDateSlots
}
