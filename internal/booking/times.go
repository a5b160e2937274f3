package booking

import (
	"fmt"
	"slices"
	"time"

	"autoshop/internal/catalog"
)

// TimeSlots is the fixed set of bookable start times.
var TimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"13:00", "14:00", "15:00", "16:00", "17:00",
}

// IsValidSlot reports whether slot is one of the fixed labels.
func IsValidSlot(slot string) bool {
	return slices.Contains(TimeSlots, slot)
}

// TotalDuration sums the durations of the selected services, in minutes.
// Ids not present in the catalog snapshot contribute zero.
func TotalDuration(serviceIDs []string, services []catalog.Service) int {
	total := 0
	for _, id := range serviceIDs {
		if svc, ok := catalog.FindByID(services, id); ok {
			total += svc.DurationMinutes
		}
	}
	return total
}

// TotalPrice sums the prices of the selected services.
func TotalPrice(serviceIDs []string, services []catalog.Service) int64 {
	var total int64
	for _, id := range serviceIDs {
		if svc, ok := catalog.FindByID(services, id); ok {
			total += svc.Price
		}
	}
	return total
}

// EndTime adds minutes to a zero-padded HH:MM start time and formats the
// result the same way. The hour wraps silently past midnight with no date
// rollover; a booking pushed past 24:00 lands on the same calendar date.
// Known limitation carried over from the original scheduling behavior.
func EndTime(start string, minutes int) (string, error) {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return "", fmt.Errorf("booking: parse start time %q: %w", start, err)
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format("15:04"), nil
}
