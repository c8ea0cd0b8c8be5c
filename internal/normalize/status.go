package normalize

import (
	"strings"

	"booking-admin-backend/internal/model"
)

// RoomStatusFromWire maps the backend room status enum onto the canonical
// two-value status. BOOKED and IN_USE describe live occupancy, not room
// configuration, so they render as available in the admin screens. An
// unknown value passes through lowercased rather than failing the record.
func RoomStatusFromWire(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AVAILABLE", "BOOKED", "IN_USE", "":
		return model.RoomStatusAvailable
	case "MAINTENANCE":
		return model.RoomStatusMaintenance
	default:
		return strings.ToLower(strings.TrimSpace(s))
	}
}

// RoomStatusToWire maps a canonical room status back to the backend enum.
func RoomStatusToWire(s string) string {
	if s == model.RoomStatusMaintenance {
		return "MAINTENANCE"
	}
	return "AVAILABLE"
}

// BookingStatusFromWire lowercases the backend booking status. Unknown
// values pass through lowercased.
func BookingStatusFromWire(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
