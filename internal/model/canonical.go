package model

import "strconv"

// Canonical client-side shapes. The wire formats coming out of the booking
// backend vary per endpoint; everything behind the normalize package is
// converted into these before it reaches the store or a screen.

// Device is the canonical shape for a bookable piece of room equipment.
type Device struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DeviceTypeID   *int64 `json:"deviceTypeId"`
	DeviceTypeName string `json:"deviceTypeName"` // never empty, see normalize
	Quantity       int    `json:"quantity"`       // total owned units
	Description    string `json:"description"`
	CreatedAt      string `json:"createdAt"`
}

// DeviceType is a small fixed enumeration treated as static reference data
// for the session.
type DeviceType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// Room statuses in the canonical shape. The backend has a wider enum; see
// normalize.RoomStatusFromWire.
const (
	RoomStatusAvailable   = "available"
	RoomStatusMaintenance = "maintenance"
)

// Room is the canonical meeting-room shape.
type Room struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Capacity    int    `json:"capacity"`
	Status      string `json:"status"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`

	// SelectedDevices is derived from the room-device assignment records on
	// each load, not authoritative room state.
	SelectedDevices []int64 `json:"selectedDevices"`
}

// RoomDeviceAssignment links a device to a room. Mutations are keyed by
// RoomDeviceID; the (RoomID, DeviceID) pair only identifies which record is
// current.
type RoomDeviceAssignment struct {
	RoomDeviceID     int64  `json:"roomDeviceId"`
	RoomID           int64  `json:"roomId"`
	DeviceID         int64  `json:"deviceId"`
	QuantityAssigned int    `json:"quantityAssigned"`
	Notes            string `json:"notes"`
}

// User roles. RoleStaff is legacy: accepted on read, never offered on write.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// User is the canonical admin-facing user shape.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
	GoogleID  string `json:"googleId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// MutationKey returns the identifier the backend expects for user mutations.
// Google-provisioned users live in a different identity space than local
// ones; the two are unified here.
func (u User) MutationKey() string {
	if u.GoogleID != "" {
		return u.GoogleID
	}
	return formatID(u.ID)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// UserStats is the aggregate returned by the stats endpoint.
type UserStats struct {
	TotalUsers int64 `json:"totalUsers"`
	AdminCount int64 `json:"adminCount"`
	UserCount  int64 `json:"userCount"`
}

// Booking statuses in the canonical shape. Cancellation is terminal.
const (
	BookingStatusBooked    = "booked"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Meeting is the canonical meeting shape. Meetings are created outside the
// admin surface; the only mutation here is cancel.
type Meeting struct {
	MeetingID     int64  `json:"meetingId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	RoomName      string `json:"roomName"`
	RoomLocation  string `json:"roomLocation"`
	UserName      string `json:"userName"`
	UserEmail     string `json:"userEmail"`
	CreatedAt     string `json:"createdAt"`
	BookingStatus string `json:"bookingStatus"`
}
