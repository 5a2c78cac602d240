package notification

import "time"

const (
	TypeRequestCreated   = "request.created"
	TypeRequestAccepted  = "request.accepted"
	TypeRequestRejected  = "request.rejected"
	TypeRequestCancelled = "request.cancelled"
	TypeBookingStatus    = "booking.status_changed"
)

// Notification is an in-app notification row. Delivery is best effort: the
// caller never fails its own transition because a row could not be written.
type Notification struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	UserID  int64  `gorm:"index;not null" json:"user_id"`
	Type    string `gorm:"type:varchar(40);not null" json:"type"`
	Title   string `gorm:"type:varchar(200);not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	RequestID *int64 `gorm:"index" json:"request_id,omitempty"`
	BookingID *int64 `gorm:"index" json:"booking_id,omitempty"`
	VenueID   *int64 `json:"venue_id,omitempty"`

	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
