package notification

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"venuebook/internal/domain"
)

// Service persists in-app notifications and satisfies the sender interfaces
// of the request and booking modules.
type Service struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewService(db *gorm.DB, log *logrus.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) NotifyRequestCreated(ctx context.Context, ownerID, requestID, venueID int64) error {
	return s.create(ctx, &Notification{
		UserID:    ownerID,
		Type:      TypeRequestCreated,
		Title:     "New booking request",
		Message:   fmt.Sprintf("A new booking request #%d was submitted for your venue.", requestID),
		RequestID: &requestID,
		VenueID:   &venueID,
	})
}

func (s *Service) NotifyRequestDecided(ctx context.Context, userID, requestID int64, status domain.RequestStatus, reason string) error {
	n := &Notification{
		UserID:    userID,
		RequestID: &requestID,
	}
	switch status {
	case domain.RequestAccepted:
		n.Type = TypeRequestAccepted
		n.Title = "Booking request accepted"
		n.Message = fmt.Sprintf("Your booking request #%d was accepted and converted into a booking.", requestID)
	case domain.RequestRejected:
		n.Type = TypeRequestRejected
		n.Title = "Booking request rejected"
		n.Message = fmt.Sprintf("Your booking request #%d was rejected: %s", requestID, reason)
	default:
		return nil
	}
	return s.create(ctx, n)
}

func (s *Service) NotifyRequestCancelled(ctx context.Context, ownerID, requestID int64) error {
	return s.create(ctx, &Notification{
		UserID:    ownerID,
		Type:      TypeRequestCancelled,
		Title:     "Booking request cancelled",
		Message:   fmt.Sprintf("Booking request #%d was cancelled by the requester.", requestID),
		RequestID: &requestID,
	})
}

func (s *Service) NotifyBookingStatusChanged(ctx context.Context, userID, bookingID int64, status domain.BookingStatus, reason string) error {
	msg := fmt.Sprintf("Your booking #%d is now %s.", bookingID, status)
	if reason != "" {
		msg = fmt.Sprintf("%s Reason: %s", msg, reason)
	}
	return s.create(ctx, &Notification{
		UserID:    userID,
		Type:      TypeBookingStatus,
		Title:     "Booking status updated",
		Message:   msg,
		BookingID: &bookingID,
	})
}

func (s *Service) create(ctx context.Context, n *Notification) error {
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"user_id": n.UserID,
		"type":    n.Type,
	}).Debug("notification stored")
	return nil
}

func (s *Service) ListForUser(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []Notification
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	var unread int64
	if err := s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&unread).Error; err != nil {
		return nil, 0, err
	}
	return rows, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := s.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
