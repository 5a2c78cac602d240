package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	RequestID *int64 `gorm:"column:request_id;uniqueIndex:idx_booking_request_once"`
	UserID    int64  `gorm:"column:user_id;index"`
	VenueID   int64  `gorm:"column:venue_id;index"`
	HallID    int64  `gorm:"column:hall_id;index"`

	EventType  string    `gorm:"column:event_type"`
	EventDate  time.Time `gorm:"column:event_date"`
	GuestCount int       `gorm:"column:guest_count"`

	OriginalPerPlatePrice    float64 `gorm:"column:original_per_plate_price"`
	UserOfferedPerPlatePrice float64 `gorm:"column:user_offered_per_plate_price"`
	FinalPerPlatePrice       float64 `gorm:"column:final_per_plate_price"`
	FoodCost                 float64 `gorm:"column:food_cost"`
	AdditionalServicesCost   float64 `gorm:"column:additional_services_cost"`
	TotalCost                float64 `gorm:"column:total_cost"`
	DiscountAmount           float64 `gorm:"column:discount_amount"`
	AmountPaid               float64 `gorm:"column:amount_paid"`
	BalanceAmount            float64 `gorm:"column:balance_amount"`

	SelectedFoods      string `gorm:"column:selected_foods;type:text"`
	RequestedFoods     string `gorm:"column:requested_foods;type:text"`
	AdditionalServices string `gorm:"column:additional_services;type:text"`

	Status        string `gorm:"column:status;index"`
	PaymentStatus string `gorm:"column:payment_status;index"`
	BookingPeriod string `gorm:"column:booking_period"`

	CancellationPolicy *string `gorm:"column:cancellation_policy"`
	OwnerNotes         *string `gorm:"column:owner_notes"`
	Reason             *string `gorm:"column:reason"`
	IsDeleted          bool    `gorm:"column:is_deleted;index"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	deref := func(p *string) string {
		if p != nil {
			return *p
		}
		return ""
	}
	return &domain.Booking{
		ID:        m.ID,
		RequestID: m.RequestID,
		UserID:    m.UserID,
		VenueID:   m.VenueID,
		HallID:    m.HallID,
		EventDetails: domain.EventDetails{
			EventType:  m.EventType,
			Date:       m.EventDate,
			GuestCount: m.GuestCount,
		},
		Pricing: domain.Pricing{
			OriginalPerPlatePrice:    m.OriginalPerPlatePrice,
			UserOfferedPerPlatePrice: m.UserOfferedPerPlatePrice,
			FinalPerPlatePrice:       m.FinalPerPlatePrice,
			FoodCost:                 m.FoodCost,
			AdditionalServicesCost:   m.AdditionalServicesCost,
			TotalCost:                m.TotalCost,
			DiscountAmount:           m.DiscountAmount,
			AmountPaid:               m.AmountPaid,
			BalanceAmount:            m.BalanceAmount,
		},
		SelectedFoods:      unmarshalStrings(m.SelectedFoods),
		RequestedFoods:     unmarshalStrings(m.RequestedFoods),
		AdditionalServices: unmarshalServices(m.AdditionalServices),
		Status:             domain.BookingStatus(m.Status),
		PaymentStatus:      domain.BookingPaymentStatus(m.PaymentStatus),
		BookingPeriod:      domain.BookingPeriod(m.BookingPeriod),
		CancellationPolicy: deref(m.CancellationPolicy),
		OwnerNotes:         deref(m.OwnerNotes),
		Reason:             deref(m.Reason),
		IsDeleted:          m.IsDeleted,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	ref := func(s string) *string {
		if s == "" {
			return nil
		}
		v := s
		return &v
	}
	return bookingModel{
		ID:        b.ID,
		RequestID: b.RequestID,
		UserID:    b.UserID,
		VenueID:   b.VenueID,
		HallID:    b.HallID,

		EventType:  b.EventDetails.EventType,
		EventDate:  b.EventDetails.Date,
		GuestCount: b.EventDetails.GuestCount,

		OriginalPerPlatePrice:    b.Pricing.OriginalPerPlatePrice,
		UserOfferedPerPlatePrice: b.Pricing.UserOfferedPerPlatePrice,
		FinalPerPlatePrice:       b.Pricing.FinalPerPlatePrice,
		FoodCost:                 b.Pricing.FoodCost,
		AdditionalServicesCost:   b.Pricing.AdditionalServicesCost,
		TotalCost:                b.Pricing.TotalCost,
		DiscountAmount:           b.Pricing.DiscountAmount,
		AmountPaid:               b.Pricing.AmountPaid,
		BalanceAmount:            b.Pricing.BalanceAmount,

		SelectedFoods:      marshalStrings(b.SelectedFoods),
		RequestedFoods:     marshalStrings(b.RequestedFoods),
		AdditionalServices: marshalServices(b.AdditionalServices),

		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		BookingPeriod: string(b.BookingPeriod),

		CancellationPolicy: ref(b.CancellationPolicy),
		OwnerNotes:         ref(b.OwnerNotes),
		Reason:             ref(b.Reason),
		IsDeleted:          b.IsDeleted,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*b = *toDomainBooking(m)
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) GetByRequestID(ctx context.Context, requestID int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID int64) ([]domain.Booking, error) {
	return r.list(ctx, "venue_id = ?", venueID)
}

func (r *BookingRepository) list(ctx context.Context, cond string, arg any) ([]domain.Booking, error) {
	var rows []bookingModel
	if err := r.db.WithContext(ctx).
		Where(cond, arg).Where("is_deleted = ?", false).
		Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	updates := map[string]any{"status": string(status)}
	if reason != "" {
		updates["reason"] = reason
	}
	return r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Updates(updates).Error
}

func (r *BookingRepository) UpdateOwnerNotes(ctx context.Context, id int64, notes string) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).
		Update("owner_notes", notes).Error
}

func (r *BookingRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).
		Update("is_deleted", true).Error
}

func (r *BookingRepository) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&bookingModel{}, id).Error
}

// UpdatePaymentMirror rewrites the booking-side payment fields. Called by
// the payment service inside its own transaction and by the read-time
// reconciliation pass; nothing else writes payment_status.
func UpdatePaymentMirror(tx *gorm.DB, bookingID int64, status domain.BookingPaymentStatus, amountPaid, balance float64) error {
	return tx.Model(&bookingModel{}).Where("id = ?", bookingID).Updates(map[string]any{
		"payment_status": string(status),
		"amount_paid":    amountPaid,
		"balance_amount": balance,
	}).Error
}

func (r *BookingRepository) ApplyPaymentMirror(ctx context.Context, bookingID int64, status domain.BookingPaymentStatus, amountPaid, balance float64) error {
	return UpdatePaymentMirror(r.db.WithContext(ctx), bookingID, status, amountPaid, balance)
}
