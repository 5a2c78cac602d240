package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"venuebook/internal/domain"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type requestModel struct {
	ID      int64 `gorm:"column:id;primaryKey"`
	UserID  int64 `gorm:"column:user_id;index:idx_one_active_request,unique,where:status = 'Pending'"`
	VenueID int64 `gorm:"column:venue_id;index:idx_one_active_request,unique,where:status = 'Pending'"`
	HallID  int64 `gorm:"column:hall_id;index"`

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

	Status string  `gorm:"column:status;index"`
	Reason *string `gorm:"column:reason"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (requestModel) TableName() string { return "booking_requests" }

func toDomainRequest(m requestModel) *domain.BookingRequest {
	var reason string
	if m.Reason != nil {
		reason = *m.Reason
	}
	return &domain.BookingRequest{
		ID:      m.ID,
		UserID:  m.UserID,
		VenueID: m.VenueID,
		HallID:  m.HallID,
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
		Status:             domain.RequestStatus(m.Status),
		Reason:             reason,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func toRequestModel(r *domain.BookingRequest) requestModel {
	var reason *string
	if r.Reason != "" {
		v := r.Reason
		reason = &v
	}
	return requestModel{
		ID:      r.ID,
		UserID:  r.UserID,
		VenueID: r.VenueID,
		HallID:  r.HallID,

		EventType:  r.EventDetails.EventType,
		EventDate:  r.EventDetails.Date,
		GuestCount: r.EventDetails.GuestCount,

		OriginalPerPlatePrice:    r.Pricing.OriginalPerPlatePrice,
		UserOfferedPerPlatePrice: r.Pricing.UserOfferedPerPlatePrice,
		FinalPerPlatePrice:       r.Pricing.FinalPerPlatePrice,
		FoodCost:                 r.Pricing.FoodCost,
		AdditionalServicesCost:   r.Pricing.AdditionalServicesCost,
		TotalCost:                r.Pricing.TotalCost,
		DiscountAmount:           r.Pricing.DiscountAmount,
		AmountPaid:               r.Pricing.AmountPaid,
		BalanceAmount:            r.Pricing.BalanceAmount,

		SelectedFoods:      marshalStrings(r.SelectedFoods),
		RequestedFoods:     marshalStrings(r.RequestedFoods),
		AdditionalServices: marshalServices(r.AdditionalServices),

		Status:    string(r.Status),
		Reason:    reason,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, br *domain.BookingRequest) error {
	m := toRequestModel(br)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*br = *toDomainRequest(m)
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	var m requestModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRequest(m), nil
}

func (r *RequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingRequest, error) {
	var rows []requestModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(rows), nil
}

func (r *RequestRepository) ListByVenue(ctx context.Context, venueID int64) ([]domain.BookingRequest, error) {
	var rows []requestModel
	if err := r.db.WithContext(ctx).Where("venue_id = ?", venueID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(rows), nil
}

func toDomainRequests(rows []requestModel) []domain.BookingRequest {
	out := make([]domain.BookingRequest, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRequest(m))
	}
	return out
}

// Update persists the editable fields of a pending request together with its
// recomputed pricing. Derived cost columns are never written without their
// inputs.
func (r *RequestRepository) Update(ctx context.Context, br *domain.BookingRequest) error {
	m := toRequestModel(br)
	return r.db.WithContext(ctx).Model(&requestModel{}).
		Where("id = ?", br.ID).
		Updates(map[string]any{
			"event_type":                   m.EventType,
			"event_date":                   m.EventDate,
			"guest_count":                  m.GuestCount,
			"user_offered_per_plate_price": m.UserOfferedPerPlatePrice,
			"final_per_plate_price":        m.FinalPerPlatePrice,
			"food_cost":                    m.FoodCost,
			"additional_services_cost":     m.AdditionalServicesCost,
			"total_cost":                   m.TotalCost,
			"discount_amount":              m.DiscountAmount,
			"balance_amount":               m.BalanceAmount,
			"selected_foods":               m.SelectedFoods,
			"requested_foods":              m.RequestedFoods,
			"additional_services":          m.AdditionalServices,
		}).Error
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus, reason string) error {
	updates := map[string]any{"status": string(status)}
	if reason != "" {
		updates["reason"] = reason
	}
	return r.db.WithContext(ctx).Model(&requestModel{}).Where("id = ?", id).Updates(updates).Error
}

// HasActive reports whether the (user, venue) pair already has a pending
// request or a live booking. The partial unique index backs the same rule
// against races for requests; bookings are covered by this check only.
func (r *RequestRepository) HasActive(ctx context.Context, userID, venueID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("user_id = ? AND venue_id = ? AND status = ?", userID, venueID, string(domain.RequestPending)).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	if cnt > 0 {
		return true, nil
	}

	err = r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("user_id = ? AND venue_id = ? AND is_deleted = ? AND status NOT IN ?",
			userID, venueID, false,
			[]string{string(domain.BookingRejected), string(domain.BookingCancelled), string(domain.BookingCompleted)}).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// AcceptAndConvert flips a pending request to Accepted and materializes its
// Booking in one transaction; both writes succeed or neither does. The
// request row is locked for the duration, and build runs against the locked
// row's state, so stale in-memory copies cannot leak into the booking.
func (r *RequestRepository) AcceptAndConvert(
	ctx context.Context,
	requestID int64,
	reason string,
	build func(req *domain.BookingRequest) *domain.Booking,
) (*domain.Booking, error) {
	var created *domain.Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m requestModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, requestID).Error; err != nil {
			return err
		}
		if domain.RequestStatus(m.Status) != domain.RequestPending {
			return ErrRequestNotPending
		}

		updates := map[string]any{"status": string(domain.RequestAccepted)}
		if reason != "" {
			updates["reason"] = reason
		}
		if err := tx.Model(&requestModel{}).Where("id = ?", requestID).Updates(updates).Error; err != nil {
			return err
		}

		b := build(toDomainRequest(m))
		bm := toBookingModel(b)
		if err := tx.Create(&bm).Error; err != nil {
			return err
		}
		created = toDomainBooking(bm)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
