package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"venuebook/internal/domain"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func newPendingRequest(userID, venueID int64) *domain.BookingRequest {
	return &domain.BookingRequest{
		UserID:  userID,
		VenueID: venueID,
		HallID:  10,
		EventDetails: domain.EventDetails{
			EventType:  "Wedding",
			Date:       time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
			GuestCount: 10,
		},
		Pricing: domain.Pricing{
			FinalPerPlatePrice: 500,
			FoodCost:           5000,
			TotalCost:          5200,
			BalanceAmount:      5200,
		},
		Status: domain.RequestPending,
	}
}

func TestRequestRepository_OneActivePerUserVenue(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	first := newPendingRequest(1, 5)
	require.NoError(t, repo.Create(ctx, first))

	// Second pending request for the same pair hits the partial unique
	// index.
	dup := newPendingRequest(1, 5)
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, "idx_one_active_request"))

	// Other pairs are unaffected.
	require.NoError(t, repo.Create(ctx, newPendingRequest(1, 6)))
	require.NoError(t, repo.Create(ctx, newPendingRequest(2, 5)))

	// A decided request frees the slot.
	require.NoError(t, repo.UpdateStatus(ctx, first.ID, domain.RequestCancelled, ""))
	require.NoError(t, repo.Create(ctx, newPendingRequest(1, 5)))
}

func TestRequestRepository_HasActive(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRequestRepository(db)
	bookings := NewBookingRepository(db)
	ctx := context.Background()

	active, err := repo.HasActive(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, active)

	br := newPendingRequest(1, 5)
	require.NoError(t, repo.Create(ctx, br))

	active, err = repo.HasActive(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, repo.UpdateStatus(ctx, br.ID, domain.RequestRejected, "no capacity"))
	active, err = repo.HasActive(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, active)

	// A live booking blocks new requests even with no pending request.
	b := &domain.Booking{
		UserID:  1,
		VenueID: 5,
		HallID:  10,
		EventDetails: domain.EventDetails{
			EventType:  "Wedding",
			Date:       time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
			GuestCount: 10,
		},
		Status:        domain.BookingAccepted,
		PaymentStatus: domain.BookingUnpaid,
		BookingPeriod: domain.PeriodFuture,
	}
	require.NoError(t, bookings.Create(ctx, b))

	active, err = repo.HasActive(ctx, 1, 5)
	require.NoError(t, err)
	assert.True(t, active)

	// A completed booking does not.
	require.NoError(t, bookings.UpdateStatus(ctx, b.ID, domain.BookingCompleted, ""))
	active, err = repo.HasActive(ctx, 1, 5)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRequestRepository_AcceptAndConvert(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewRequestRepository(db)
	bookings := NewBookingRepository(db)
	ctx := context.Background()

	br := newPendingRequest(1, 5)
	require.NoError(t, repo.Create(ctx, br))

	build := func(r *domain.BookingRequest) *domain.Booking {
		id := r.ID
		return &domain.Booking{
			RequestID:     &id,
			UserID:        r.UserID,
			VenueID:       r.VenueID,
			HallID:        r.HallID,
			EventDetails:  r.EventDetails,
			Pricing:       r.Pricing,
			Status:        domain.BookingAccepted,
			PaymentStatus: domain.BookingUnpaid,
			BookingPeriod: domain.PeriodFuture,
		}
	}

	b, err := repo.AcceptAndConvert(ctx, br.ID, "", build)
	require.NoError(t, err)
	require.NotNil(t, b.RequestID)
	assert.Equal(t, br.ID, *b.RequestID)

	got, err := repo.GetByID(ctx, br.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestAccepted, got.Status)

	// A second accept finds the request no longer pending; no second
	// booking appears.
	_, err = repo.AcceptAndConvert(ctx, br.ID, "", build)
	assert.ErrorIs(t, err, ErrRequestNotPending)

	fromReq, err := bookings.GetByRequestID(ctx, br.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, fromReq.ID)
}
