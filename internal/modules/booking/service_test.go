package booking

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"venuebook/internal/domain"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil && args.Error(0) == nil {
		b.ID = 501
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetByRequestID(ctx context.Context, requestID int64) (*domain.Booking, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByVenue(ctx context.Context, venueID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	args := m.Called(ctx, id, status, reason)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdateOwnerNotes(ctx context.Context, id int64, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockBookingRepository) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) HardDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepository) ApplyPaymentMirror(ctx context.Context, bookingID int64, status domain.BookingPaymentStatus, amountPaid, balance float64) error {
	args := m.Called(ctx, bookingID, status, amountPaid, balance)
	return args.Error(0)
}

type MockPaymentReader struct {
	mock.Mock
}

func (m *MockPaymentReader) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockVenueReader struct {
	mock.Mock
}

func (m *MockVenueReader) GetHall(ctx context.Context, hallID int64) (*domain.Hall, error) {
	args := m.Called(ctx, hallID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hall), args.Error(1)
}

func (m *MockVenueReader) IsOwner(ctx context.Context, venueID, userID int64) (bool, error) {
	args := m.Called(ctx, venueID, userID)
	return args.Bool(0), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) NotifyBookingStatusChanged(ctx context.Context, userID, bookingID int64, status domain.BookingStatus, reason string) error {
	args := m.Called(ctx, userID, bookingID, status, reason)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func acceptedBooking() *domain.Booking {
	return &domain.Booking{
		ID:      501,
		UserID:  1,
		VenueID: 5,
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
		Status:        domain.BookingAccepted,
		PaymentStatus: domain.BookingUnpaid,
		BookingPeriod: domain.PeriodFuture,
	}
}

func TestService_OwnerCreate_RecomputesPricing(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockVenues := new(MockVenueReader)

	mockVenues.On("IsOwner", mock.Anything, int64(5), int64(2)).Return(true, nil)
	mockVenues.On("GetHall", mock.Anything, int64(10)).Return(&domain.Hall{ID: 10, VenueID: 5, BasePrice: 600}, nil)
	mockBookings.On("Create", mock.Anything, mock.Anything).Return(nil)

	service := NewService(mockBookings, new(MockPaymentReader), mockVenues, nil, testLogger())

	b, err := service.OwnerCreate(context.Background(), domain.Actor{ID: 2, Role: domain.RoleOwner}, OwnerCreateRequest{
		VenueID:            5,
		HallID:             10,
		UserID:             1,
		EventType:          "Wedding",
		EventDate:          time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
		GuestCount:         10,
		PerPlatePrice:      500,
		AdditionalServices: []domain.AdditionalService{{Name: "DJ", Price: 200}},
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingAccepted, b.Status)
	assert.Equal(t, domain.BookingUnpaid, b.PaymentStatus)
	assert.Equal(t, domain.PeriodFuture, b.BookingPeriod)
	assert.Equal(t, 5200.0, b.Pricing.TotalCost)
	assert.Equal(t, 5200.0, b.Pricing.BalanceAmount)
}

func TestService_UpdateStatus_ValidTransition(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockVenues := new(MockVenueReader)
	mockNotifs := new(MockNotificationSender)

	b := acceptedBooking()
	running := acceptedBooking()
	running.Status = domain.BookingRunning

	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(b, nil).Once()
	mockVenues.On("IsOwner", mock.Anything, int64(5), int64(2)).Return(true, nil)
	mockBookings.On("UpdateStatus", mock.Anything, int64(501), domain.BookingRunning, "").Return(nil)
	mockNotifs.On("NotifyBookingStatusChanged", mock.Anything, int64(1), int64(501), domain.BookingRunning, "").Return(nil)
	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(running, nil).Once()

	service := NewService(mockBookings, new(MockPaymentReader), mockVenues, mockNotifs, testLogger())

	got, err := service.UpdateStatus(context.Background(), domain.Actor{ID: 2, Role: domain.RoleOwner}, 501, domain.BookingRunning, "")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingRunning, got.Status)
	mockNotifs.AssertExpectations(t)
}

func TestService_UpdateStatus_InvalidTransition(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockVenues := new(MockVenueReader)

	completed := acceptedBooking()
	completed.Status = domain.BookingCompleted
	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(completed, nil)
	mockVenues.On("IsOwner", mock.Anything, int64(5), int64(2)).Return(true, nil)

	service := NewService(mockBookings, new(MockPaymentReader), mockVenues, nil, testLogger())

	_, err := service.UpdateStatus(context.Background(), domain.Actor{ID: 2, Role: domain.RoleOwner}, 501, domain.BookingRunning, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	// Accepted cannot jump straight to Completed either.
	mockBookings2 := new(MockBookingRepository)
	mockBookings2.On("GetByID", mock.Anything, int64(501)).Return(acceptedBooking(), nil)
	service = NewService(mockBookings2, new(MockPaymentReader), mockVenues, nil, testLogger())

	_, err = service.UpdateStatus(context.Background(), domain.Actor{ID: 2, Role: domain.RoleOwner}, 501, domain.BookingCompleted, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestService_UpdateStatus_CancelRequiresReason(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockVenues := new(MockVenueReader)

	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(acceptedBooking(), nil)
	mockVenues.On("IsOwner", mock.Anything, int64(5), int64(2)).Return(true, nil)

	service := NewService(mockBookings, new(MockPaymentReader), mockVenues, nil, testLogger())

	_, err := service.UpdateStatus(context.Background(), domain.Actor{ID: 2, Role: domain.RoleOwner}, 501, domain.BookingCancelled, "")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

// A stale mirror is repaired on read: the booking says Unpaid while the
// ledger has settled money against it.
func TestService_Get_RepairsDriftedMirror(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockPayments := new(MockPaymentReader)

	b := acceptedBooking()
	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(b, nil)
	mockPayments.On("GetByBookingID", mock.Anything, int64(501)).Return(&domain.Payment{
		BookingID:      501,
		UserID:         1,
		CumulativePaid: 1000,
		ExpectedAmount: 5200,
		Status:         domain.PaymentPending,
	}, nil)
	mockBookings.On("ApplyPaymentMirror", mock.Anything, int64(501), domain.BookingPartiallyPaid, 1000.0, 4200.0).Return(nil)

	service := NewService(mockBookings, mockPayments, new(MockVenueReader), nil, testLogger())

	got, err := service.Get(context.Background(), domain.Actor{ID: 1, Role: domain.RoleUser}, 501)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPartiallyPaid, got.PaymentStatus)
	assert.Equal(t, 1000.0, got.Pricing.AmountPaid)
	assert.Equal(t, 4200.0, got.Pricing.BalanceAmount)
	mockBookings.AssertCalled(t, "ApplyPaymentMirror", mock.Anything, int64(501), domain.BookingPartiallyPaid, 1000.0, 4200.0)
}

func TestService_Get_ConsistentMirrorNotTouched(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockPayments := new(MockPaymentReader)

	b := acceptedBooking()
	b.PaymentStatus = domain.BookingPartiallyPaid
	b.Pricing.ApplyPaid(1000)

	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(b, nil)
	mockPayments.On("GetByBookingID", mock.Anything, int64(501)).Return(&domain.Payment{
		BookingID:      501,
		CumulativePaid: 1000,
		ExpectedAmount: 5200,
	}, nil)

	service := NewService(mockBookings, mockPayments, new(MockVenueReader), nil, testLogger())

	got, err := service.Get(context.Background(), domain.Actor{ID: 1, Role: domain.RoleUser}, 501)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPartiallyPaid, got.PaymentStatus)
	mockBookings.AssertNotCalled(t, "ApplyPaymentMirror", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Get_NoLedgerRowIsFine(t *testing.T) {
	mockBookings := new(MockBookingRepository)
	mockPayments := new(MockPaymentReader)

	mockBookings.On("GetByID", mock.Anything, int64(501)).Return(acceptedBooking(), nil)
	mockPayments.On("GetByBookingID", mock.Anything, int64(501)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockBookings, mockPayments, new(MockVenueReader), nil, testLogger())

	got, err := service.Get(context.Background(), domain.Actor{ID: 1, Role: domain.RoleUser}, 501)

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingUnpaid, got.PaymentStatus)
}

func TestFromRequest_SnapshotsAndResets(t *testing.T) {
	r := &domain.BookingRequest{
		ID:      77,
		UserID:  1,
		VenueID: 5,
		HallID:  10,
		EventDetails: domain.EventDetails{
			EventType:  "Wedding",
			Date:       time.Date(2027, 3, 15, 0, 0, 0, 0, time.UTC),
			GuestCount: 10,
		},
		Pricing: domain.Pricing{
			OriginalPerPlatePrice: 600,
			FinalPerPlatePrice:    500,
			AmountPaid:            999, // stale request-side value, must not survive
		},
		AdditionalServices: []domain.AdditionalService{{Name: "DJ", Price: 200}},
		Status:             domain.RequestPending,
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	b := FromRequest(r, now)

	assert.Equal(t, int64(77), *b.RequestID)
	assert.Equal(t, domain.BookingAccepted, b.Status)
	assert.Equal(t, domain.BookingUnpaid, b.PaymentStatus)
	assert.Equal(t, domain.PeriodFuture, b.BookingPeriod)
	assert.Equal(t, 0.0, b.Pricing.AmountPaid)
	assert.Equal(t, 5200.0, b.Pricing.TotalCost)
	assert.Equal(t, 5200.0, b.Pricing.BalanceAmount)
	// The request's own pricing snapshot is untouched.
	assert.Equal(t, 999.0, r.Pricing.AmountPaid)
}

func TestDeriveBookingPeriod_Snapshot(t *testing.T) {
	now := time.Date(2026, 9, 1, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, domain.PeriodPast, domain.DeriveBookingPeriod(now.AddDate(0, 0, -1), now))
	assert.Equal(t, domain.PeriodCurrent, domain.DeriveBookingPeriod(now.Add(-23*time.Hour), now))
	assert.Equal(t, domain.PeriodFuture, domain.DeriveBookingPeriod(now.AddDate(0, 0, 1), now))
}
