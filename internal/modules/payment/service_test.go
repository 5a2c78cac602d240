package payment

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"venuebook/internal/domain"
	"venuebook/internal/gateway/khalti"
	"venuebook/internal/repository"
)

type fakeGateway struct {
	initResult *khalti.InitiateResult
	initErr    error
	lookups    map[string]*khalti.LookupResult
	lookupErr  error
	initCalls  int
}

func (g *fakeGateway) Initiate(ctx context.Context, p khalti.InitiateParams) (*khalti.InitiateResult, error) {
	g.initCalls++
	if g.initErr != nil {
		return nil, g.initErr
	}
	return g.initResult, nil
}

func (g *fakeGateway) Lookup(ctx context.Context, pidx string) (*khalti.LookupResult, error) {
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	res, ok := g.lookups[pidx]
	if !ok {
		return nil, khalti.ErrRejected
	}
	return res, nil
}

type fakeVenueReader struct {
	ownerID int64
}

func (f *fakeVenueReader) IsOwner(ctx context.Context, venueID, userID int64) (bool, error) {
	return userID == f.ownerID, nil
}

type ledgerFixture struct {
	service  *Service
	gateway  *fakeGateway
	payments *repository.PaymentRepository
	bookings *repository.BookingRepository
	booking  *domain.Booking
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	bookings := repository.NewBookingRepository(db)
	b := &domain.Booking{
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
	require.NoError(t, bookings.Create(context.Background(), b))

	gw := &fakeGateway{
		initResult: &khalti.InitiateResult{Pidx: "pidx-1", PaymentURL: "https://test.khalti.com/pay/pidx-1"},
		lookups:    map[string]*khalti.LookupResult{},
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	payments := repository.NewPaymentRepository(db)
	service := NewService(db, gw, bookings, &fakeVenueReader{ownerID: 2}, payments, 500, log)

	return &ledgerFixture{
		service:  service,
		gateway:  gw,
		payments: payments,
		bookings: bookings,
		booking:  b,
	}
}

func (f *ledgerFixture) payer() domain.Actor {
	return domain.Actor{ID: 1, Role: domain.RoleUser}
}

func (f *ledgerFixture) owner() domain.Actor {
	return domain.Actor{ID: 2, Role: domain.RoleOwner}
}

// settle walks one initiate+verify round trip through the ledger.
func (f *ledgerFixture) settle(t *testing.T, pidx string, amount float64) *VerifyResponse {
	t.Helper()
	f.gateway.initResult = &khalti.InitiateResult{Pidx: pidx, PaymentURL: "https://test.khalti.com/pay/" + pidx}

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    amount,
		ReturnURL: "https://example.com/return",
	})
	require.NoError(t, err)

	f.gateway.lookups[pidx] = &khalti.LookupResult{
		Pidx:             pidx,
		Status:           khalti.StatusCompleted,
		TotalAmountPaisa: int64(amount * 100),
	}
	resp, err := f.service.Verify(context.Background(), f.payer(), pidx)
	require.NoError(t, err)
	require.True(t, resp.Settled)
	return resp
}

func TestInitiate_BelowMinimumAdvance(t *testing.T) {
	f := setupLedger(t)

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    300,
		ReturnURL: "https://example.com/return",
	})

	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Equal(t, 0, f.gateway.initCalls)
}

// A final payment smaller than the advance floor is allowed when it clears
// the remaining balance.
func TestInitiate_SmallFinalPaymentAllowed(t *testing.T) {
	f := setupLedger(t)

	f.settle(t, "pidx-a", 5000)

	f.gateway.initResult = &khalti.InitiateResult{Pidx: "pidx-b", PaymentURL: "https://test.khalti.com/pay/pidx-b"}
	resp, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    200,
		ReturnURL: "https://example.com/return",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pidx-b", resp.Pidx)
}

func TestInitiate_GatewayDownLeavesLedgerUntouched(t *testing.T) {
	f := setupLedger(t)
	f.gateway.initErr = khalti.ErrUnreachable

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    1000,
		ReturnURL: "https://example.com/return",
	})

	assert.ErrorIs(t, err, khalti.ErrUnreachable)
	_, err = f.payments.GetByBookingID(context.Background(), f.booking.ID)
	assert.True(t, repository.IsNotFound(err))
}

func TestInitiate_ExceedsBalance(t *testing.T) {
	f := setupLedger(t)

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    6000,
		ReturnURL: "https://example.com/return",
	})

	assert.ErrorIs(t, err, ErrExceedsExpected)
}

func TestInitiate_OtherUserForbidden(t *testing.T) {
	f := setupLedger(t)

	_, err := f.service.Initiate(context.Background(), domain.Actor{ID: 42, Role: domain.RoleUser}, InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    1000,
		ReturnURL: "https://example.com/return",
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVerify_AdvanceThenBalance(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	resp := f.settle(t, "pidx-a", 1000)
	assert.Equal(t, 1000.0, resp.CumulativePaid)
	assert.Equal(t, 4200.0, resp.Balance)

	p, err := f.payments.GetByBookingID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, domain.PaymentAdvance, p.Type)

	b, err := f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPartiallyPaid, b.PaymentStatus)
	assert.Equal(t, 1000.0, b.Pricing.AmountPaid)
	assert.Equal(t, 4200.0, b.Pricing.BalanceAmount)

	resp = f.settle(t, "pidx-b", 4200)
	assert.Equal(t, 5200.0, resp.CumulativePaid)
	assert.Equal(t, 0.0, resp.Balance)

	p, err = f.payments.GetByBookingID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)

	b, err = f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPaid, b.PaymentStatus)
}

func TestVerify_IdempotentSettle(t *testing.T) {
	f := setupLedger(t)

	f.settle(t, "pidx-a", 1000)

	resp, err := f.service.Verify(context.Background(), f.payer(), "pidx-a")
	require.NoError(t, err)
	assert.True(t, resp.Settled)
	assert.Equal(t, 1000.0, resp.CumulativePaid)

	p, err := f.payments.GetByBookingID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, p.CumulativePaid)
}

func TestVerify_NotCompletedIsNotAnError(t *testing.T) {
	f := setupLedger(t)

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    1000,
		ReturnURL: "https://example.com/return",
	})
	require.NoError(t, err)

	f.gateway.lookups["pidx-1"] = &khalti.LookupResult{Pidx: "pidx-1", Status: khalti.StatusPending}

	resp, err := f.service.Verify(context.Background(), f.payer(), "pidx-1")
	require.NoError(t, err)
	assert.False(t, resp.Settled)
	assert.Equal(t, khalti.StatusPending, resp.GatewayStatus)
	assert.Equal(t, 0.0, resp.CumulativePaid)
}

func TestVerify_AmountMismatch(t *testing.T) {
	f := setupLedger(t)

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    1000,
		ReturnURL: "https://example.com/return",
	})
	require.NoError(t, err)

	f.gateway.lookups["pidx-1"] = &khalti.LookupResult{
		Pidx:             "pidx-1",
		Status:           khalti.StatusCompleted,
		TotalAmountPaisa: 90000,
	}

	_, err = f.service.Verify(context.Background(), f.payer(), "pidx-1")
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestRefund_PartialThenFull(t *testing.T) {
	f := setupLedger(t)
	ctx := context.Background()

	f.settle(t, "pidx-a", 5200)

	p, err := f.service.Refund(ctx, f.owner(), RefundRequest{BookingID: f.booking.ID, Amount: 2000})
	require.NoError(t, err)
	assert.Equal(t, 2000.0, p.RefundAmount)
	assert.Equal(t, domain.PaymentPartiallyPaid, p.Status)
	assert.Equal(t, 3200.0, p.NetPaid())

	b, err := f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPartiallyPaid, b.PaymentStatus)
	assert.Equal(t, 3200.0, b.Pricing.AmountPaid)

	// Zero amount refunds the whole remaining net.
	p, err = f.service.Refund(ctx, f.owner(), RefundRequest{BookingID: f.booking.ID})
	require.NoError(t, err)
	assert.Equal(t, 5200.0, p.RefundAmount)
	assert.Equal(t, domain.PaymentRefunded, p.Status)

	b, err = f.bookings.GetByID(ctx, f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingRefunded, b.PaymentStatus)
	assert.Equal(t, 0.0, b.Pricing.AmountPaid)
}

func TestRefund_ExceedsNetRejected(t *testing.T) {
	f := setupLedger(t)

	f.settle(t, "pidx-a", 1000)

	_, err := f.service.Refund(context.Background(), f.owner(), RefundRequest{
		BookingID: f.booking.ID,
		Amount:    2000,
	})

	assert.ErrorIs(t, err, ErrRefundExceedsNet)
}

func TestRefund_NothingSettled(t *testing.T) {
	f := setupLedger(t)

	_, err := f.service.Initiate(context.Background(), f.payer(), InitiateRequest{
		BookingID: f.booking.ID,
		Amount:    1000,
		ReturnURL: "https://example.com/return",
	})
	require.NoError(t, err)

	f.gateway.lookups["pidx-1"] = &khalti.LookupResult{Pidx: "pidx-1", Status: khalti.StatusCompleted, TotalAmountPaisa: 100000}

	_, err = f.service.Refund(context.Background(), f.owner(), RefundRequest{BookingID: f.booking.ID})
	assert.ErrorIs(t, err, ErrNothingToRefund)
}

func TestRefund_NonOwnerForbidden(t *testing.T) {
	f := setupLedger(t)

	f.settle(t, "pidx-a", 5200)

	_, err := f.service.Refund(context.Background(), f.payer(), RefundRequest{BookingID: f.booking.ID})
	assert.ErrorIs(t, err, ErrForbidden)
}
