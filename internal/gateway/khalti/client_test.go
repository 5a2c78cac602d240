package khalti

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestInitiateSendsAuthAndAmount(t *testing.T) {
	var gotAuth string
	var gotBody InitiateParams

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(InitiateResult{Pidx: "px-1", PaymentURL: "https://pay.example/px-1"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk-test"}, testLogger())

	res, err := c.Initiate(context.Background(), InitiateParams{
		AmountPaisa:       100000,
		PurchaseOrderID:   "order-1",
		PurchaseOrderName: "Booking 1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "px-1", res.Pidx)
	assert.Equal(t, "key sk-test", gotAuth)
	assert.Equal(t, int64(100000), gotBody.AmountPaisa)
}

func TestInitiateRejectedOnBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "bad"}, testLogger())

	_, err := c.Initiate(context.Background(), InitiateParams{AmountPaisa: 1000})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestLookupReturnsGatewayStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(LookupResult{Pidx: "px-2", Status: StatusPending, TotalAmountPaisa: 50000})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk"}, testLogger())

	res, err := c.Lookup(context.Background(), "px-2")
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, int64(50000), res.TotalAmountPaisa)
}

func TestUnreachableGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk"}, testLogger())

	_, err := c.Lookup(context.Background(), "px-3")
	assert.ErrorIs(t, err, ErrUnreachable)
}
