package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Transaction states reported by the Khalti ePayment lookup API.
const (
	StatusCompleted    = "Completed"
	StatusPending      = "Pending"
	StatusInitiated    = "Initiated"
	StatusRefunded     = "Refunded"
	StatusExpired      = "Expired"
	StatusUserCanceled = "User canceled"
)

var (
	// ErrUnreachable means the gateway could not be reached at all
	// (network failure, timeout). Retryable.
	ErrUnreachable = errors.New("khalti: gateway unreachable")
	// ErrRejected means the gateway answered with a non-success response.
	ErrRejected = errors.New("khalti: request rejected")
)

type Config struct {
	BaseURL   string
	SecretKey string
	Timeout   time.Duration
}

// Client talks to the Khalti ePayment API. All amounts cross this boundary
// in paisa; callers convert from major units.
type Client struct {
	cfg  Config
	http *http.Client
	log  *logrus.Logger
}

func NewClient(cfg Config, log *logrus.Logger) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

type InitiateParams struct {
	AmountPaisa       int64  `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
}

type InitiateResult struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

type LookupResult struct {
	Pidx             string `json:"pidx"`
	Status           string `json:"status"`
	TotalAmountPaisa int64  `json:"total_amount"`
	Refunded         bool   `json:"refunded"`
}

// Initiate registers a payment with the gateway and returns the reference
// (pidx) plus the hosted payment URL.
func (c *Client) Initiate(ctx context.Context, p InitiateParams) (*InitiateResult, error) {
	var out InitiateResult
	if err := c.post(ctx, "/epayment/initiate/", p, &out); err != nil {
		return nil, err
	}
	if out.Pidx == "" {
		return nil, fmt.Errorf("%w: initiate response missing pidx", ErrRejected)
	}
	return &out, nil
}

// Lookup fetches the authoritative transaction state for a pidx. A
// non-Completed status is normal data, not an error.
func (c *Client) Lookup(ctx context.Context, pidx string) (*LookupResult, error) {
	var out LookupResult
	body := map[string]string{"pidx": pidx}
	if err := c.post(ctx, "/epayment/lookup/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key "+c.cfg.SecretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Error("khalti request failed")
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode,
		}).Error("khalti rejected request")
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrRejected, err)
	}
	return nil
}
