// Package payment authorizes order totals before an order is persisted.
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	StatusApproved = "APPROVED"
	StatusDeclined = "DECLINED"

	defaultCurrency = "KES"
)

var ErrDeclined = errors.New("payment declined")

type Charge struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Email     string  `json:"email"`
}

// Result is stored verbatim as the order's payment details.
type Result struct {
	Provider      string    `json:"provider"`
	TransactionID string    `json:"transactionId"`
	Status        string    `json:"status"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	ProcessedAt   time.Time `json:"processedAt"`
}

type Gateway interface {
	Charge(ctx context.Context, charge Charge) (Result, error)
	// Refund returns an approved charge in full.
	Refund(ctx context.Context, charge Result) error
}

// Approver approves every charge without contacting anyone.
type Approver struct{}

func (Approver) Charge(_ context.Context, charge Charge) (Result, error) {
	return Result{
		Provider:      "internal",
		TransactionID: uuid.NewString(),
		Status:        StatusApproved,
		Amount:        charge.Amount,
		Currency:      currency(charge.Currency),
		ProcessedAt:   time.Now().UTC(),
	}, nil
}

func (Approver) Refund(context.Context, Result) error { return nil }

type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *resty.Client
}

func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  resty.New().SetTimeout(30 * time.Second),
	}
}

type chargeResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (g *HTTPGateway) Charge(ctx context.Context, charge Charge) (Result, error) {
	charge.Currency = currency(charge.Currency)

	var body chargeResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Authorization":   "Bearer " + g.apiKey,
			"Content-Type":    "application/json",
			"Idempotency-Key": charge.Reference,
		}).
		SetBody(charge).
		SetResult(&body).
		Post(g.baseURL + "/charges")
	if err != nil {
		return Result{}, fmt.Errorf("payment gateway request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusPaymentRequired || body.Status == StatusDeclined {
		return Result{}, fmt.Errorf("%w: %s", ErrDeclined, body.Message)
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("%w: gateway returned status %d", ErrDeclined, resp.StatusCode())
	}
	if body.Status != StatusApproved {
		return Result{}, fmt.Errorf("%w: unexpected status %q", ErrDeclined, body.Status)
	}

	return Result{
		Provider:      "gateway",
		TransactionID: body.ID,
		Status:        body.Status,
		Amount:        charge.Amount,
		Currency:      charge.Currency,
		ProcessedAt:   time.Now().UTC(),
	}, nil
}

// Refund is keyed on the transaction id, so a repeated refund of the same
// charge is deduplicated by the gateway.
func (g *HTTPGateway) Refund(ctx context.Context, charge Result) error {
	if charge.TransactionID == "" {
		return errors.New("refund needs a transaction id")
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Authorization":   "Bearer " + g.apiKey,
			"Content-Type":    "application/json",
			"Idempotency-Key": "refund-" + charge.TransactionID,
		}).
		SetBody(map[string]any{"amount": charge.Amount, "currency": currency(charge.Currency)}).
		Post(g.baseURL + "/charges/" + url.PathEscape(charge.TransactionID) + "/refund")
	if err != nil {
		return fmt.Errorf("payment gateway refund failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("refund of %s rejected with status %d", charge.TransactionID, resp.StatusCode())
	}
	return nil
}

func currency(c string) string {
	if c == "" {
		return defaultCurrency
	}
	return c
}
