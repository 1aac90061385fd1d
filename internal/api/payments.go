package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/ImpactDevelopment/impact-cli/internal/output"
)

// CreatePaymentRequest describes a Stripe payment to create.
// Currency is optional; the server falls back to its default currency.
type CreatePaymentRequest struct {
	Currency     string
	Amount       int64 // smallest currency unit, e.g. cents
	Email        string
	Verification string // CAPTCHA response
}

// StripeInfo fetches supported currencies and donation thresholds from
// GET /stripe/info. Unauthenticated.
func (a *Account) StripeInfo(ctx context.Context) (json.RawMessage, error) {
	resp, err := a.client.Get(ctx, "/stripe/info", WithoutAuth())
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreatePayment creates a Stripe payment via POST /stripe/createpayment
// and returns the server's payment descriptor. Unauthenticated.
func (a *Account) CreatePayment(ctx context.Context, req CreatePaymentRequest) (json.RawMessage, error) {
	if req.Amount <= 0 {
		return nil, output.ErrUsage("payment amount must be positive")
	}
	if req.Email == "" {
		return nil, output.ErrUsage("payment email is required")
	}

	fields := url.Values{}
	if req.Currency != "" {
		fields.Set("currency", req.Currency)
	}
	fields.Set("amount", strconv.FormatInt(req.Amount, 10))
	fields.Set("email", req.Email)
	fields.Set("g-recaptcha-response", req.Verification)

	resp, err := a.client.Post(ctx, "/stripe/createpayment", fields, AsForm(), WithoutAuth())
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// RedeemPayment exchanges a completed Stripe payment for a registration
// token via POST /stripe/redeem. Unauthenticated.
func (a *Account) RedeemPayment(ctx context.Context, paymentID, email string) (string, error) {
	fields := url.Values{}
	fields.Set("payment_id", paymentID)
	fields.Set("email", email)

	resp, err := a.client.Post(ctx, "/stripe/redeem", fields, AsForm(), WithoutAuth())
	if err != nil {
		return "", err
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := resp.UnmarshalData(&body); err != nil || body.Token == "" {
		return "", output.ErrAPI(resp.StatusCode, "redeem succeeded but no token was returned")
	}
	return body.Token, nil
}

// StripeConnectLogin fetches a one-time login URL for the Stripe
// Connect Express dashboard via an authenticated GET.
func (a *Account) StripeConnectLogin(ctx context.Context) (json.RawMessage, error) {
	resp, err := a.client.Get(ctx, "/stripe/connect/login")
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// PayPalAfterPayment confirms a completed PayPal order via POST
// /paypal/afterpayment and returns the registration token.
// Unauthenticated.
func (a *Account) PayPalAfterPayment(ctx context.Context, orderID string) (string, error) {
	fields := url.Values{}
	fields.Set("order_id", orderID)

	resp, err := a.client.Post(ctx, "/paypal/afterpayment", fields, AsForm(), WithoutAuth())
	if err != nil {
		return "", err
	}

	token := resp.Text()
	if token == "" {
		return "", output.ErrAPI(resp.StatusCode, "payment confirmed but no token was returned")
	}
	return token, nil
}
