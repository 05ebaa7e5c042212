// Package paypal is the outbound adapter to PayPal's Adaptive Payments API.
// The same concrete gateway serves both payment ports of the platform: pay
// key minting and execution for transactions, and preapproval key handling
// for users.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"commonfund/contexts/collective-ledger/transaction-service/ports"
)

// Config identifies the API caller. Endpoint selects the sandbox or live
// environment.
type Config struct {
	Endpoint  string
	UserID    string
	Password  string
	Signature string
	AppID     string
}

type Gateway struct {
	config Config
	client *http.Client
}

func NewGateway(config Config, client *http.Client) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Gateway{
		config: config,
		client: client,
	}
}

type receiver struct {
	Email  string `json:"email"`
	Amount string `json:"amount"`
}

type payRequestBody struct {
	ActionType   string     `json:"actionType"`
	CurrencyCode string     `json:"currencyCode"`
	Receivers    []receiver `json:"receiverList"`
}

type preapprovalRequestBody struct {
	SenderID     string `json:"senderId"`
	StartingDate string `json:"startingDate"`
}

type keyResponse struct {
	Ack            string `json:"ack"`
	PayKey         string `json:"payKey"`
	PreapprovalKey string `json:"preapprovalKey"`
	Error          string `json:"error,omitempty"`
}

// MintPayKey creates a pay key for a single receiver. Amounts are held in
// cents internally; PayPal wants decimal units.
func (g *Gateway) MintPayKey(ctx context.Context, req ports.PayRequest) (string, error) {
	body := payRequestBody{
		ActionType:   "PAY",
		CurrencyCode: req.Currency,
		Receivers: []receiver{{
			Email:  req.Beneficiary,
			Amount: fmt.Sprintf("%d.%02d", req.Amount/100, req.Amount%100),
		}},
	}
	result, err := g.call(ctx, "/AdaptivePayments/Pay", body)
	if err != nil {
		return "", err
	}
	return result.PayKey, nil
}

// ConfirmPay executes a previously minted pay key.
func (g *Gateway) ConfirmPay(ctx context.Context, key string) error {
	_, err := g.call(ctx, "/AdaptivePayments/ExecutePayment", map[string]string{"payKey": key})
	return err
}

// RequestPreapproval opens a preapproval flow for the payer.
func (g *Gateway) RequestPreapproval(ctx context.Context, payerUserID int64) (string, error) {
	body := preapprovalRequestBody{
		SenderID:     fmt.Sprintf("%d", payerUserID),
		StartingDate: time.Now().UTC().Format(time.RFC3339),
	}
	result, err := g.call(ctx, "/AdaptivePayments/Preapproval", body)
	if err != nil {
		return "", err
	}
	return result.PreapprovalKey, nil
}

// ConfirmPreapproval verifies a preapproval key the payer completed.
func (g *Gateway) ConfirmPreapproval(ctx context.Context, key string) error {
	_, err := g.call(ctx, "/AdaptivePayments/PreapprovalDetails", map[string]string{"preapprovalKey": key})
	return err
}

func (g *Gateway) call(ctx context.Context, path string, payload any) (keyResponse, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return keyResponse{}, fmt.Errorf("encode paypal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.Endpoint+path, bytes.NewReader(raw))
	if err != nil {
		return keyResponse{}, fmt.Errorf("build paypal request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-PAYPAL-SECURITY-USERID", g.config.UserID)
	req.Header.Set("X-PAYPAL-SECURITY-PASSWORD", g.config.Password)
	req.Header.Set("X-PAYPAL-SECURITY-SIGNATURE", g.config.Signature)
	req.Header.Set("X-PAYPAL-APPLICATION-ID", g.config.AppID)

	resp, err := g.client.Do(req)
	if err != nil {
		return keyResponse{}, fmt.Errorf("paypal request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return keyResponse{}, fmt.Errorf("paypal returned %s", resp.Status)
	}

	var result keyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return keyResponse{}, fmt.Errorf("decode paypal response: %w", err)
	}
	if result.Ack != "Success" {
		return keyResponse{}, fmt.Errorf("paypal rejected request: %s", result.Error)
	}
	return result, nil
}
