package wompi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Transaction is the provider's transaction resource as returned by its API
// and echoed in webhook events.
type Transaction struct {
	ID                string `json:"id"`
	Reference         string `json:"reference"`
	Status            string `json:"status"`
	AmountInCents     int64  `json:"amount_in_cents"`
	Currency          string `json:"currency"`
	CustomerEmail     string `json:"customer_email"`
	PaymentMethodType string `json:"payment_method_type,omitempty"`
	PaymentMethod     *struct {
		Type string `json:"type"`
	} `json:"payment_method,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
	FinalizedAt string `json:"finalized_at,omitempty"`
}

// Client fetches transaction state from the provider API. Used by the
// reconciliation job when webhooks are delayed or lost. The transactions
// endpoint requires the merchant's private key.
type Client struct {
	baseURL    string
	privateKey string
	http       *http.Client
}

func NewClient(baseURL, privateKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		privateKey: privateKey,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// GetTransactionByReference looks a transaction up by our payment reference.
// Returns nil when the provider knows nothing about the reference yet.
func (c *Client) GetTransactionByReference(ctx context.Context, reference string) (*Transaction, error) {
	url := fmt.Sprintf("%s/transactions?reference=%s", c.baseURL, reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wompi api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wompi api error: status %d", resp.StatusCode)
	}

	var envelope struct {
		Data []Transaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode wompi response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return nil, nil
	}
	return &envelope.Data[0], nil
}

// GetTransaction fetches a transaction by its provider id.
func (c *Client) GetTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	url := fmt.Sprintf("%s/transactions/%s", c.baseURL, transactionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.privateKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wompi api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wompi api error: status %d", resp.StatusCode)
	}

	var envelope struct {
		Data Transaction `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode wompi response: %w", err)
	}
	return &envelope.Data, nil
}
