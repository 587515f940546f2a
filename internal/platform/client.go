// Package platform talks to the streaming platform's points API, the external
// system some accounts are linked to.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Debit removes points from the linked account and returns its resulting
// balance, which callers treat as the source of truth.
func (c *Client) Debit(ctx context.Context, accountID string, amount int64) (int64, error) {
	return c.post(ctx, "/api/points/deduct", accountID, amount)
}

func (c *Client) Credit(ctx context.Context, accountID string, amount int64) (int64, error) {
	return c.post(ctx, "/api/points/add", accountID, amount)
}

func (c *Client) SetBalance(ctx context.Context, accountID string, balance int64) (int64, error) {
	return c.post(ctx, "/api/points/set", accountID, balance)
}

func (c *Client) post(ctx context.Context, path, accountID string, amount int64) (int64, error) {
	payload := map[string]any{"account_id": accountID, "amount": amount}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	var data struct {
		Balance int64  `json:"balance"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(respBody, &data)
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("platform: status %d: %s", resp.StatusCode, data.Error)
	}
	return data.Balance, nil
}
