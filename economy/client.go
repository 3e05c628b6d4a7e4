package economy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gov-bot/utils"
)

// Client implements Ledger against the economy bot's HTTP API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an API client. An empty httpClient falls back to the
// shared pooled client.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    utils.GlobalHTTPClient,
	}
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

type adjustRequest struct {
	ActorID string `json:"actor_id"`
	Amount  int64  `json:"amount"`
	Reason  string `json:"reason"`
}

type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type transferResponse struct {
	FromBalance int64 `json:"from_balance"`
	ToBalance   int64 `json:"to_balance"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FetchBalance reads the authoritative balance of an account.
func (c *Client) FetchBalance(guildID, accountID string) (int64, error) {
	var resp balanceResponse
	path := fmt.Sprintf("/guilds/%s/accounts/%s/balance", guildID, accountID)
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch balance for account %s: %w", accountID, err)
	}
	return resp.Balance, nil
}

// AdjustBalance applies a signed delta to an account.
func (c *Client) AdjustBalance(guildID, actorID, targetID string, amount int64, reason string) (int64, error) {
	var resp balanceResponse
	path := fmt.Sprintf("/guilds/%s/accounts/%s/adjust", guildID, targetID)
	req := adjustRequest{ActorID: actorID, Amount: amount, Reason: reason}
	if err := c.do(http.MethodPost, path, req, &resp); err != nil {
		return 0, fmt.Errorf("failed to adjust balance for account %s: %w", targetID, err)
	}
	return resp.Balance, nil
}

// Transfer moves funds between two economy accounts.
func (c *Client) Transfer(guildID, fromID, toID string, amount int64, reason string) (int64, int64, error) {
	var resp transferResponse
	path := fmt.Sprintf("/guilds/%s/transfers", guildID)
	req := transferRequest{From: fromID, To: toID, Amount: amount, Reason: reason}
	if err := c.do(http.MethodPost, path, req, &resp); err != nil {
		return 0, 0, fmt.Errorf("failed to transfer %d from %s to %s: %w", amount, fromID, toID, err)
	}
	return resp.FromBalance, resp.ToBalance, nil
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to serialize request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(resp.Body)
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code == "insufficient_balance" {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("economy API returned %s: %s", resp.Status, string(raw))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode economy API response: %w", err)
	}
	return nil
}
