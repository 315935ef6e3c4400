package aggregator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL   = "https://api.pluggy.ai"
	defaultTimeout   = 60 * time.Second
	apiKeyLifetime   = 2 * time.Hour
	authPath         = "/auth"
	connectTokenPath = "/connect_token"
	accountsPath     = "/accounts"
	itemsPath        = "/items"
	transactionsPath = "/transactions"
)

// Config holds the client credentials for the aggregation API
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string // defaults to the hosted API when empty
}

// Client handles communication with the aggregation API. Client credentials
// are exchanged for a short-lived API key which is cached and renewed
// transparently.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	clientID     string
	clientSecret string

	mu        sync.Mutex
	apiKey    string
	apiKeyExp time.Time
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new aggregation API client
func NewClient(cfg Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:      base,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
	}
}

// Account represents an account snapshot from the aggregation API
type Account struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"itemId"`
	Type          string          `json:"type"`
	Subtype       string          `json:"subtype"`
	Name          string          `json:"name"`
	MarketingName string          `json:"marketingName"`
	Number        string          `json:"number"`
	Balance       decimal.Decimal `json:"balance"`
	CurrencyCode  string          `json:"currencyCode"`
}

// Connector describes the financial institution behind an item
type Connector struct {
	Name         string `json:"name"`
	ImageURL     string `json:"imageUrl"`
	PrimaryColor string `json:"primaryColor"`
}

// Item represents a bank connection from the aggregation API
type Item struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Connector Connector `json:"connector"`
}

// PaymentData carries payment metadata attached to a transaction
type PaymentData struct {
	PaymentMethod string `json:"paymentMethod"`
}

// Transaction represents a transaction from the aggregation API
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"accountId"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    *string         `json:"category"`
	Type        string          `json:"type"` // "DEBIT" or "CREDIT"
	Status      string          `json:"status"`
	PaymentData *PaymentData    `json:"paymentData,omitempty"`
}

// TransactionPage is one page of transaction results. Only the first page
// is consumed; callers use it verbatim.
type TransactionPage struct {
	Results    []Transaction `json:"results"`
	Total      int           `json:"total"`
	TotalPages int           `json:"totalPages"`
	Page       int           `json:"page"`
}

type accountList struct {
	Results []Account `json:"results"`
}

type authRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type authResponse struct {
	APIKey string `json:"apiKey"`
}

type connectTokenRequest struct {
	ItemID string `json:"itemId,omitempty"`
}

type connectTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ensureAPIKey returns a valid API key, authenticating if the cached one
// is missing or about to expire.
func (c *Client) ensureAPIKey(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.apiKey != "" && time.Now().Before(c.apiKeyExp) {
		return c.apiKey, nil
	}

	payload, err := json.Marshal(authRequest{ClientID: c.clientID, ClientSecret: c.clientSecret})
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+authPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read auth response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", apiError(resp.StatusCode, body)
	}

	var authResp authResponse
	if err := json.Unmarshal(body, &authResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal auth response: %w", err)
	}
	if authResp.APIKey == "" {
		return "", fmt.Errorf("auth response contained no API key")
	}

	c.apiKey = authResp.APIKey
	c.apiKeyExp = time.Now().Add(apiKeyLifetime)
	return c.apiKey, nil
}

// do executes an authenticated request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqBody, out any) error {
	apiKey, err := c.ensureAPIKey(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		payload, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Cached key no longer accepted; drop it so the next call re-authenticates.
		c.mu.Lock()
		c.apiKey = ""
		c.mu.Unlock()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

func apiError(status int, body []byte) error {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
		return fmt.Errorf("API request failed with status %d: %s", status, string(body))
	}
	return fmt.Errorf("API error (status %d): %s", status, errResp.Message)
}

// CreateConnectToken requests a connect token for the linking widget.
// Every call yields a fresh token; tokens are never cached or reused.
func (c *Client) CreateConnectToken(ctx context.Context, itemID string) (string, error) {
	var resp connectTokenResponse
	if err := c.do(ctx, http.MethodPost, connectTokenPath, nil, connectTokenRequest{ItemID: itemID}, &resp); err != nil {
		return "", fmt.Errorf("failed to create connect token: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("connect token response contained no access token")
	}
	return resp.AccessToken, nil
}

// FetchAccount retrieves a single account snapshot by its provider id
func (c *Client) FetchAccount(ctx context.Context, accountID string) (*Account, error) {
	var account Account
	if err := c.do(ctx, http.MethodGet, accountsPath+"/"+url.PathEscape(accountID), nil, nil, &account); err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", accountID, err)
	}
	return &account, nil
}

// FetchItem retrieves the item an account belongs to
func (c *Client) FetchItem(ctx context.Context, itemID string) (*Item, error) {
	var item Item
	if err := c.do(ctx, http.MethodGet, itemsPath+"/"+url.PathEscape(itemID), nil, nil, &item); err != nil {
		return nil, fmt.Errorf("failed to fetch item %s: %w", itemID, err)
	}
	return &item, nil
}

// FetchAccounts lists the accounts belonging to an item
func (c *Client) FetchAccounts(ctx context.Context, itemID string) ([]Account, error) {
	query := url.Values{"itemId": {itemID}}
	var list accountList
	if err := c.do(ctx, http.MethodGet, accountsPath, query, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for item %s: %w", itemID, err)
	}
	return list.Results, nil
}

// FetchTransactions lists the transactions of an account. The provider's
// first page is returned as-is; no pagination is performed.
func (c *Client) FetchTransactions(ctx context.Context, accountID string) (*TransactionPage, error) {
	query := url.Values{"accountId": {accountID}}
	var page TransactionPage
	if err := c.do(ctx, http.MethodGet, transactionsPath, query, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for account %s: %w", accountID, err)
	}
	return &page, nil
}
