package tailor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
)

// TokenSource supplies the current bearer token; an empty string means no
// session, and the request goes out without an Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, used by tests and one-off scripts.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the remote tailoring API. All persistence, business rules,
// and authorization live behind it; this layer only shapes requests and
// decodes responses.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListParams are the shared pagination/search inputs. Page is 1-based on the
// wire; the search controller owns the 0-based to 1-based shift.
type ListParams struct {
	Page        int
	RowsPerPage int
	SearchField string
	SearchQuery string
}

func (p ListParams) values() url.Values {
	params := url.Values{}
	if p.Page > 0 {
		params.Set("page", strconv.Itoa(p.Page))
	}
	if p.RowsPerPage > 0 {
		params.Set("rowsPerPage", strconv.Itoa(p.RowsPerPage))
	}
	if p.SearchField != "" {
		params.Set("searchField", p.SearchField)
	}
	if p.SearchQuery != "" {
		params.Set("searchQuery", p.SearchQuery)
	}
	return params
}

// CustomersPage is one page of customer search results.
type CustomersPage struct {
	Customers []models.Customer `json:"customers"`
	Total     int               `json:"totalCustomers"`
}

// OrdersPage is one page of order search results.
type OrdersPage struct {
	Orders []models.Order `json:"orders"`
	Total  int            `json:"totalOrders"`
}

// AccountsPage is one page of account search results.
type AccountsPage struct {
	Accounts []models.Account `json:"accounts"`
	Total    int              `json:"totalAccounts"`
}

// LoginResult is the login response: the bearer token plus the authenticated
// account.
type LoginResult struct {
	Token string         `json:"token"`
	User  models.Account `json:"user"`
}

// do executes one JSON request. A nil body sends no payload; a non-nil out
// decodes the response into it. Non-2xx responses come back as *APIError.
func (c *Client) do(method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newAPIError(resp.StatusCode, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// Login exchanges credentials for a bearer token and the account record.
func (c *Client) Login(creds models.Credentials) (*LoginResult, error) {
	var result LoginResult
	if err := c.do(http.MethodPost, "/login", nil, creds, &result); err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	return &result, nil
}

// CurrentUser resolves the account behind the current bearer token.
func (c *Client) CurrentUser() (*models.Account, error) {
	var user models.Account
	if err := c.do(http.MethodGet, "/user", nil, nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &user, nil
}

// ListCustomers fetches one page of customers.
func (c *Client) ListCustomers(p ListParams) (*CustomersPage, error) {
	var page CustomersPage
	if err := c.do(http.MethodGet, "/customers", p.values(), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return &page, nil
}

func (c *Client) GetCustomer(id string) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(http.MethodGet, "/customers/"+id, nil, nil, &customer); err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &customer, nil
}

func (c *Client) CreateCustomer(payload models.CustomerPayload) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(http.MethodPost, "/customers", nil, payload, &customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

func (c *Client) UpdateCustomer(id string, payload models.CustomerPayload) (*models.Customer, error) {
	var customer models.Customer
	if err := c.do(http.MethodPut, "/customers/"+id, nil, payload, &customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return &customer, nil
}

func (c *Client) DeleteCustomer(id string) error {
	if err := c.do(http.MethodDelete, "/customers/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

// ExportCustomers downloads the customer book as an Excel workbook. The bytes
// are passed through untouched; the console never parses them.
func (c *Client) ExportCustomers() ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/customers/export", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, newAPIError(resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// ImportCustomers uploads an Excel workbook as multipart/form-data under the
// "file" field.
func (c *Client) ImportCustomers(filename string, file io.Reader) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/customers/import", &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return newAPIError(resp.StatusCode, body)
	}
	return nil
}

// ListOrders fetches one page of orders, optionally filtered by status.
func (c *Client) ListOrders(p ListParams, status models.OrderStatus) (*OrdersPage, error) {
	params := p.values()
	if status != "" {
		params.Set("status", string(status))
	}
	var page OrdersPage
	if err := c.do(http.MethodGet, "/orders", params, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return &page, nil
}

func (c *Client) GetOrder(id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(http.MethodGet, "/orders/"+id, nil, nil, &order); err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (c *Client) CreateOrder(req models.CreateOrderRequest) (*models.Order, error) {
	var order models.Order
	if err := c.do(http.MethodPost, "/orders", nil, req, &order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return &order, nil
}

// UpdateOrder sends a partial update; only the fields set on the patch reach
// the backend.
func (c *Client) UpdateOrder(id string, patch models.OrderPatch) (*models.Order, error) {
	var order models.Order
	if err := c.do(http.MethodPatch, "/orders/"+id, nil, patch, &order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	return &order, nil
}

func (c *Client) DeleteOrder(id string) error {
	if err := c.do(http.MethodDelete, "/orders/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// ListAccounts fetches one page of staff accounts. isSuperAdmin filters by
// role when non-nil.
func (c *Client) ListAccounts(p ListParams, isSuperAdmin *bool) (*AccountsPage, error) {
	params := p.values()
	if isSuperAdmin != nil {
		params.Set("isSuperAdmin", strconv.FormatBool(*isSuperAdmin))
	}
	var page AccountsPage
	if err := c.do(http.MethodGet, "/accounts", params, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return &page, nil
}

func (c *Client) CreateAccount(payload models.AccountPayload) (*models.Account, error) {
	var account models.Account
	if err := c.do(http.MethodPost, "/accounts", nil, payload, &account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}

func (c *Client) UpdateAccount(id string, payload models.AccountPayload) (*models.Account, error) {
	var account models.Account
	if err := c.do(http.MethodPatch, "/accounts/"+id, nil, payload, &account); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &account, nil
}

func (c *Client) DeleteAccount(id string) error {
	if err := c.do(http.MethodDelete, "/accounts/"+id, nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// RetryWithBackoff retries fn with exponential backoff. Intended for
// idempotent reads such as the startup session resolve. An upstream 4xx is a
// settled answer and is returned without further attempts.
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return err
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
