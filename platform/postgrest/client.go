// Package postgrest provides a small HTTP client for PostgREST table endpoints,
// as exposed by Supabase under /rest/v1.
// This is part of the platform layer and contains no business logic.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadqualification_backend/platform/logger"
)

const (
	restPath        = "/rest/v1"
	maxErrorBodyLen = 64 << 10
)

// ErrUnfilteredMutation is returned when an update or delete carries no filter.
var ErrUnfilteredMutation = errors.New("postgrest: update and delete require at least one filter")

// Error is a structured 4xx rejection reported by the store (constraint violation,
// malformed filter, rejected key). Transport failures and 5xx responses are never an *Error.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (code %s)", msg, e.Code)
	}
	return msg
}

// Filter is a column equality predicate (column=eq.value).
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: fmt.Sprint(value)}
}

// Order sorts a select by one column.
type Order struct {
	Column    string
	Ascending bool
}

// Client is the HTTP client for a PostgREST endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a new PostgREST client. baseURL is the project URL without the /rest/v1 suffix.
func New(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		log:        log,
	}
}

// Insert writes one row and returns the stored representation.
func (c *Client) Insert(ctx context.Context, table string, row any) (json.RawMessage, error) {
	body, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	return c.do(ctx, http.MethodPost, table, nil, body, true)
}

// Select reads columns from table, optionally filtered and ordered.
func (c *Client) Select(ctx context.Context, table string, columns []string, order *Order, filters ...Filter) (json.RawMessage, error) {
	params := filterParams(filters)
	if len(columns) > 0 {
		params.Set("select", strings.Join(columns, ","))
	}
	if order != nil {
		direction := "desc"
		if order.Ascending {
			direction = "asc"
		}
		params.Set("order", order.Column+"."+direction)
	}
	return c.do(ctx, http.MethodGet, table, params, nil, false)
}

// Update patches the filtered rows and returns their new representation.
func (c *Client) Update(ctx context.Context, table string, values any, filters ...Filter) (json.RawMessage, error) {
	if len(filters) == 0 {
		return nil, ErrUnfilteredMutation
	}
	body, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode values: %w", err)
	}
	return c.do(ctx, http.MethodPatch, table, filterParams(filters), body, true)
}

// Delete removes the filtered rows and returns their last representation.
func (c *Client) Delete(ctx context.Context, table string, filters ...Filter) (json.RawMessage, error) {
	if len(filters) == 0 {
		return nil, ErrUnfilteredMutation
	}
	return c.do(ctx, http.MethodDelete, table, filterParams(filters), nil, true)
}

// Ping checks that the endpoint is reachable and accepts the key.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPath+"/", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, table string, params url.Values, body []byte, returnRepresentation bool) (json.RawMessage, error) {
	reqURL := c.baseURL + restPath + "/" + url.PathEscape(table)
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if returnRepresentation {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("postgrest request failed", "error", err, "method", method, "table", table)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp, method, table)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return json.RawMessage(payload), nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// decodeError turns a 4xx response into an *Error. A 5xx means the store
// itself is failing (gateway down, database unreachable) and is reported as a
// plain error even when the body is structured.
func (c *Client) decodeError(resp *http.Response, method, table string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen))

	var storeErr Error
	structured := json.Unmarshal(raw, &storeErr) == nil && storeErr.Message != ""

	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Error("postgrest upstream error", "status", resp.StatusCode, "code", storeErr.Code, "message", storeErr.Message, "method", method, "table", table)
		return fmt.Errorf("upstream error: status %d", resp.StatusCode)
	}

	if structured {
		storeErr.Status = resp.StatusCode
		c.log.Debug("postgrest rejected request", "status", resp.StatusCode, "code", storeErr.Code, "method", method, "table", table)
		return &storeErr
	}

	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &Error{Status: resp.StatusCode, Message: message}
}

func filterParams(filters []Filter) url.Values {
	params := url.Values{}
	for _, f := range filters {
		params.Add(f.Column, "eq."+f.Value)
	}
	return params
}
