// Package partsclient talks to the partman inventory server over JSON/HTTP.
package partsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for common HTTP error classes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNoProfile    = errors.New("no profile selected")
)

// Client is an HTTP client for the parts server. Authentication is carried
// by the session cookie the server sets on login, so the HTTP client should
// have a cookie jar.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	mu      sync.Mutex
	profile *Profile
}

// New creates a client for baseURL. jar may be nil, in which case logins
// last only as long as the process.
func New(baseURL string, jar http.CookieJar) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second, Jar: jar},
	}
}

// --- Models ---

// User is the credential pair sent to the user endpoints.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Part is a catalogue entry.
type Part struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PartWithStock is a part together with the bin it is stored in.
type PartWithStock struct {
	Part
	Stock  int64 `json:"stock"`
	Row    int   `json:"row"`
	Column int   `json:"column"`
	Z      int   `json:"z"`
}

// Profile groups a user's BOMs and stock.
type Profile struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// Bom is a bill of materials owned by a profile.
type Bom struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BomPart is one line of a BOM: a stocked part and how many one build uses.
type BomPart struct {
	PartWithStock
	Count int64 `json:"count"`
}

// StockRequest is the body for POST /api/parts/stock.
type StockRequest struct {
	ProfileID int64 `json:"profile_id"`
	PartID    int64 `json:"part_id"`
	Stock     int64 `json:"stock"`
	Row       int   `json:"row"`
	Column    int   `json:"column"`
	Z         int   `json:"z"`
}

// --- User methods ---

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/user/create", User{Email: email, Password: password}, nil)
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/user/login", User{Email: email, Password: password}, nil)
}

// --- Part methods ---

// ListParts returns parts whose name and description contain the given
// filters. Empty filters are omitted.
func (c *Client) ListParts(ctx context.Context, name, description string) ([]PartWithStock, error) {
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}
	if description != "" {
		params.Set("description", description)
	}
	path := "/api/parts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp []PartWithStock
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// NewPart adds a part to the catalogue.
func (c *Client) NewPart(ctx context.Context, name, description string) error {
	return c.do(ctx, http.MethodPost, "/api/parts/new", Part{Name: name, Description: description}, nil)
}

// StockPart sets the stock of a part in the selected profile.
func (c *Client) StockPart(ctx context.Context, partID, stock int64, row, column, z int) error {
	p := c.Profile()
	if p == nil {
		return ErrNoProfile
	}
	req := StockRequest{ProfileID: p.ID, PartID: partID, Stock: stock, Row: row, Column: column, Z: z}
	return c.do(ctx, http.MethodPost, "/api/parts/stock", req, nil)
}

// --- BOM methods ---

// ListBoms returns the selected profile's BOMs whose name contains name.
func (c *Client) ListBoms(ctx context.Context, name string) ([]Bom, error) {
	p := c.Profile()
	if p == nil {
		return nil, ErrNoProfile
	}
	params := url.Values{}
	params.Set("profile_id", strconv.FormatInt(p.ID, 10))
	if name != "" {
		params.Set("name", name)
	}

	var resp []Bom
	if err := c.do(ctx, http.MethodGet, "/api/boms?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// BomParts returns the parts of a BOM with the selected profile's stock.
func (c *Client) BomParts(ctx context.Context, bomID int64) ([]BomPart, error) {
	p := c.Profile()
	if p == nil {
		return nil, ErrNoProfile
	}
	path := fmt.Sprintf("/api/boms/%d/parts?profile_id=%d", bomID, p.ID)

	var resp []BomPart
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// --- Profile methods ---

// ListProfiles returns the logged-in user's profiles.
func (c *Client) ListProfiles(ctx context.Context) ([]Profile, error) {
	var resp []Profile
	if err := c.do(ctx, http.MethodGet, "/api/profiles", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// NewProfile creates a profile for the logged-in user.
func (c *Client) NewProfile(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/api/profiles/new", map[string]string{"name": name}, nil)
}

// SelectProfile makes p the profile used by stock operations.
func (c *Client) SelectProfile(p Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = &p
}

// Profile returns the selected profile, or nil.
func (c *Client) Profile() *Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

// --- HTTP helpers ---

// APIError is a non-2xx response that is not one of the sentinel classes.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// errorBody is the error shape the server uses. Plain-text bodies are
// accepted too.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		slog.Debug("parts request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	slog.Debug("parts request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", reqID, "elapsed", time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		msg := errorMessage(respBody)
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
		case http.StatusNotFound:
			return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
		default:
			return &APIError{StatusCode: resp.StatusCode, Message: msg}
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

func errorMessage(body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	return strings.TrimSpace(string(body))
}
