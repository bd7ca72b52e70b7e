package visbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"go.uber.org/zap"

	"visbridge/models"
)

// Error wraps a failed Visbook API call. StatusCode is the upstream HTTP
// status, or 0 when the request never reached the provider.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("visbook API request failed: %s (status=%d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("visbook API request failed: %s", e.Message)
}

// Client is a thin wrapper around the Visbook web services API. The provider
// authenticates guests through a session cookie set by the validation
// endpoint, so the client keeps a cookie jar for the lifetime of the process.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: baseURL,
		hc: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		logger: logger,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamMessage(respBody)
		c.logger.Warn("visbook request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

// upstreamMessage pulls the provider's message field out of an error body,
// falling back to the raw body.
func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	if len(body) > 0 {
		return string(body)
	}
	return "no response body"
}

// Login requests a one-time code delivered to the guest via email or SMS.
func (c *Client) Login(ctx context.Context, webEntity int, method models.LoginMethod, creds models.LoginCredentials) error {
	switch method {
	case models.LoginMethodEmail:
		body := map[string]string{"email": creds.Email}
		return c.do(ctx, http.MethodPost, loginEmailPath(webEntity), body, nil)
	case models.LoginMethodSMS:
		body := map[string]string{
			"phoneNumber": creds.PhoneNumber,
			"countryCode": creds.CountryCode,
		}
		return c.do(ctx, http.MethodPost, loginSMSPath(webEntity), body, nil)
	default:
		return &Error{Message: fmt.Sprintf("unsupported login method: %s", method)}
	}
}

// Validate exchanges the guest's one-time code for a provider session cookie.
// The returned payload is the provider's user record; a nil result means the
// provider issued no credential.
func (c *Client) Validate(ctx context.Context, webEntity int, token string, method models.LoginMethod) (json.RawMessage, error) {
	var path string
	switch method {
	case models.LoginMethodEmail:
		path = validateEmailPath(webEntity, token)
	case models.LoginMethodSMS:
		path = validateMobilePath(webEntity, token)
	default:
		return nil, &Error{Message: fmt.Sprintf("unsupported validation method: %s", method)}
	}

	var out json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReservation places a hold on a product and returns the provider's
// reservation handle.
func (c *Client) CreateReservation(ctx context.Context, webEntity int, req models.ReservationRequest) (models.CreateReservationResult, error) {
	var out models.CreateReservationResult
	if err := c.do(ctx, http.MethodPost, reservationsPath(webEntity), req, &out); err != nil {
		return models.CreateReservationResult{}, err
	}
	return out, nil
}

// UpdateReservation replaces the details of a held reservation.
func (c *Client) UpdateReservation(ctx context.Context, webEntity int, encryptedCompanyID, reservationID string, req models.ReservationRequest) error {
	return c.do(ctx, http.MethodPut, reservationUpdatePath(webEntity, encryptedCompanyID, reservationID), req, nil)
}

// PingReservation keeps the caller's held reservations alive against the
// provider's expiry window.
func (c *Client) PingReservation(ctx context.Context, webEntity int) error {
	return c.do(ctx, http.MethodPost, reservationsPingPath(webEntity), nil, nil)
}

// Checkout finalizes held reservations into an order.
func (c *Client) Checkout(ctx context.Context, webEntity int, req models.CheckoutRequest) (models.CheckoutResult, error) {
	var out models.CheckoutResult
	if err := c.do(ctx, http.MethodPost, checkoutPath(webEntity), req, &out); err != nil {
		return models.CheckoutResult{}, err
	}
	return out, nil
}
