package bookboost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"visbridge/models"
)

// Error wraps a failed Bookboost API call with the upstream HTTP status.
type Error struct {
	StatusCode int
	Op         string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("bookboost %s failed: %s (status=%d)", e.Op, e.Message, e.StatusCode)
}

// Client talks to the Bookboost CDP API using a bearer token.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &Error{Op: op, StatusCode: http.StatusInternalServerError, Message: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return &Error{Op: op, StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return &Error{Op: op, StatusCode: http.StatusInternalServerError, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := upstreamMessage(respBody)
		c.logger.Warn("bookboost request failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Op: op, StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}
	return nil
}

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

// UpsertUser creates or updates a guest profile in the CDP.
func (c *Client) UpsertUser(ctx context.Context, payload models.BookboostUserPayload) (models.BookboostUser, error) {
	var out models.BookboostUser
	if err := c.post(ctx, "upsertUser", "/users", payload, &out); err != nil {
		return models.BookboostUser{}, err
	}
	return out, nil
}

// LinkExternalRef attaches an external system's id to a CDP profile.
func (c *Client) LinkExternalRef(ctx context.Context, userID, externalID string) error {
	body := map[string]string{
		"user_id":     userID,
		"external_id": externalID,
		"source":      "visbook",
	}
	return c.post(ctx, "linkExternalRef", "/user-external-reference", body, nil)
}

// TagUser attaches segmentation tags to a CDP profile.
func (c *Client) TagUser(ctx context.Context, userID string, tags []string) error {
	body := map[string]any{
		"user_id": userID,
		"tags":    tags,
	}
	return c.post(ctx, "tagUser", "/user-tags", body, nil)
}

// SendMessage delivers a message to a profile over the given channel.
func (c *Client) SendMessage(ctx context.Context, userID string, channel models.MessageChannel, message string) error {
	path := "/message/email"
	if channel == models.MessageChannelSMS {
		path = "/message/sms"
	}
	body := map[string]string{
		"user_id": userID,
		"message": message,
		"channel": string(channel),
	}
	return c.post(ctx, "sendMessage", path, body, nil)
}
