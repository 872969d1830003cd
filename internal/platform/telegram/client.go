package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiBaseURL = "https://api.telegram.org"

// Client is a thin wrapper over the Telegram Bot API methods this service
// needs: getChatMember for the subscription gate and sendMessage for
// giveaway announcements.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// ChatMember представляет информацию о пользователе в чате
type ChatMember struct {
	Status string `json:"status"`
}

// Response представляет ответ от Telegram API
type Response struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
}

// APIError is a Telegram-reported failure (data.ok == false), as opposed to
// a transport failure.
type APIError struct {
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error: %s", e.Description)
}

func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    apiBaseURL,
		token:      token,
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub API.
func NewClientWithBaseURL(token, baseURL string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// HasToken reports whether a bot token is configured.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// GetChatMember returns the membership record of userID in chatID.
func (c *Client) GetChatMember(ctx context.Context, chatID, userID string) (*ChatMember, error) {
	params := url.Values{
		"chat_id": {chatID},
		"user_id": {userID},
	}

	resp, err := c.makeRequest(ctx, "GET", "getChatMember", params)
	if err != nil {
		return nil, err
	}

	var member ChatMember
	if err := json.Unmarshal(resp.Result, &member); err != nil {
		return nil, fmt.Errorf("failed to parse chat member: %w", err)
	}
	return &member, nil
}

// SendMessage posts a plain text message to a chat or channel.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	params := url.Values{
		"chat_id": {chatID},
		"text":    {text},
	}

	_, err := c.makeRequest(ctx, "POST", "sendMessage", params)
	return err
}

func (c *Client) makeRequest(ctx context.Context, method, apiMethod string, data url.Values) (*Response, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, apiMethod)

	var req *http.Request
	var err error

	if method == "POST" {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(data.Encode()))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		if len(data) > 0 {
			endpoint = fmt.Sprintf("%s?%s", endpoint, data.Encode())
		}
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var response Response
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if !response.Ok {
		return nil, &APIError{Description: response.Description}
	}

	return &response, nil
}
