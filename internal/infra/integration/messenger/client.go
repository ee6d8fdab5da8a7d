package messenger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// Client talks to the hosted messaging provider's REST API for outbound
// lead messages. Delivery and reply notifications come back through the
// provider's webhook, not through this client.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    http.DefaultClient,
	}
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) SendMessage(to, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("messenger not configured")
	}

	payload, err := json.Marshal(sendRequest{To: to, Body: body})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/messages", c.baseURL)
	req, err := http.NewRequest("POST", url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("messenger request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("[messenger] provider returned %d: %s", resp.StatusCode, string(respBody))
		return fmt.Errorf("messenger api error: %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("messenger response parse failed: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("messenger: %s (code %d)", result.Error.Message, result.Error.Code)
	}

	return nil
}
