// Package provider is the HTTP client for the external event-data
// provider, used when events are pulled in batches instead of arriving
// on the stream.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/quarkline/jetweight/internal/event"
)

type Client interface {
	NextEvents(ctx context.Context, limit int) ([]event.Event, error)
	Ack(ctx context.Context, eventID string) error
}

type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("provider %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *HTTPClient) NextEvents(ctx context.Context, limit int) ([]event.Event, error) {
	data, err := c.doReq(ctx, "GET", fmt.Sprintf("/events/pending?limit=%d", limit))
	if err != nil {
		return nil, err
	}
	var events []event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *HTTPClient) Ack(ctx context.Context, eventID string) error {
	_, err := c.doReq(ctx, "POST", "/events/"+eventID+"/ack")
	return err
}
