// Package geo resolves client IPs to a coarse location through an
// external ip-api style JSON endpoint. Lookups happen only on the
// asynchronous click-recording path, so failures degrade to an empty
// location and are never user-visible.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Location struct {
	Country string
	City    string
}

type Locator interface {
	Locate(ctx context.Context, ip string) (Location, error)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	City    string `json:"city"`
}

func (c *Client) Locate(ctx context.Context, ip string) (Location, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return Location{}, fmt.Errorf("invalid ip %q", ip)
	}

	// Private and loopback addresses never resolve; skip the call.
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return Location{}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?fields=status,country,city", c.baseURL, ip), nil)
	if err != nil {
		return Location{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Location{}, err
	}

	if body.Status != "success" {
		return Location{}, nil
	}

	return Location{Country: body.Country, City: body.City}, nil
}
