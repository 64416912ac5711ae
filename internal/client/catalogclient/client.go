// Package catalogclient consumes the vessel listing over HTTP and keeps the
// browsing state a catalog page needs.
package catalogclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Meridian-Yachting/brokerage-api/internal/adapters/httpapi/wire"
	"github.com/Meridian-Yachting/brokerage-api/internal/app/catalog"
	"github.com/Meridian-Yachting/brokerage-api/internal/domain"
)

// Params are the listing parameters sent as the query string.
type Params = catalog.Query

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API rooted at baseURL. A nil httpClient gets a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ListVessels calls GET /vessels and returns the rows in server order.
func (c *Client) ListVessels(ctx context.Context, p Params) ([]domain.Vessel, error) {
	u := c.baseURL + "/vessels"
	if qs := p.Encode().Encode(); qs != "" {
		u += "?" + qs
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var er wire.ErrorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			return nil, fmt.Errorf("list vessels: status=%d: %s", resp.StatusCode, er.Error)
		}
		return nil, fmt.Errorf("list vessels: status=%d", resp.StatusCode)
	}

	var rows []wire.Vessel
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode vessels: %w", err)
	}
	out := make([]domain.Vessel, 0, len(rows))
	for _, r := range rows {
		out = append(out, wire.VesselToDomain(r))
	}
	return out, nil
}
