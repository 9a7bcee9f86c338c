// Package storefront looks orders up in the Shopify stores of the business.
package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"driverdesk/internal/core/ports"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultAPIVersion = "2023-07"

// Store is one shop with its Admin API credentials.
type Store struct {
	Name     string
	Domain   string
	APIKey   string
	Password string
	// BaseURL overrides "https://<Domain>".
	BaseURL string
}

func (s Store) ordersURL(version string) string {
	base := s.BaseURL
	if base == "" {
		base = "https://" + s.Domain
	}
	return strings.TrimRight(base, "/") + "/admin/api/" + version + "/orders.json"
}

// ParseStores reads "name|domain|key|password" entries separated by commas.
func ParseStores(raw string) ([]Store, error) {
	var stores []Store
	for _, spec := range strings.Split(raw, ",") {
		spec = strings.TrimSpace(spec)
		if spec == "" {
			continue
		}
		parts := strings.Split(spec, "|")
		if len(parts) != 4 {
			return nil, fmt.Errorf("store %q: want name|domain|key|password", spec)
		}
		stores = append(stores, Store{
			Name:     strings.TrimSpace(parts[0]),
			Domain:   strings.TrimSpace(parts[1]),
			APIKey:   strings.TrimSpace(parts[2]),
			Password: strings.TrimSpace(parts[3]),
		})
	}
	return stores, nil
}

// Client implements ports.OrderLookup over every configured store.
type Client struct {
	stores     []Store
	http       *http.Client
	apiVersion string
	logger     *slog.Logger
}

func NewClient(stores []Store, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		stores:     stores,
		http:       httpClient,
		apiVersion: defaultAPIVersion,
		logger:     logger.With("component", "storefront"),
	}
}

// Lookup asks all stores concurrently and returns the first match of each.
// A failing store is logged and skipped; the call fails only when every store
// failed.
func (c *Client) Lookup(ctx context.Context, orderName string) ([]ports.StoreOrder, error) {
	results := make([]*ports.StoreOrder, len(c.stores))
	failures := make([]error, len(c.stores))

	g, gctx := errgroup.WithContext(ctx)
	for i, store := range c.stores {
		g.Go(func() error {
			o, err := c.fetch(gctx, store, orderName)
			if err != nil {
				failures[i] = fmt.Errorf("%s: %w", store.Name, err)
				c.logger.WarnContext(ctx, "store lookup failed", "store", store.Name, "order", orderName, "error", err)
				return nil
			}
			results[i] = o
			return nil
		})
	}
	_ = g.Wait()

	found := make([]ports.StoreOrder, 0, len(results))
	failed := 0
	for i, o := range results {
		if failures[i] != nil {
			failed++
			continue
		}
		if o != nil {
			found = append(found, *o)
		}
	}
	if len(c.stores) > 0 && failed == len(c.stores) {
		return nil, errors.Join(failures...)
	}
	return found, nil
}

type ordersResponse struct {
	Orders []shopifyOrder `json:"orders"`
}

type shopifyOrder struct {
	CreatedAt         time.Time        `json:"created_at"`
	Tags              string           `json:"tags"`
	FulfillmentStatus *string          `json:"fulfillment_status"`
	CancelledAt       *time.Time       `json:"cancelled_at"`
	TotalOutstanding  *decimal.Decimal `json:"total_outstanding"`
	TotalPrice        *decimal.Decimal `json:"total_price"`
	ShippingAddress   *struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Address1 string `json:"address1"`
		Address2 string `json:"address2"`
		City     string `json:"city"`
		Province string `json:"province"`
	} `json:"shipping_address"`
}

func (c *Client) fetch(ctx context.Context, store Store, orderName string) (*ports.StoreOrder, error) {
	q := url.Values{}
	q.Set("name", orderName)
	q.Set("status", "any")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, store.ordersURL(c.apiVersion)+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(store.APIKey, store.Password)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body ordersResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	if len(body.Orders) == 0 {
		return nil, nil
	}

	o := body.Orders[0]
	fulfillment := "unfulfilled"
	if o.FulfillmentStatus != nil && *o.FulfillmentStatus != "" {
		fulfillment = *o.FulfillmentStatus
	}
	result := &ports.StoreOrder{
		Store:             store.Name,
		CreatedAt:         o.CreatedAt,
		Tags:              o.Tags,
		FulfillmentStatus: fulfillment,
		CancelledAt:       o.CancelledAt,
		TotalOutstanding:  o.TotalOutstanding,
		TotalPrice:        o.TotalPrice,
	}
	if a := o.ShippingAddress; a != nil {
		result.Shipping = ports.ShippingAddress{
			Name:     a.Name,
			Phone:    a.Phone,
			Address1: a.Address1,
			Address2: a.Address2,
			City:     a.City,
			Province: a.Province,
		}
	}
	return result, nil
}
