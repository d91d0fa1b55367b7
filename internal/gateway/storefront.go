package gateway

import (
	"context"
	"strings"
	"time"

	"storefront/client/internal/config"
	"storefront/client/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// StorefrontClient is the typed boundary to the remote storefront
// service. Every call is a single request/response exchange; there are
// no retries, and every failure is surfaced to the caller as either a
// *TransportError or a *RemoteError.
type StorefrontClient interface {
	SeedCatalog(ctx context.Context) error
	ListProducts(ctx context.Context, query domain.QueryDescriptor) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetCart(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	AddToCart(ctx context.Context, productID, sessionID string, quantity int) error
	RemoveFromCart(ctx context.Context, itemID string) error
	GetRecommendations(ctx context.Context, sessionID string) ([]domain.Product, error)
	PostChatTurn(ctx context.Context, message, sessionID string) (string, error)
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
}

func NewStorefrontClient(cfg config.APIConfig) StorefrontClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &storefrontClient{
		rl:         ratelimit.New(cfg.MaxRequestsPerSecond),
		httpClient: client,
	}
}

func (c *storefrontClient) SeedCatalog(ctx context.Context) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Post("/products/seed")

	return c.check("seed catalog", resp, err)
}

func (c *storefrontClient) ListProducts(ctx context.Context, query domain.QueryDescriptor) ([]domain.Product, error) {
	c.rl.Take()

	var products []domain.Product
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(&products)

	if query.Search != "" {
		req.SetQueryParam("search", query.Search)
	}
	if query.Category != "" && query.Category != domain.CategoryAll {
		req.SetQueryParam("category", query.Category)
	}

	resp, err := req.Get("/products")
	if err := c.check("list products", resp, err); err != nil {
		return nil, err
	}

	log.Debugf("Fetched %d products for query %+v", len(products), query)
	return products, nil
}

func (c *storefrontClient) ListCategories(ctx context.Context) ([]string, error) {
	c.rl.Take()

	var payload struct {
		Categories []string `json:"categories"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		Get("/categories")

	if err := c.check("list categories", resp, err); err != nil {
		return nil, err
	}

	return payload.Categories, nil
}

func (c *storefrontClient) GetCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	c.rl.Take()

	var payload struct {
		CartItems []domain.CartItem `json:"cart_items"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParam("sessionID", sessionID).
		Get("/cart/{sessionID}")

	if err := c.check("get cart", resp, err); err != nil {
		return nil, err
	}

	log.Debugf("Fetched %d cart items for session %s", len(payload.CartItems), sessionID)
	return payload.CartItems, nil
}

func (c *storefrontClient) AddToCart(ctx context.Context, productID, sessionID string, quantity int) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"product_id": productID,
			"user_id":    sessionID,
			"quantity":   quantity,
		}).
		Post("/cart")

	return c.check("add to cart", resp, err)
}

func (c *storefrontClient) RemoveFromCart(ctx context.Context, itemID string) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("itemID", itemID).
		Delete("/cart/{itemID}")

	return c.check("remove from cart", resp, err)
}

func (c *storefrontClient) GetRecommendations(ctx context.Context, sessionID string) ([]domain.Product, error) {
	c.rl.Take()

	var payload struct {
		Recommendations []domain.Product `json:"recommendations"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&payload).
		SetPathParam("sessionID", sessionID).
		Get("/products/recommendations/{sessionID}")

	if err := c.check("get recommendations", resp, err); err != nil {
		return nil, err
	}

	return payload.Recommendations, nil
}

func (c *storefrontClient) PostChatTurn(ctx context.Context, message, sessionID string) (string, error) {
	c.rl.Take()

	var payload struct {
		Response string `json:"response"`
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"message": message,
			"user_id": sessionID,
		}).
		SetResult(&payload).
		Post("/chat")

	if err := c.check("post chat turn", resp, err); err != nil {
		return "", err
	}

	return payload.Response, nil
}

// check classifies the outcome of an exchange into the two gateway
// error kinds. A nil return means a successful response.
func (c *storefrontClient) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		log.Debugf("%s failed in transport: %v", op, err)
		return &TransportError{Op: op, Err: err}
	}
	if resp.IsError() {
		log.Debugf("%s rejected by remote: %d", op, resp.StatusCode())
		return &RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Detail:     strings.TrimSpace(resp.String()),
		}
	}
	return nil
}
