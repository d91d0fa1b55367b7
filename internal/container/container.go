package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"storefront/client/internal/cart"
	"storefront/client/internal/catalog"
	"storefront/client/internal/chat"
	"storefront/client/internal/config"
	"storefront/client/internal/gateway"
	"storefront/client/internal/recs"
	"storefront/client/internal/session"

	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config *config.Config
	Client gateway.StorefrontClient

	Catalog         *catalog.View
	Cart            *cart.Ledger
	Recommendations *recs.Feed
	Chat            *chat.Session
}

// Report records which of the concurrent bootstrap loads failed.
// Any individual failure still leaves the others populated; bootstrap
// with a non-empty report is "succeeded with partial data".
type Report struct {
	CatalogErr         error
	CategoriesErr      error
	CartErr            error
	RecommendationsErr error
}

// Partial reports whether any of the concurrent loads failed.
func (r *Report) Partial() bool {
	return r.CatalogErr != nil || r.CategoriesErr != nil || r.CartErr != nil || r.RecommendationsErr != nil
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	client := gateway.NewStorefrontClient(cfg.API)

	return &Container{
		Config:          cfg,
		Client:          client,
		Catalog:         catalog.NewView(client),
		Cart:            cart.NewLedger(client),
		Recommendations: recs.NewFeed(client),
		Chat:            chat.NewSession(client),
	}, nil
}

// Bootstrap runs first-load initialization. Catalog seeding is awaited
// first and is a hard precondition: if it fails nothing downstream
// runs. The four view loads then run concurrently, each independently
// fallible; their failures are collected into the report rather than
// cancelling one another.
func (c *Container) Bootstrap(ctx context.Context, sessionID string) (*Report, error) {
	if err := c.Client.SeedCatalog(ctx); err != nil {
		return nil, fmt.Errorf("catalog seeding failed: %w", err)
	}

	report := &Report{}
	g := new(errgroup.Group)

	g.Go(func() error {
		if err := c.Catalog.Load(ctx); err != nil {
			log.Warnf("Catalog load failed during bootstrap: %v", err)
			report.CatalogErr = err
		}
		return nil
	})

	g.Go(func() error {
		if _, err := c.Catalog.Categories(ctx); err != nil {
			log.Warnf("Category load failed during bootstrap: %v", err)
			report.CategoriesErr = err
		}
		return nil
	})

	g.Go(func() error {
		if err := c.Cart.Reload(ctx, sessionID); err != nil {
			log.Warnf("Cart reload failed during bootstrap: %v", err)
			report.CartErr = err
		}
		return nil
	})

	g.Go(func() error {
		if err := c.Recommendations.Refresh(ctx, sessionID); err != nil {
			log.Warnf("Recommendation refresh failed during bootstrap: %v", err)
			report.RecommendationsErr = err
		}
		return nil
	})

	g.Wait()

	if report.Partial() {
		log.Warn("Bootstrap completed with partial data")
	} else {
		log.Info("Bootstrap completed")
	}
	return report, nil
}

// RefreshAfterCartChange reloads the recommendation feed after a
// successful cart mutation. Failures are absorbed: recommendations are
// best-effort and never block the cart flow.
func (c *Container) RefreshAfterCartChange(ctx context.Context, sessionID string) {
	if err := c.Recommendations.Refresh(ctx, sessionID); err != nil {
		log.Warnf("Recommendation refresh after cart change failed: %v", err)
	}
}

// Run drives one demonstration pass over the components: bootstrap,
// a catalog query, a cart mutation with its recommendation refresh, and
// a chat turn.
func (c *Container) Run(ctx context.Context) error {
	sessionID := session.New()
	log.Infof("Starting session %s", sessionID)

	report, err := c.Bootstrap(ctx, sessionID)
	if err != nil {
		return err
	}
	if report.Partial() {
		log.Warn("Some views are empty until their next refresh")
	}

	log.Infof("Catalog: %d products, %d categories", len(c.Catalog.Products()), len(c.Catalog.CategoryTags()))

	products := c.Catalog.Products()
	if len(products) > 0 {
		first := products[0]
		if err := c.Cart.AddItem(ctx, first.ID, sessionID, 1); err != nil {
			log.Warnf("Failed to add %q to cart: %v", first.Name, err)
		} else {
			c.RefreshAfterCartChange(ctx, sessionID)
			log.Infof("Cart: %d items, total %.2f", c.Cart.ItemCount(), c.Cart.TotalPrice())
			log.Infof("Recommendations: %d products", len(c.Recommendations.Products()))
		}
	}

	if err := c.Chat.Send(ctx, "What would go well with my cart?", sessionID); err != nil {
		log.Warnf("Chat message dropped: %v", err)
	}
	for _, turn := range c.Chat.Transcript() {
		log.Infof("[%s] %s", turn.Role, turn.Content)
	}

	return nil
}
