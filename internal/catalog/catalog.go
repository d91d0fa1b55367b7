package catalog

import (
	"context"
	"sync"

	"storefront/client/internal/domain"
	"storefront/client/internal/gateway"

	log "github.com/sirupsen/logrus"
)

// View holds the full product set and the currently visible subset.
// Search and category filtering are delegated to the remote service;
// the view never filters locally, so client and server matching
// semantics cannot diverge.
type View struct {
	client gateway.StorefrontClient

	mu         sync.Mutex
	full       []domain.Product
	visible    []domain.Product
	active     domain.QueryDescriptor
	categories []string

	// seq stamps every request that may replace visible. A response
	// whose stamp is no longer current lost the race to a newer
	// request and is discarded (last request wins).
	seq uint64
}

func NewView(client gateway.StorefrontClient) *View {
	return &View{client: client}
}

// Load fetches the unfiltered catalog and resets both the full set and
// the visible subset to it. On failure neither is touched.
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	v.seq++
	stamp := v.seq
	v.mu.Unlock()

	products, err := v.client.ListProducts(ctx, domain.QueryDescriptor{Category: domain.CategoryAll})
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if stamp != v.seq {
		log.Debugf("Discarding catalog load superseded by a newer request")
		return nil
	}
	v.full = products
	v.visible = products
	v.active = domain.QueryDescriptor{Category: domain.CategoryAll}
	return nil
}

// ApplyQuery re-queries the remote service with the descriptor and
// replaces the visible subset with the result. The full set is never
// touched; on failure the visible subset stays as it was.
func (v *View) ApplyQuery(ctx context.Context, query domain.QueryDescriptor) error {
	v.mu.Lock()
	v.seq++
	stamp := v.seq
	v.active = query
	v.mu.Unlock()

	products, err := v.client.ListProducts(ctx, query)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if stamp != v.seq {
		log.Debugf("Discarding stale result for query %+v", query)
		return nil
	}
	v.visible = products
	return nil
}

// ClearQuery resets the view to the unfiltered catalog.
func (v *View) ClearQuery(ctx context.Context) error {
	return v.ApplyQuery(ctx, domain.QueryDescriptor{Category: domain.CategoryAll})
}

// Categories fetches the category tags present in the catalog, with the
// "all" tag prepended, and caches them for snapshot reads.
func (v *View) Categories(ctx context.Context) ([]string, error) {
	tags, err := v.client.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	withAll := append([]string{domain.CategoryAll}, tags...)

	v.mu.Lock()
	v.categories = withAll
	v.mu.Unlock()

	return append([]string(nil), withAll...), nil
}

// Products returns a copy of the full catalog.
func (v *View) Products() []domain.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Product(nil), v.full...)
}

// Visible returns a copy of the currently filtered subset.
func (v *View) Visible() []domain.Product {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]domain.Product(nil), v.visible...)
}

// ActiveQuery returns the descriptor of the most recent query.
func (v *View) ActiveQuery() domain.QueryDescriptor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.active
}

// CategoryTags returns a copy of the last fetched category list.
func (v *View) CategoryTags() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.categories...)
}
