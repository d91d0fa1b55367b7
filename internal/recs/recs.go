package recs

import (
	"context"
	"sync"

	"storefront/client/internal/domain"
	"storefront/client/internal/gateway"
)

// Feed holds the ranked recommendation list for a session.
// Recommendations are best-effort: a failed refresh leaves the previous
// list intact and never blocks any other flow.
type Feed struct {
	client gateway.StorefrontClient

	mu    sync.Mutex
	items []domain.Product
}

func NewFeed(client gateway.StorefrontClient) *Feed {
	return &Feed{client: client}
}

// Refresh replaces the list wholesale from the remote service.
func (f *Feed) Refresh(ctx context.Context, sessionID string) error {
	items, err := f.client.GetRecommendations(ctx, sessionID)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	return nil
}

// Products returns a copy of the current recommendation list.
func (f *Feed) Products() []domain.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Product(nil), f.items...)
}
