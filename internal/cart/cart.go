package cart

import (
	"context"
	"fmt"
	"math"
	"sync"

	"storefront/client/internal/domain"
	"storefront/client/internal/gateway"

	log "github.com/sirupsen/logrus"
)

// Ledger mirrors the remote cart for one session. The local item set is
// only ever the verbatim result of the last successful remote read:
// every mutation is sent to the service first and then followed by a
// full reload, never applied optimistically.
type Ledger struct {
	client gateway.StorefrontClient

	mu    sync.Mutex
	items []domain.CartItem
	stale bool
}

func NewLedger(client gateway.StorefrontClient) *Ledger {
	return &Ledger{client: client}
}

// Reload replaces the item set wholesale from the remote cart.
func (l *Ledger) Reload(ctx context.Context, sessionID string) error {
	items, err := l.client.GetCart(ctx, sessionID)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = items
	l.stale = false
	l.mu.Unlock()
	return nil
}

// AddItem sends the mutation and re-reads the authoritative cart. If
// the mutation fails the local set is untouched. If the mutation
// succeeds but the reload fails, the ledger is marked stale until the
// next successful reload.
func (l *Ledger) AddItem(ctx context.Context, productID, sessionID string, quantity int) error {
	if err := l.client.AddToCart(ctx, productID, sessionID, quantity); err != nil {
		return err
	}

	if err := l.Reload(ctx, sessionID); err != nil {
		l.markStale()
		return fmt.Errorf("item added but cart reload failed: %w", err)
	}
	return nil
}

// RemoveItem is the symmetric mutation: delete remotely, then reload.
func (l *Ledger) RemoveItem(ctx context.Context, itemID, sessionID string) error {
	if err := l.client.RemoveFromCart(ctx, itemID); err != nil {
		return err
	}

	if err := l.Reload(ctx, sessionID); err != nil {
		l.markStale()
		return fmt.Errorf("item removed but cart reload failed: %w", err)
	}
	return nil
}

func (l *Ledger) markStale() {
	l.mu.Lock()
	l.stale = true
	l.mu.Unlock()
	log.Warn("Cart mutation applied remotely but reload failed; local cart is stale")
}

// Items returns a copy of the mirrored item set.
func (l *Ledger) Items() []domain.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.CartItem(nil), l.items...)
}

// Stale reports whether a mutation succeeded remotely without the
// follow-up reload, leaving the local mirror behind the service.
func (l *Ledger) Stale() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stale
}

// ItemCount is the sum of line quantities.
func (l *Ledger) ItemCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	count := 0
	for _, item := range l.items {
		count += item.Quantity
	}
	return count
}

// TotalPrice sums price times quantity across lines, rounded to two
// decimal places (standard rounding, not truncation). Lines whose
// product was not embedded by the service contribute nothing.
func (l *Ledger) TotalPrice() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0.0
	for _, item := range l.items {
		if item.Product == nil {
			continue
		}
		total += item.Product.Price * float64(item.Quantity)
	}
	return math.Round(total*100) / 100
}
