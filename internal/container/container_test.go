package container

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"storefront/client/internal/cart"
	"storefront/client/internal/catalog"
	"storefront/client/internal/chat"
	"storefront/client/internal/domain"
	"storefront/client/internal/recs"
)

// stubService emulates the remote storefront in memory so bootstrap and
// the full shopping flow can run without a network.
type stubService struct {
	products   []domain.Product
	categories []string
	cartItems  []domain.CartItem
	recsBatch  []domain.Product
	nextLineID int

	seedErr error
	cartErr error
	recsErr error

	seedCalls int
	listCalls int
}

func (s *stubService) SeedCatalog(ctx context.Context) error {
	s.seedCalls++
	return s.seedErr
}

func (s *stubService) ListProducts(ctx context.Context, q domain.QueryDescriptor) ([]domain.Product, error) {
	s.listCalls++
	if q.IsEmpty() {
		return append([]domain.Product(nil), s.products...), nil
	}
	var matched []domain.Product
	for _, p := range s.products {
		if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
			continue
		}
		if q.Category != "" && q.Category != domain.CategoryAll && p.Category != q.Category {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

func (s *stubService) ListCategories(ctx context.Context) ([]string, error) {
	return append([]string(nil), s.categories...), nil
}

func (s *stubService) GetCart(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	if s.cartErr != nil {
		return nil, s.cartErr
	}
	return append([]domain.CartItem(nil), s.cartItems...), nil
}

func (s *stubService) AddToCart(ctx context.Context, productID, sessionID string, quantity int) error {
	for _, p := range s.products {
		if p.ID == productID {
			s.nextLineID++
			line := p
			s.cartItems = append(s.cartItems, domain.CartItem{
				ID:        fmt.Sprintf("line-%d", s.nextLineID),
				ProductID: productID,
				UserID:    sessionID,
				Quantity:  quantity,
				Product:   &line,
			})
			// Cart contents feed recommendations
			s.recsBatch = append(s.recsBatch, domain.Product{ID: "rec-for-" + productID})
			return nil
		}
	}
	return errors.New("product not found")
}

func (s *stubService) RemoveFromCart(ctx context.Context, itemID string) error {
	kept := s.cartItems[:0]
	for _, item := range s.cartItems {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.cartItems = kept
	return nil
}

func (s *stubService) GetRecommendations(ctx context.Context, sessionID string) ([]domain.Product, error) {
	if s.recsErr != nil {
		return nil, s.recsErr
	}
	return append([]domain.Product(nil), s.recsBatch...), nil
}

func (s *stubService) PostChatTurn(ctx context.Context, message, sessionID string) (string, error) {
	return "you asked: " + message, nil
}

func catalogOfTwelve() []domain.Product {
	products := make([]domain.Product, 0, 12)
	for i := 1; i <= 12; i++ {
		name := fmt.Sprintf("Product %d", i)
		if i == 5 || i == 7 {
			name = fmt.Sprintf("Running Shoe %d", i)
		}
		products = append(products, domain.Product{
			ID:       fmt.Sprintf("p%d", i),
			Name:     name,
			Price:    float64(i) * 10,
			Category: "fashion",
		})
	}
	return products
}

func newTestContainer(stub *stubService) *Container {
	return &Container{
		Client:          stub,
		Catalog:         catalog.NewView(stub),
		Cart:            cart.NewLedger(stub),
		Recommendations: recs.NewFeed(stub),
		Chat:            chat.NewSession(stub),
	}
}

func TestBootstrap_SeedFailureAborts(t *testing.T) {
	stub := &stubService{
		products: catalogOfTwelve(),
		seedErr:  errors.New("mongo down"),
	}
	app := newTestContainer(stub)

	report, err := app.Bootstrap(context.Background(), "s1")
	if err == nil {
		t.Fatal("Bootstrap() expected error when seeding fails")
	}
	if report != nil {
		t.Errorf("report = %+v, want nil on aborted bootstrap", report)
	}
	if stub.listCalls != 0 {
		t.Errorf("catalog was queried %d times after failed seed, want 0", stub.listCalls)
	}
}

func TestBootstrap_PartialFailureStillPopulatesOthers(t *testing.T) {
	stub := &stubService{
		products:   catalogOfTwelve(),
		categories: []string{"fashion"},
		recsBatch:  []domain.Product{{ID: "r1"}},
		cartErr:    errors.New("cart store down"),
	}
	app := newTestContainer(stub)

	report, err := app.Bootstrap(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Bootstrap() error = %v, want partial success", err)
	}
	if report.CartErr == nil {
		t.Error("report.CartErr should record the cart failure")
	}
	if !report.Partial() {
		t.Error("report should be partial")
	}
	if got := len(app.Catalog.Products()); got != 12 {
		t.Errorf("catalog has %d products, want 12", got)
	}
	if got := len(app.Catalog.CategoryTags()); got != 2 {
		t.Errorf("category tags = %d, want all + fashion", got)
	}
	if got := len(app.Recommendations.Products()); got != 1 {
		t.Errorf("recommendations = %d, want 1", got)
	}
}

func TestShoppingFlow(t *testing.T) {
	stub := &stubService{
		products:   catalogOfTwelve(),
		categories: []string{"fashion"},
	}
	app := newTestContainer(stub)
	ctx := context.Background()
	sessionID := "s-flow"

	report, err := app.Bootstrap(ctx, sessionID)
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	if report.Partial() {
		t.Fatalf("unexpected partial bootstrap: %+v", report)
	}
	if got := len(app.Catalog.Visible()); got != 12 {
		t.Fatalf("visible catalog = %d products, want 12", got)
	}

	query := domain.QueryDescriptor{Search: "shoe", Category: domain.CategoryAll}
	if err := app.Catalog.ApplyQuery(ctx, query); err != nil {
		t.Fatalf("ApplyQuery() error = %v", err)
	}
	if got := len(app.Catalog.Visible()); got != 2 {
		t.Fatalf("filtered catalog = %d products, want 2", got)
	}

	recsBefore := len(app.Recommendations.Products())

	if err := app.Cart.AddItem(ctx, "p7", sessionID, 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	app.RefreshAfterCartChange(ctx, sessionID)

	items := app.Cart.Items()
	if len(items) != 1 || items[0].Quantity != 1 || items[0].ProductID != "p7" {
		t.Fatalf("cart = %+v, want one line of p7 with quantity 1", items)
	}

	// Mirror invariant: local set equals an independent authoritative read
	remote, err := stub.GetCart(ctx, sessionID)
	if err != nil {
		t.Fatalf("GetCart() error = %v", err)
	}
	if len(remote) != len(items) || remote[0].ID != items[0].ID {
		t.Fatalf("local cart %+v does not mirror remote %+v", items, remote)
	}

	if got := len(app.Recommendations.Products()); got == recsBefore {
		t.Error("recommendations should change after a cart mutation")
	}

	if err := app.Chat.Send(ctx, "will these fit?", sessionID); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if got := len(app.Chat.Transcript()); got != 2 {
		t.Errorf("transcript length = %d, want 2", got)
	}
}

func TestRefreshAfterCartChange_FailureLeavesFeed(t *testing.T) {
	stub := &stubService{
		products:  catalogOfTwelve(),
		recsBatch: []domain.Product{{ID: "r1"}},
	}
	app := newTestContainer(stub)
	ctx := context.Background()

	if err := app.Recommendations.Refresh(ctx, "s1"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if err := app.Cart.AddItem(ctx, "p1", "s1", 1); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	stub.recsErr = errors.New("model overloaded")
	app.RefreshAfterCartChange(ctx, "s1")

	if got := len(app.Cart.Items()); got != 1 {
		t.Errorf("cart = %d items, want 1; recommendation failure must not touch it", got)
	}
	feed := app.Recommendations.Products()
	if len(feed) != 1 || feed[0].ID != "r1" {
		t.Errorf("feed = %v, want the prior batch intact", feed)
	}
}
