package domain

// CartItem is one cart line for a session. IDs are assigned by the
// remote service; Product is embedded by the service on cart reads.
type CartItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"product_id"`
	UserID    string   `json:"user_id"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product,omitempty"`
}
