package domain

// Product is a catalog entry as the storefront service serves it.
// The client never creates or edits products.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	InStock     bool     `json:"in_stock"`
}
