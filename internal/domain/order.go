package domain

// LineItem is one product entry of a placed order, as seen by the
// fulfillment adapter. Order lifecycle itself is owned by the order flow.
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
