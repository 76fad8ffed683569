package models

import "time"

// BasketEntry is one line of the shopping basket. At most one entry exists
// per product id; adding an existing product increments its quantity.
type BasketEntry struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}
