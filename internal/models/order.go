package models

import "time"

// CustomerInfo is the contact block collected by the checkout form.
type CustomerInfo struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Telephone string `json:"telephone" validate:"required"`
	Address   string `json:"address" validate:"required"`
}

// OrderItem is one basket line enriched with the product fields the order
// backend wants echoed back.
type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Brand       string  `json:"brand,omitempty"`
	BrandID     string  `json:"brandId,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
	Image       string  `json:"image,omitempty"`
}

type OrderSummary struct {
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
}

// CheckoutOrder is the outbound payload for order initialization. It is
// assembled from basket + selected selling point + customer info and never
// stored beyond the request lifetime.
type CheckoutOrder struct {
	Reference    string       `json:"client_reference"`
	SellingPoint string       `json:"selling_point"`
	Customer     CustomerInfo `json:"customer"`
	Items        []OrderItem  `json:"items"`
	Summary      OrderSummary `json:"summary"`
	Timestamp    time.Time    `json:"timestamp"`
}
