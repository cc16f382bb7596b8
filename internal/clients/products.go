package clients

import (
	"context"
	"fmt"
	"time"
)

type Product struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock uint    `json:"stock"`
}

type stockUpdate struct {
	Quantity uint `json:"quantity"`
}

type ProductClient struct {
	c *Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{c: New(baseURL, timeout)}
}

func (p *ProductClient) GetProduct(ctx context.Context, id uint) (*Product, error) {
	var product Product
	if err := p.c.Get(ctx, fmt.Sprintf("/api/products/%d", id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock tells the product service to subtract quantity from the
// product's stock. Issued once, without the read retry wrapper.
func (p *ProductClient) DecrementStock(ctx context.Context, id, quantity uint) error {
	return p.c.Put(ctx, fmt.Sprintf("/api/products/%d/stock", id), stockUpdate{Quantity: quantity}, nil)
}
