package domain

import "github.com/shopspring/decimal"

// Product описывает товар витрины.
type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// CartItem строит позицию корзины для одной единицы товара.
func (p Product) CartItem() CartItem {
	return CartItem{ID: p.ID, Name: p.Title, Price: p.Price, Quantity: 1, TotalPrice: p.Price}
}

// DefaultCatalog возвращает товары, которые показывает витрина.
func DefaultCatalog() []Product {
	return []Product{
		{ID: "p1", Title: "My First Book", Price: decimal.NewFromInt(6), Description: "The first book I ever wrote"},
		{ID: "p2", Title: "My Second Book", Price: decimal.NewFromInt(5), Description: "The second book I ever wrote"},
	}
}

// FindProduct ищет товар по id.
func FindProduct(catalog []Product, id string) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
