package domain

import "github.com/shopspring/decimal"

// CartItem описывает одну позицию корзины.
type CartItem struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Cart хранит состояние корзины. Изменяется только редьюсером хранилища.
type Cart struct {
	Items         []CartItem      `json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`

	// Revision увеличивается при каждом изменении корзины и не сериализуется.
	Revision uint64 `json:"-"`
}

// Find возвращает индекс позиции с данным id или -1.
func (c Cart) Find(id string) int {
	for i, it := range c.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

// Clone копирует корзину вместе со срезом позиций.
func (c Cart) Clone() Cart {
	out := c
	if c.Items != nil {
		out.Items = make([]CartItem, len(c.Items))
		copy(out.Items, c.Items)
	}
	return out
}

// Recalculate пересчитывает производные итоги по позициям.
func (c *Cart) Recalculate() {
	qty := 0
	amount := decimal.Zero
	for i := range c.Items {
		it := &c.Items[i]
		it.TotalPrice = it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		qty += it.Quantity
		amount = amount.Add(it.TotalPrice)
	}
	c.TotalQuantity = qty
	c.TotalAmount = amount
}

// Validate проверяет документ корзины, пришедший извне.
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c.Items))
	for _, it := range c.Items {
		if it.ID == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			return ErrValidation
		}
		if _, dup := seen[it.ID]; dup {
			return ErrValidation
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
