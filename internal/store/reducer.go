package store

import "github.com/example/cart-sync-service/internal/domain"

// Reduce возвращает новое состояние; st не изменяется.
func Reduce(st domain.State, a domain.Action) domain.State {
	switch act := a.(type) {
	case domain.AddItem:
		st.Cart = addItem(st.Cart, act.Item)
	case domain.RemoveItem:
		if c, ok := removeItem(st.Cart, act.ID); ok {
			st.Cart = c
		}
	case domain.ReplaceCart:
		c := act.Cart.Clone()
		c.Recalculate()
		c.Revision = st.Cart.Revision + 1
		st.Cart = c
	case domain.ToggleCart:
		st.UI.CartIsVisible = !st.UI.CartIsVisible
	case domain.ShowNotification:
		n := act.Notification
		st.UI.Notification = &n
	}
	return st
}

func addItem(c domain.Cart, item domain.CartItem) domain.Cart {
	c = c.Clone()
	if i := c.Find(item.ID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		item.Quantity = 1
		c.Items = append(c.Items, item)
	}
	c.Recalculate()
	c.Revision++
	return c
}

func removeItem(c domain.Cart, id string) (domain.Cart, bool) {
	i := c.Find(id)
	if i < 0 {
		return c, false
	}
	c = c.Clone()
	if c.Items[i].Quantity <= 1 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity--
	}
	c.Recalculate()
	c.Revision++
	return c, true
}
