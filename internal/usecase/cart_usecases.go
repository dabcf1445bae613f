package usecase

import (
	"context"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/pkg/errors"
)

// AddToCart кладёт в корзину одну единицу товара из каталога.
type AddToCart struct {
	Store   domain.Store
	Catalog []domain.Product
}

func (uc AddToCart) Execute(productID string) error {
	p, ok := domain.FindProduct(uc.Catalog, productID)
	if !ok {
		return errors.Wrapf(domain.ErrNotFound, "product %q", productID)
	}
	uc.Store.Dispatch(domain.AddItem{Item: p.CartItem()})
	return nil
}

// RemoveFromCart убирает одну единицу позиции корзины.
type RemoveFromCart struct {
	Store domain.Store
}

func (uc RemoveFromCart) Execute(itemID string) error {
	if uc.Store.GetState().Cart.Find(itemID) < 0 {
		return errors.Wrapf(domain.ErrNotFound, "cart item %q", itemID)
	}
	uc.Store.Dispatch(domain.RemoveItem{ID: itemID})
	return nil
}

type ToggleCart struct {
	Store domain.Store
}

func (uc ToggleCart) Execute() bool {
	uc.Store.Dispatch(domain.ToggleCart{})
	return uc.Store.GetState().UI.CartIsVisible
}

// LoadRemoteCart загружает сохранённую корзину в хранилище. Вызывается до
// монтирования CartSync, чтобы загруженная корзина не отправлялась обратно.
type LoadRemoteCart struct {
	Store  domain.Store
	Sender domain.CartSender
}

func (uc LoadRemoteCart) Execute(ctx context.Context) error {
	cart, err := uc.Sender.FetchCart(ctx)
	if err != nil {
		return err
	}
	if err := cart.Validate(); err != nil {
		return errors.Wrap(err, "remote cart")
	}
	uc.Store.Dispatch(domain.ReplaceCart{Cart: cart})
	return nil
}
