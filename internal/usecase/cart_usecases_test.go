package usecase

import (
	"context"
	"testing"

	"github.com/example/cart-sync-service/internal/domain"
	"github.com/example/cart-sync-service/internal/store"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubSender struct {
	cart domain.Cart
	err  error
}

func (s stubSender) SendCart(context.Context, domain.Cart) error { return s.err }

func (s stubSender) FetchCart(context.Context) (domain.Cart, error) { return s.cart, s.err }

func TestAddAndRemoveFromCart(t *testing.T) {
	s := store.New(domain.State{})
	add := AddToCart{Store: s, Catalog: domain.DefaultCatalog()}
	remove := RemoveFromCart{Store: s}

	if err := add.Execute("p1"); err != nil {
		t.Fatalf("AddToCart(p1) error = %v", err)
	}
	if err := add.Execute("nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("AddToCart(nope) = %v, want ErrNotFound", err)
	}
	if err := remove.Execute("p2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("RemoveFromCart(p2) = %v, want ErrNotFound", err)
	}
	if err := remove.Execute("p1"); err != nil {
		t.Fatalf("RemoveFromCart(p1) error = %v", err)
	}
	if got := s.GetState().Cart; len(got.Items) != 0 || got.Revision != 2 {
		t.Fatalf("cart = %+v, want empty at revision 2", got)
	}
}

func TestToggleCart(t *testing.T) {
	s := store.New(domain.State{})
	uc := ToggleCart{Store: s}
	if !uc.Execute() || uc.Execute() {
		t.Fatal("ToggleCart did not alternate visibility")
	}
}

func TestLoadRemoteCart(t *testing.T) {
	remote := domain.Cart{Items: []domain.CartItem{{ID: "p1", Name: "Book", Price: decimal.NewFromInt(6), Quantity: 2}}}

	s := store.New(domain.State{})
	if err := (LoadRemoteCart{Store: s, Sender: stubSender{cart: remote}}).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := s.GetState().Cart; got.TotalQuantity != 2 || !got.TotalAmount.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("loaded cart = %+v", got)
	}

	boom := errors.New("unreachable")
	if err := (LoadRemoteCart{Store: s, Sender: stubSender{err: boom}}).Execute(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Execute() = %v, want %v", err, boom)
	}

	bad := domain.Cart{Items: []domain.CartItem{{ID: "", Quantity: 1}}}
	if err := (LoadRemoteCart{Store: s, Sender: stubSender{cart: bad}}).Execute(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Execute() = %v, want ErrValidation", err)
	}
}

// Загруженная до монтирования корзина не отправляется обратно.
func TestLoadBeforeMountIsNotEchoed(t *testing.T) {
	s := store.New(domain.State{})
	remote := domain.Cart{Items: []domain.CartItem{{ID: "p1", Price: decimal.NewFromInt(6), Quantity: 1}}}
	if err := (LoadRemoteCart{Store: s, Sender: stubSender{cart: remote}}).Execute(context.Background()); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	sender := newBlockingSender()
	mount(t, s, sender)
	sender.expectNoCall(t)
}
