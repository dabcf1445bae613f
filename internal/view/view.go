package view

import (
	"html/template"
	"io"

	"github.com/example/cart-sync-service/internal/domain"
)

// Page описывает отрисованный корневой компонент. nil означает, что
// соответствующий дочерний блок не показывается.
type Page struct {
	Notification *domain.Notification `json:"notification,omitempty"`
	Cart         *domain.Cart         `json:"cart,omitempty"`
	Products     []domain.Product     `json:"products"`
}

// Render показывает уведомление, только если оно задано, и корзину, только
// если она видима. Список товаров выводится всегда.
func Render(st domain.State, catalog []domain.Product) Page {
	p := Page{Products: catalog}
	if p.Products == nil {
		p.Products = []domain.Product{}
	}
	if st.UI.Notification != nil {
		n := *st.UI.Notification
		p.Notification = &n
	}
	if st.UI.CartIsVisible {
		c := st.Cart.Clone()
		p.Cart = &c
	}
	return p
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Shop</title></head>
<body>
{{- with .Notification}}
<section class="notification {{.Status}}"><h2>{{.Title}}</h2><p>{{.Message}}</p></section>
{{- end}}
<header><h1>ReduxCart</h1><form method="post" action="/api/ui/cart/toggle"><button>My Cart</button></form></header>
<main>
{{- with .Cart}}
<section class="cart"><h2>Your Shopping Cart</h2><ul>
{{- range .Items}}
<li class="item" data-id="{{.ID}}">{{.Name}} x{{.Quantity}} <span>${{.TotalPrice.StringFixed 2}}</span> <small>(${{.Price.StringFixed 2}}/item)</small>
<form method="post" action="/api/cart/items/{{.ID}}/remove"><button>-</button></form>
<form method="post" action="/api/cart/items"><input type="hidden" name="id" value="{{.ID}}"><button>+</button></form></li>
{{- end}}
</ul><p>Total: {{.TotalQuantity}} items, ${{.TotalAmount.StringFixed 2}}</p></section>
{{- end}}
<section class="products"><h2>Buy your favorite products</h2><ul>
{{- range .Products}}
<li class="product" data-id="{{.ID}}"><h3>{{.Title}}</h3><span>${{.Price.StringFixed 2}}</span><p>{{.Description}}</p>
<form method="post" action="/api/cart/items"><input type="hidden" name="id" value="{{.ID}}"><button>Add to Cart</button></form></li>
{{- end}}
</ul></section>
</main>
</body>
</html>
`))

func WriteHTML(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}
