package domain

// State целиком описывает содержимое хранилища состояния.
type State struct {
	Cart Cart `json:"cart"`
	UI   UI   `json:"ui"`
}

// Action запрос на изменение состояния, принимаемый Store.Dispatch.
type Action interface {
	isAction()
}

// AddItem добавляет одну единицу товара, Quantity игнорируется.
type AddItem struct {
	Item CartItem
}

// RemoveItem убирает одну единицу; позиция удаляется при нуле.
type RemoveItem struct {
	ID string
}

// ReplaceCart заменяет корзину целиком, например после загрузки из хранилища.
type ReplaceCart struct {
	Cart Cart
}

type ToggleCart struct{}

type ShowNotification struct {
	Notification Notification
}

func (AddItem) isAction()          {}
func (RemoveItem) isAction()       {}
func (ReplaceCart) isAction()      {}
func (ToggleCart) isAction()       {}
func (ShowNotification) isAction() {}
