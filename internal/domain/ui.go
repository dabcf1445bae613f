package domain

// Status отражает этап последней синхронизации корзины.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Notification показывается пользователю после шага синхронизации.
// Живёт только последнее записанное значение.
type Notification struct {
	Status  Status `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// UI хранит переходное состояние интерфейса.
type UI struct {
	CartIsVisible bool          `json:"cartIsVisible"`
	Notification  *Notification `json:"notification"`
}

func PendingNotification() Notification {
	return Notification{Status: StatusPending, Title: "Sending...", Message: "Sending cart data"}
}

func SuccessNotification() Notification {
	return Notification{Status: StatusSuccess, Title: "Success!", Message: "Sent cart data successfully"}
}

func ErrorNotification() Notification {
	return Notification{Status: StatusError, Title: "Error!", Message: "Sent cart data failed"}
}
