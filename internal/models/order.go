package models

// OrderStatus is the lifecycle state of a whole order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderDelivered  OrderStatus = "delivered"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderInProgress, OrderCompleted, OrderDelivered}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderInProgress, OrderCompleted, OrderDelivered:
		return true
	}
	return false
}

// ItemStatus tracks a single line item independently of the order's status.
type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "in_progress"
	ItemCompleted  ItemStatus = "completed"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemPending, ItemInProgress, ItemCompleted:
		return true
	}
	return false
}

// OrderItem is one garment on an order.
type OrderItem struct {
	Type   GarmentKind `json:"type"`
	Count  int         `json:"count"`
	Fabric string      `json:"fabric"`
	Notes  string      `json:"notes"`
	Status ItemStatus  `json:"status,omitempty"`
}

// Order references exactly one customer by id; the name is a denormalized
// snapshot for display.
type Order struct {
	ID           string      `json:"_id"`
	CustomerID   string      `json:"customerId"`
	CustomerName string      `json:"customerName"`
	AmountDue    float64     `json:"amountDue"`
	Status       OrderStatus `json:"status"`
	Items        []OrderItem `json:"items"`
}

// CreateOrderRequest is the create-order submission: customer reference,
// amount due, and the line items.
type CreateOrderRequest struct {
	CustomerID string      `json:"customerId"`
	AmountDue  float64     `json:"amountDue"`
	Items      []OrderItem `json:"items"`
}

// OrderPatch carries a partial update; nil fields are left untouched by the
// backend.
type OrderPatch struct {
	Status    *OrderStatus `json:"status,omitempty"`
	AmountDue *float64     `json:"amountDue,omitempty"`
	Items     []OrderItem  `json:"items,omitempty"`
}
