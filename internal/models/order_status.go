package models

// OrderStatus is the closed set of order lifecycle states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusInProcess OrderStatus = "InProcess"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var orderStatusDescriptions = map[OrderStatus]string{
	OrderStatusPending:   "Orden pendiente",
	OrderStatusInProcess: "Orden en proceso",
	OrderStatusShipped:   "Orden enviada",
	OrderStatusDelivered: "Orden entregada",
	OrderStatusCancelled: "Orden cancelada",
}

// AllOrderStatuses returns every member in declaration order.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusInProcess,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	}
}

// ParseOrderStatus resolves a raw status name. Unknown names are a hard error.
func ParseOrderStatus(name string) (OrderStatus, error) {
	s := OrderStatus(name)
	if _, ok := orderStatusDescriptions[s]; !ok {
		return "", &InvalidEnumError{Enum: "order status", Value: name, Allowed: orderStatusNames()}
	}
	return s, nil
}

// ValidOrderStatus mirrors ParseOrderStatus without failing.
func ValidOrderStatus(name string) bool {
	_, ok := orderStatusDescriptions[OrderStatus(name)]
	return ok
}

func orderStatusNames() []string {
	all := AllOrderStatuses()
	out := make([]string, 0, len(all))
	for _, s := range all {
		out = append(out, s.String())
	}
	return out
}

func (s OrderStatus) String() string      { return string(s) }
func (s OrderStatus) Description() string { return orderStatusDescriptions[s] }

func (s OrderStatus) IsPending() bool   { return s == OrderStatusPending }
func (s OrderStatus) IsInProcess() bool { return s == OrderStatusInProcess }
func (s OrderStatus) IsShipped() bool   { return s == OrderStatusShipped }
func (s OrderStatus) IsDelivered() bool { return s == OrderStatusDelivered }
func (s OrderStatus) IsCancelled() bool { return s == OrderStatusCancelled }
