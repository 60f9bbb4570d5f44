package models

import (
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when a payload carries no currency code.
var DefaultCurrency = currency.MustParseISO("PEN")

var pricePrinter = message.NewPrinter(language.MustParse("es-PE"))

// OrderResource is the order payload as exchanged with the backend.
type OrderResource struct {
	OrderID         string              `json:"orderId"`
	CustomerID      string              `json:"customerId"`
	LogisticsID     string              `json:"logisticsId"`
	ShippingAddress string              `json:"shippingAddress"`
	OrderDate       time.Time           `json:"orderDate"`
	Status          string              `json:"status"`
	TotalPrice      float64             `json:"totalPrice"`
	OrderItems      []OrderItemResource `json:"orderItems"`
}

type OrderItemResource struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"productId"`
	Quantity      int     `json:"quantity"`
	PriceAmount   float64 `json:"priceAmount"`
	PriceCurrency string  `json:"priceCurrency"`
	ProductName   string  `json:"productName,omitempty"`
}

type CreateOrderResource struct {
	CustomerID      string                 `json:"customerId"`
	LogisticsID     string                 `json:"logisticsId"`
	ShippingAddress string                 `json:"shippingAddress"`
	Items           []AddOrderItemResource `json:"items"`
}

type AddOrderItemResource struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderTrackingInfoResource is the per-order container rollup.
type OrderTrackingInfoResource struct {
	OrderID             string     `json:"orderId"`
	TotalContainers     int        `json:"totalContainers"`
	DeliveredContainers int        `json:"deliveredContainers"`
	InTransitContainers int        `json:"inTransitContainers"`
	PendingContainers   int        `json:"pendingContainers"`
	OverallStatus       string     `json:"overallStatus"`
	LastUpdated         *time.Time `json:"lastUpdated,omitempty"`
}

// OrderItem is a line of an order.
type OrderItem struct {
	ID            string
	ProductID     string
	Quantity      int
	PriceAmount   float64
	PriceCurrency string
	ProductName   string
}

// Order wraps an order resource with derived queries. Values are immutable:
// updates produce a new Order rather than mutating in place.
type Order struct {
	OrderID         string
	CustomerID      string
	LogisticsID     string
	ShippingAddress string
	OrderDate       time.Time
	Status          OrderStatus
	TotalPrice      float64
	Items           []OrderItem
}

// NewOrder builds an Order from a backend payload. The raw status string is
// normalized through the OrderStatus enumeration; unknown values are a hard
// error. Re-wrapping the output of ToResource yields an equal Order.
func NewOrder(res OrderResource) (Order, error) {
	status, err := ParseOrderStatus(res.Status)
	if err != nil {
		return Order{}, err
	}
	items := make([]OrderItem, 0, len(res.OrderItems))
	for _, it := range res.OrderItems {
		items = append(items, OrderItem{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			PriceAmount:   it.PriceAmount,
			PriceCurrency: it.PriceCurrency,
			ProductName:   it.ProductName,
		})
	}
	return Order{
		OrderID:         res.OrderID,
		CustomerID:      res.CustomerID,
		LogisticsID:     res.LogisticsID,
		ShippingAddress: res.ShippingAddress,
		OrderDate:       res.OrderDate,
		Status:          status,
		TotalPrice:      res.TotalPrice,
		Items:           items,
	}, nil
}

// TotalItems is the sum of item quantities.
func (o Order) TotalItems() int {
	total := 0
	for _, it := range o.Items {
		total += it.Quantity
	}
	return total
}

// FormattedTotalPrice renders the total price with the payload's currency
// code (first item wins), falling back to PEN.
func (o Order) FormattedTotalPrice() string {
	unit := DefaultCurrency
	if len(o.Items) > 0 && o.Items[0].PriceCurrency != "" {
		if parsed, err := currency.ParseISO(o.Items[0].PriceCurrency); err == nil {
			unit = parsed
		}
	}
	return pricePrinter.Sprintf("%v", currency.Symbol(unit.Amount(o.TotalPrice)))
}

func (o Order) IsPending() bool   { return o.Status.IsPending() }
func (o Order) IsInProcess() bool { return o.Status.IsInProcess() }
func (o Order) IsShipped() bool   { return o.Status.IsShipped() }
func (o Order) IsDelivered() bool { return o.Status.IsDelivered() }
func (o Order) IsCancelled() bool { return o.Status.IsCancelled() }

// CanBeCancelled: only pending orders may be cancelled by the customer.
func (o Order) CanBeCancelled() bool { return o.Status.IsPending() }

// WithStatus returns a copy with the status replaced.
func (o Order) WithStatus(status OrderStatus) Order {
	o.Status = status
	o.Items = append([]OrderItem(nil), o.Items...)
	return o
}

// ToResource flattens the order back to its transport shape; the status
// singleton collapses to its string name.
func (o Order) ToResource() OrderResource {
	items := make([]OrderItemResource, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResource{
			ID:            it.ID,
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			PriceAmount:   it.PriceAmount,
			PriceCurrency: it.PriceCurrency,
			ProductName:   it.ProductName,
		})
	}
	return OrderResource{
		OrderID:         o.OrderID,
		CustomerID:      o.CustomerID,
		LogisticsID:     o.LogisticsID,
		ShippingAddress: o.ShippingAddress,
		OrderDate:       o.OrderDate,
		Status:          o.Status.String(),
		TotalPrice:      o.TotalPrice,
		OrderItems:      items,
	}
}
