package models

import (
	"fmt"
	"time"
)

type ContainerResource struct {
	ContainerID     string             `json:"containerId"`
	OrderID         string             `json:"orderId"`
	WarehouseID     string             `json:"warehouseId"`
	ShipItems       []ShipItemResource `json:"shipItems"`
	TotalWeight     float64            `json:"totalWeight"`
	QrCode          *QrCodeResource    `json:"qrCode,omitempty"`
	IsCompleted     bool               `json:"isCompleted"`
	CompletedAt     *time.Time         `json:"completedAt,omitempty"`
	CompletionNotes string             `json:"completionNotes,omitempty"`
}

type ShipItemResource struct {
	ProductID  string  `json:"productId"`
	Quantity   int     `json:"quantity"`
	UnitWeight float64 `json:"unitWeight"`
}

type QrCodeResource struct {
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type CreateContainerResource struct {
	OrderID     string             `json:"orderId"`
	WarehouseID string             `json:"warehouseId"`
	ShipItems   []ShipItemResource `json:"shipItems"`
	TotalWeight float64            `json:"totalWeight"`
}

type CompleteContainerResource struct {
	DeliveryWarehouseID string     `json:"deliveryWarehouseId"`
	DeliveryDate        *time.Time `json:"deliveryDate,omitempty"`
	DeliveryNotes       string     `json:"deliveryNotes,omitempty"`
}

// ShipItem is one product line inside a container.
type ShipItem struct {
	ProductID  string
	Quantity   int
	UnitWeight float64
}

// TotalWeight of the line: quantity times unit weight.
func (i ShipItem) TotalWeight() float64 { return float64(i.Quantity) * i.UnitWeight }

func (i ShipItem) FormattedTotalWeight() string { return fmt.Sprintf("%g kg", i.TotalWeight()) }
func (i ShipItem) FormattedUnitWeight() string  { return fmt.Sprintf("%g kg", i.UnitWeight) }

// Container aggregates ship items for one order at one warehouse. Completion
// is one-way: a completed container is terminal for write purposes.
type Container struct {
	ContainerID     string
	OrderID         string
	WarehouseID     string
	Items           []ShipItem
	TotalWeight     float64
	QrCode          *QrCodeResource
	Completed       bool
	CompletedAt     *time.Time
	CompletionNotes string
}

func NewContainer(res ContainerResource) Container {
	items := make([]ShipItem, 0, len(res.ShipItems))
	for _, it := range res.ShipItems {
		items = append(items, ShipItem{ProductID: it.ProductID, Quantity: it.Quantity, UnitWeight: it.UnitWeight})
	}
	return Container{
		ContainerID:     res.ContainerID,
		OrderID:         res.OrderID,
		WarehouseID:     res.WarehouseID,
		Items:           items,
		TotalWeight:     res.TotalWeight,
		QrCode:          res.QrCode,
		Completed:       res.IsCompleted,
		CompletedAt:     res.CompletedAt,
		CompletionNotes: res.CompletionNotes,
	}
}

func (c Container) IsCompleted() bool { return c.Completed }
func (c Container) IsPending() bool   { return !c.Completed }

// TotalItems is the sum of ship item quantities.
func (c Container) TotalItems() int {
	total := 0
	for _, it := range c.Items {
		total += it.Quantity
	}
	return total
}

// ComputedWeight recomputes the weight from the item lines. For a consistent
// payload it equals TotalWeight.
func (c Container) ComputedWeight() float64 {
	var w float64
	for _, it := range c.Items {
		w += it.TotalWeight()
	}
	return w
}

// ReadyForShipment requires a non-empty item list and positive weight.
func (c Container) ReadyForShipment() bool {
	return len(c.Items) > 0 && c.TotalWeight > 0
}

func (c Container) HasQRCode() bool { return c.QrCode != nil }

func (c Container) QRCodeURL() string {
	if c.QrCode == nil {
		return ""
	}
	return c.QrCode.URL
}

func (c Container) FormattedWeight() string { return fmt.Sprintf("%g kg", c.TotalWeight) }

func (c Container) FormattedCompletionDate() string {
	if c.CompletedAt == nil {
		return ""
	}
	return c.CompletedAt.Format("2 January 2006 15:04")
}

// Complete returns a completed copy. Completing an already completed
// container returns the receiver unchanged; there is no un-complete.
func (c Container) Complete(at time.Time, notes string) Container {
	if c.Completed {
		return c
	}
	c.Items = append([]ShipItem(nil), c.Items...)
	c.Completed = true
	c.CompletedAt = &at
	c.CompletionNotes = notes
	return c
}

func (c Container) ToResource() ContainerResource {
	items := make([]ShipItemResource, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, ShipItemResource{ProductID: it.ProductID, Quantity: it.Quantity, UnitWeight: it.UnitWeight})
	}
	return ContainerResource{
		ContainerID:     c.ContainerID,
		OrderID:         c.OrderID,
		WarehouseID:     c.WarehouseID,
		ShipItems:       items,
		TotalWeight:     c.TotalWeight,
		QrCode:          c.QrCode,
		IsCompleted:     c.Completed,
		CompletedAt:     c.CompletedAt,
		CompletionNotes: c.CompletionNotes,
	}
}
