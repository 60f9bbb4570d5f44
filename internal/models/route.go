package models

import (
	"math"
	"time"
)

type RouteResource struct {
	RouteID          string                 `json:"routeId"`
	VehicleID        string                 `json:"vehicleId"`
	RouteName        string                 `json:"routeName"`
	PlannedStartDate *time.Time             `json:"plannedStartDate,omitempty"`
	Description      string                 `json:"description,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
	IsActive         bool                   `json:"isActive"`
	RouteItems       []RouteItemResource    `json:"routeItems"`
	Orders           []OrderSummaryResource `json:"orders"`
}

type RouteItemResource struct {
	ID          string     `json:"id"`
	WarehouseID string     `json:"warehouseId"`
	IsCompleted bool       `json:"isCompleted"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type OrderSummaryResource struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type CreateRouteResource struct {
	VehicleID        string     `json:"vehicleId"`
	RouteName        string     `json:"routeName"`
	WarehouseIDs     []string   `json:"warehouseIds"`
	OrderIDs         []string   `json:"orderIds"`
	PlannedStartDate *time.Time `json:"plannedStartDate,omitempty"`
	Description      string     `json:"description,omitempty"`
}

// RouteItem is a single warehouse stop within an ordered delivery route.
type RouteItem struct {
	ID          string
	WarehouseID string
	Completed   bool
	CompletedAt *time.Time
}

func (i RouteItem) FormattedCompletionDate() string {
	if i.CompletedAt == nil {
		return ""
	}
	return i.CompletedAt.Format("2 January 2006 15:04")
}

// Route is an ordered sequence of warehouse stops assigned to a vehicle.
// Stops may be completed in any order in the data; traversal queries always
// follow list order.
type Route struct {
	RouteID          string
	VehicleID        string
	Name             string
	PlannedStartDate *time.Time
	Description      string
	CreatedAt        time.Time
	Active           bool
	Stops            []RouteItem
	Orders           []OrderSummaryResource
}

func NewRoute(res RouteResource) Route {
	stops := make([]RouteItem, 0, len(res.RouteItems))
	for _, it := range res.RouteItems {
		stops = append(stops, RouteItem{ID: it.ID, WarehouseID: it.WarehouseID, Completed: it.IsCompleted, CompletedAt: it.CompletedAt})
	}
	return Route{
		RouteID:          res.RouteID,
		VehicleID:        res.VehicleID,
		Name:             res.RouteName,
		PlannedStartDate: res.PlannedStartDate,
		Description:      res.Description,
		CreatedAt:        res.CreatedAt,
		Active:           res.IsActive,
		Stops:            stops,
		Orders:           append([]OrderSummaryResource(nil), res.Orders...),
	}
}

func (r Route) IsActive() bool  { return r.Active }
func (r Route) TotalStops() int { return len(r.Stops) }

func (r Route) CompletedStops() int {
	n := 0
	for _, s := range r.Stops {
		if s.Completed {
			n++
		}
	}
	return n
}

// ProgressPercentage is completed stops over total stops, rounded.
// An empty route reports zero.
func (r Route) ProgressPercentage() int {
	if len(r.Stops) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(r.CompletedStops()) / float64(len(r.Stops))))
}

// IsCompleted: all stops complete and at least one stop exists.
func (r Route) IsCompleted() bool {
	return len(r.Stops) > 0 && r.CompletedStops() == len(r.Stops)
}

// NextStop returns the first incomplete stop in list order.
func (r Route) NextStop() (RouteItem, bool) {
	for _, s := range r.Stops {
		if !s.Completed {
			return s, true
		}
	}
	return RouteItem{}, false
}

func (r Route) HasStarted() bool { return r.CompletedStops() > 0 }

func (r Route) TotalOrders() int { return len(r.Orders) }

func (r Route) PendingOrders() []OrderSummaryResource {
	var out []OrderSummaryResource
	for _, o := range r.Orders {
		if !OrderStatus(o.Status).IsDelivered() && !OrderStatus(o.Status).IsCancelled() {
			out = append(out, o)
		}
	}
	return out
}

func (r Route) CompletedOrders() []OrderSummaryResource {
	var out []OrderSummaryResource
	for _, o := range r.Orders {
		if OrderStatus(o.Status).IsDelivered() {
			out = append(out, o)
		}
	}
	return out
}

func (r Route) ToResource() RouteResource {
	items := make([]RouteItemResource, 0, len(r.Stops))
	for _, s := range r.Stops {
		items = append(items, RouteItemResource{ID: s.ID, WarehouseID: s.WarehouseID, IsCompleted: s.Completed, CompletedAt: s.CompletedAt})
	}
	return RouteResource{
		RouteID:          r.RouteID,
		VehicleID:        r.VehicleID,
		RouteName:        r.Name,
		PlannedStartDate: r.PlannedStartDate,
		Description:      r.Description,
		CreatedAt:        r.CreatedAt,
		IsActive:         r.Active,
		RouteItems:       items,
		Orders:           append([]OrderSummaryResource(nil), r.Orders...),
	}
}
