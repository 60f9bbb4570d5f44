package orders

import (
	"context"
	"log/slog"

	"github.com/QuipuLog/CargoTrail/internal/integrations/backend"
	"github.com/QuipuLog/CargoTrail/internal/models"
)

// ProductNames resolves product display names for enrichment.
type ProductNames interface {
	Names(ctx context.Context, productIDs []string) (map[string]string, error)
}

// Service wraps the order endpoints. Methods are stateless: build the
// request payload, one HTTP call, map the response into entities, log and
// return the error unchanged.
type Service struct {
	api      backend.Caller
	products ProductNames
}

func New(api backend.Caller, products ProductNames) *Service {
	return &Service{api: api, products: products}
}

// GetOrdersByCustomer lists the caller's orders (customer identity travels
// in the token) enriched with product names for display.
func (s *Service) GetOrdersByCustomer(ctx context.Context) ([]models.Order, error) {
	orders, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return s.EnrichWithProductNames(ctx, orders), nil
}

// GetOrdersByLogistics lists orders for the logistics provider in the token.
// No enrichment: the logistics views only need counts and statuses.
func (s *Service) GetOrdersByLogistics(ctx context.Context) ([]models.Order, error) {
	return s.list(ctx)
}

func (s *Service) list(ctx context.Context) ([]models.Order, error) {
	var res []models.OrderResource
	if err := s.api.Get(ctx, "/orders", nil, &res); err != nil {
		slog.Error("fetch orders", "err", err)
		return nil, err
	}
	out := make([]models.Order, 0, len(res))
	for _, r := range res {
		o, err := models.NewOrder(r)
		if err != nil {
			slog.Error("map order", "orderId", r.OrderID, "err", err)
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (s *Service) GetOrderByID(ctx context.Context, orderID string) (models.Order, error) {
	if orderID == "" {
		return models.Order{}, &models.ValidationError{Field: "orderId", Reason: "required"}
	}
	var res models.OrderResource
	if err := s.api.Get(ctx, "/orders/"+orderID, nil, &res); err != nil {
		slog.Error("fetch order", "orderId", orderID, "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

func (s *Service) Create(ctx context.Context, req models.CreateOrderResource) (models.Order, error) {
	if req.CustomerID == "" {
		return models.Order{}, &models.ValidationError{Field: "customerId", Reason: "required"}
	}
	if len(req.Items) == 0 {
		return models.Order{}, &models.ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	var res models.OrderResource
	if err := s.api.Post(ctx, "/orders", req, &res); err != nil {
		slog.Error("create order", "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

func (s *Service) UpdateStatus(ctx context.Context, orderID, status string) (models.Order, error) {
	if _, err := models.ParseOrderStatus(status); err != nil {
		return models.Order{}, err
	}
	var res models.OrderResource
	body := map[string]string{"status": status}
	if err := s.api.Patch(ctx, "/orders/"+orderID+"/status", body, &res); err != nil {
		slog.Error("update order status", "orderId", orderID, "status", status, "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

func (s *Service) Cancel(ctx context.Context, orderID string) (models.Order, error) {
	var res models.OrderResource
	if err := s.api.Patch(ctx, "/orders/"+orderID+"/cancel", nil, &res); err != nil {
		slog.Error("cancel order", "orderId", orderID, "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

func (s *Service) AddItem(ctx context.Context, orderID string, item models.AddOrderItemResource) (models.Order, error) {
	if item.ProductID == "" {
		return models.Order{}, &models.ValidationError{Field: "productId", Reason: "required"}
	}
	if item.Quantity <= 0 {
		return models.Order{}, &models.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	var res models.OrderResource
	if err := s.api.Post(ctx, "/orders/"+orderID+"/items", item, &res); err != nil {
		slog.Error("add order item", "orderId", orderID, "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

func (s *Service) RemoveItem(ctx context.Context, orderID, itemID string) (models.Order, error) {
	var res models.OrderResource
	if err := s.api.Delete(ctx, "/orders/"+orderID+"/items/"+itemID, &res); err != nil {
		slog.Error("remove order item", "orderId", orderID, "itemId", itemID, "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

func (s *Service) GetTracking(ctx context.Context, orderID string) (models.OrderTrackingInfoResource, error) {
	var res models.OrderTrackingInfoResource
	if err := s.api.Get(ctx, "/orders/"+orderID+"/tracking", nil, &res); err != nil {
		slog.Error("fetch order tracking", "orderId", orderID, "err", err)
		return models.OrderTrackingInfoResource{}, err
	}
	return res, nil
}

func (s *Service) UpdateShippingAddress(ctx context.Context, orderID, shippingAddress string) (models.Order, error) {
	if shippingAddress == "" {
		return models.Order{}, &models.ValidationError{Field: "shippingAddress", Reason: "required"}
	}
	var res models.OrderResource
	body := map[string]string{"shippingAddress": shippingAddress}
	if err := s.api.Patch(ctx, "/orders/"+orderID+"/shipping-address", body, &res); err != nil {
		slog.Error("update shipping address", "orderId", orderID, "err", err)
		return models.Order{}, err
	}
	return models.NewOrder(res)
}

// EnrichWithProductNames attaches product display names to every order item.
// Best effort: if the batch lookup fails the original orders are returned
// unchanged, never an error and never partial data.
func (s *Service) EnrichWithProductNames(ctx context.Context, orders []models.Order) []models.Order {
	if s.products == nil || len(orders) == 0 {
		return orders
	}

	seen := map[string]struct{}{}
	var ids []string
	for _, o := range orders {
		for _, it := range o.Items {
			if it.ProductID == "" {
				continue
			}
			if _, ok := seen[it.ProductID]; ok {
				continue
			}
			seen[it.ProductID] = struct{}{}
			ids = append(ids, it.ProductID)
		}
	}
	if len(ids) == 0 {
		return orders
	}

	names, err := s.products.Names(ctx, ids)
	if err != nil {
		slog.Warn("product name enrichment failed, returning orders as-is", "err", err)
		return orders
	}

	out := make([]models.Order, len(orders))
	for i, o := range orders {
		items := append([]models.OrderItem(nil), o.Items...)
		for j := range items {
			if name, ok := names[items[j].ProductID]; ok {
				items[j].ProductName = name
			}
		}
		o.Items = items
		out[i] = o
	}
	return out
}
