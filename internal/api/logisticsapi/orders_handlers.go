package logisticsapi

import (
	"net/http"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/google/uuid"
)

// handleListOrders serves the caller's orders. An explicit customerId or
// logisticsId query overrides; otherwise the identity in the token decides
// the view: clients see their own orders, everyone else the logistics view.
func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if customerID := q.Get("customerId"); customerID != "" {
		orders, err := a.store.ListOrdersByCustomer(r.Context(), customerID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(orders))
		return
	}
	if logisticsID := q.Get("logisticsId"); logisticsID != "" {
		orders, err := a.store.ListOrdersByLogistics(r.Context(), logisticsID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, emptyIfNil(orders))
		return
	}

	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var orders []models.OrderResource
	var err error
	if p.HasRole(models.RoleClient.String()) {
		orders, err = a.store.ListOrdersByCustomer(r.Context(), p.UserID)
	} else {
		orders, err = a.store.ListOrdersByLogistics(r.Context(), p.UserID)
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(orders))
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := a.store.GetOrder(r.Context(), pathParam(r, "orderId"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customerId is required")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "at least one item is required")
		return
	}

	items := make([]models.OrderItemResource, 0, len(req.Items))
	var total float64
	for _, it := range req.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "each item needs productId and positive quantity")
			return
		}
		p, err := a.store.GetProduct(r.Context(), it.ProductID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		items = append(items, models.OrderItemResource{
			ID:            uuid.NewString(),
			ProductID:     it.ProductID,
			Quantity:      it.Quantity,
			PriceAmount:   p.Price,
			PriceCurrency: p.Currency,
			ProductName:   p.Name,
		})
		total += p.Price * float64(it.Quantity)
	}

	o := models.OrderResource{
		OrderID:         uuid.NewString(),
		CustomerID:      req.CustomerID,
		LogisticsID:     req.LogisticsID,
		ShippingAddress: req.ShippingAddress,
		OrderDate:       time.Now().UTC(),
		Status:          models.OrderStatusPending.String(),
		TotalPrice:      total,
		OrderItems:      items,
	}
	if err := a.store.CreateOrder(r.Context(), o); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (a *API) handleUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	o, err := a.store.UpdateOrderStatus(r.Context(), pathParam(r, "orderId"), status.String())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// handleCancelOrder cancels an order. Only pending orders can be cancelled.
func (a *API) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := pathParam(r, "orderId")
	o, err := a.store.GetOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if !models.OrderStatus(o.Status).IsPending() {
		writeError(w, http.StatusUnprocessableEntity, "only pending orders can be cancelled")
		return
	}
	cancelled, err := a.store.UpdateOrderStatus(r.Context(), orderID, models.OrderStatusCancelled.String())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}

func (a *API) handleUpdateShippingAddress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress string `json:"shippingAddress"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ShippingAddress == "" {
		writeError(w, http.StatusBadRequest, "shippingAddress is required")
		return
	}
	o, err := a.store.UpdateOrderShippingAddress(r.Context(), pathParam(r, "orderId"), req.ShippingAddress)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (a *API) handleAddOrderItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddOrderItemResource
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "productId and positive quantity are required")
		return
	}

	orderID := pathParam(r, "orderId")
	o, err := a.store.GetOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	p, err := a.store.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	items := append(o.OrderItems, models.OrderItemResource{
		ID:            uuid.NewString(),
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PriceAmount:   p.Price,
		PriceCurrency: p.Currency,
		ProductName:   p.Name,
	})
	updated, err := a.store.ReplaceOrderItems(r.Context(), orderID, items, orderTotal(items))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *API) handleRemoveOrderItem(w http.ResponseWriter, r *http.Request) {
	orderID := pathParam(r, "orderId")
	itemID := pathParam(r, "itemId")

	o, err := a.store.GetOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	items := make([]models.OrderItemResource, 0, len(o.OrderItems))
	found := false
	for _, it := range o.OrderItems {
		if it.ID == itemID {
			found = true
			continue
		}
		items = append(items, it)
	}
	if !found {
		writeError(w, http.StatusNotFound, "order item not found")
		return
	}

	updated, err := a.store.ReplaceOrderItems(r.Context(), orderID, items, orderTotal(items))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleOrderTrackingInfo aggregates container progress for one order.
func (a *API) handleOrderTrackingInfo(w http.ResponseWriter, r *http.Request) {
	orderID := pathParam(r, "orderId")
	if _, err := a.store.GetOrder(r.Context(), orderID); err != nil {
		writeStoreError(w, err)
		return
	}
	containers, err := a.store.ListContainersByOrder(r.Context(), orderID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	info := models.OrderTrackingInfoResource{OrderID: orderID, TotalContainers: len(containers)}
	var last *time.Time
	for _, c := range containers {
		if c.IsCompleted {
			info.DeliveredContainers++
		} else {
			info.InTransitContainers++
		}
		if c.CompletedAt != nil && (last == nil || c.CompletedAt.After(*last)) {
			last = c.CompletedAt
		}
	}
	info.PendingContainers = info.TotalContainers - info.DeliveredContainers - info.InTransitContainers
	info.LastUpdated = last

	switch {
	case info.TotalContainers == 0:
		info.OverallStatus = models.OrderStatusPending.String()
	case info.DeliveredContainers == info.TotalContainers:
		info.OverallStatus = models.OrderStatusDelivered.String()
	default:
		info.OverallStatus = models.OrderStatusShipped.String()
	}
	writeJSON(w, http.StatusOK, info)
}

func orderTotal(items []models.OrderItemResource) float64 {
	var total float64
	for _, it := range items {
		total += it.PriceAmount * float64(it.Quantity)
	}
	return total
}
