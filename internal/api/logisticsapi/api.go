package logisticsapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/QuipuLog/CargoTrail/internal/models"
	"github.com/QuipuLog/CargoTrail/internal/storage/pglogistics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
)

// Store is the persistence surface the API needs. *pglogistics.Storage
// implements it; tests substitute an in-memory fake.
type Store interface {
	CreateOrder(ctx context.Context, o models.OrderResource) error
	GetOrder(ctx context.Context, orderID string) (models.OrderResource, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]models.OrderResource, error)
	ListOrdersByLogistics(ctx context.Context, logisticsID string) ([]models.OrderResource, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (models.OrderResource, error)
	UpdateOrderShippingAddress(ctx context.Context, orderID, address string) (models.OrderResource, error)
	ReplaceOrderItems(ctx context.Context, orderID string, items []models.OrderItemResource, total float64) (models.OrderResource, error)

	CreateContainer(ctx context.Context, c models.ContainerResource) error
	GetContainer(ctx context.Context, containerID string) (models.ContainerResource, error)
	ListContainersByOrder(ctx context.Context, orderID string) ([]models.ContainerResource, error)
	ListContainersByWarehouse(ctx context.Context, warehouseID string) ([]models.ContainerResource, error)
	UpdateContainerWarehouse(ctx context.Context, containerID, warehouseID string) (models.ContainerResource, error)
	CompleteContainer(ctx context.Context, containerID, warehouseID, notes string, at time.Time) (models.ContainerResource, error)
	SetContainerQRCode(ctx context.Context, containerID string, qr models.QrCodeResource) (models.ContainerResource, error)

	CreateRoute(ctx context.Context, r models.RouteResource, orderIDs []string) error
	GetRoute(ctx context.Context, routeID string) (models.RouteResource, error)
	ListRoutes(ctx context.Context) ([]models.RouteResource, error)
	ListActiveRoutes(ctx context.Context) ([]models.RouteResource, error)
	ListRoutesByVehicle(ctx context.Context, vehicleID string) ([]models.RouteResource, error)
	ListRoutesByOrder(ctx context.Context, orderID string) ([]models.RouteResource, error)
	SetRouteActive(ctx context.Context, routeID string, active bool) (models.RouteResource, error)
	CompleteRouteItem(ctx context.Context, routeID, routeItemID string, at time.Time) (models.RouteResource, error)

	InsertEvent(ctx context.Context, e models.TrackingEventResource) error
	ListEventsByContainer(ctx context.Context, containerID string) ([]models.TrackingEventResource, error)
	ListEventsByOrder(ctx context.Context, orderID string) ([]models.TrackingEventResource, error)

	CreateProduct(ctx context.Context, p models.ProductResource) error
	GetProduct(ctx context.Context, productID string) (models.ProductResource, error)
	ListProducts(ctx context.Context) ([]models.ProductResource, error)

	CreateWarehouse(ctx context.Context, w models.WarehouseResource) error
	GetWarehouse(ctx context.Context, warehouseID string) (models.WarehouseResource, error)
	ListWarehouses(ctx context.Context) ([]models.WarehouseResource, error)
	DeleteWarehouse(ctx context.Context, warehouseID string) error

	CreateVehicle(ctx context.Context, v models.VehicleResource) error
	GetVehicle(ctx context.Context, vehicleID string) (models.VehicleResource, error)
	ListVehicles(ctx context.Context) ([]models.VehicleResource, error)
	UpdateVehicleStatus(ctx context.Context, vehicleID, status string) (models.VehicleResource, error)
	UpdateVehicleLocation(ctx context.Context, vehicleID string, lat, lon float64) (models.VehicleResource, error)

	CreateTenantWithUser(ctx context.Context, t pglogistics.TenantRecord, u pglogistics.UserRecord) error
	CreateUser(ctx context.Context, u pglogistics.UserRecord) error
	GetUser(ctx context.Context, userID string) (pglogistics.UserRecord, error)
	GetUserByUsername(ctx context.Context, username string) (pglogistics.UserRecord, error)
	ListUsers(ctx context.Context) ([]pglogistics.UserRecord, error)
}

// EventPublisher feeds the live update topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// SignInLimiter throttles credential guessing per client address.
type SignInLimiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

type Options struct {
	JWTSecret           string
	JWTExpiry           time.Duration
	SignInRatePerMinute int64
	ContainerTopic      string
}

type API struct {
	store    Store
	producer EventPublisher
	limiter  SignInLimiter

	jwtSecret      string
	jwtExpiry      time.Duration
	signInRate     int64
	containerTopic string
}

func New(store Store, producer EventPublisher, limiter SignInLimiter, opts Options) *API {
	expiry := opts.JWTExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	rate := opts.SignInRatePerMinute
	if rate <= 0 {
		rate = 10
	}
	topic := opts.ContainerTopic
	if topic == "" {
		topic = "container.updated"
	}
	return &API{
		store:          store,
		producer:       producer,
		limiter:        limiter,
		jwtSecret:      opts.JWTSecret,
		jwtExpiry:      expiry,
		signInRate:     rate,
		containerTopic: topic,
	}
}

// Router mounts the public /api/v1 surface. Everything except
// authentication requires a bearer token.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/authentication/sign-in", a.handleSignIn)
		r.Post("/authentication/sign-up", a.handleSignUp)

		r.Group(func(r chi.Router) {
			r.Use(a.requireAuth)

			r.Post("/authentication/sign-out", a.handleSignOut)
			r.Post("/authentication/refresh", a.handleRefresh)

			r.Get("/users", a.handleListUsers)
			r.Post("/users", a.handleCreateUser)
			r.Get("/users/{userId}", a.handleGetUser)

			r.Get("/orders", a.handleListOrders)
			r.Post("/orders", a.handleCreateOrder)
			r.Get("/orders/{orderId}", a.handleGetOrder)
			r.Patch("/orders/{orderId}/status", a.handleUpdateOrderStatus)
			r.Patch("/orders/{orderId}/cancel", a.handleCancelOrder)
			r.Patch("/orders/{orderId}/shipping-address", a.handleUpdateShippingAddress)
			r.Post("/orders/{orderId}/items", a.handleAddOrderItem)
			r.Delete("/orders/{orderId}/items/{itemId}", a.handleRemoveOrderItem)
			r.Get("/orders/{orderId}/tracking", a.handleOrderTrackingInfo)

			r.Get("/products", a.handleListProducts)
			r.Post("/products", a.handleCreateProduct)
			r.Get("/products/{productId}", a.handleGetProduct)

			r.Get("/warehouses", a.handleListWarehouses)
			r.Post("/warehouses", a.handleCreateWarehouse)
			r.Get("/warehouses/{warehouseId}", a.handleGetWarehouse)
			r.Delete("/warehouses/{warehouseId}", a.handleDeleteWarehouse)

			r.Get("/vehicles", a.handleListVehicles)
			r.Post("/vehicles", a.handleCreateVehicle)
			r.Get("/vehicles/{vehicleId}", a.handleGetVehicle)
			r.Patch("/vehicles/{vehicleId}/status", a.handleUpdateVehicleStatus)
			r.Patch("/vehicles/{vehicleId}/location", a.handleUpdateVehicleLocation)
			r.Get("/vehicles/{vehicleId}/routes", a.handleListRoutesByVehicle)

			r.Get("/routes", a.handleListRoutes)
			r.Post("/routes", a.handleCreateRoute)
			r.Get("/routes/{routeId}", a.handleGetRoute)
			r.Patch("/routes/{routeId}/active", a.handleSetRouteActive)
			r.Patch("/routes/{routeId}/items/{itemId}/complete", a.handleCompleteRouteItem)

			r.Get("/tracking/orders/{orderId}", a.handleOrderTracking)
			r.Get("/tracking/orders/{orderId}/events", a.handleOrderEvents)
			r.Get("/tracking/containers/{containerId}", a.handleContainerTracking)
			r.Get("/tracking/containers/{containerId}/current", a.handleCurrentContainer)
			r.Patch("/tracking/containers/{containerId}/location", a.handleContainerLocation)
			r.Post("/tracking/containers/{containerId}/complete", a.handleCompleteContainer)
			r.Post("/tracking/events", a.handleCreateEvent)
			r.Get("/tracking/warehouses/{warehouseId}/containers", a.handleWarehouseContainers)
			r.Get("/tracking/routes/active", a.handleActiveRoutes)
			r.Get("/tracking/routes/{routeId}", a.handleRouteTracking)
		})
	})
	return r
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Message: msg})
}

// writeStoreError maps storage errors onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, pglogistics.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	slog.Error("storage", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func pathParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
